package model

// Account is a registered player account.
//
// Passwords are stored and compared in plaintext. That matches the persisted
// account file format, which is part of the external protocol contract; see
// the storage package for the on-disk encoding.
type Account struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
