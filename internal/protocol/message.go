package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Message errors
var (
	ErrEmptyMessage    = errors.New("empty message")
	ErrBadSignifier    = errors.New("signifier is not an integer")
	ErrWrongFieldCount = errors.New("wrong field count for signifier")
	ErrFieldNotNumber  = errors.New("numeric field is not an integer")
)

// Message is one decoded wire message: an integer signifier and its raw
// string fields, signifier excluded.
type Message struct {
	Signifier int
	Fields    []string
}

// Parse decodes a raw payload into a Message. It validates only the framing
// (non-empty, integer signifier); field-count validation is per signifier via
// the helpers below.
func Parse(payload string) (Message, error) {
	payload = strings.TrimRight(payload, "\r\n")
	if payload == "" {
		return Message{}, ErrEmptyMessage
	}

	parts := strings.Split(payload, ",")
	sig, err := strconv.Atoi(parts[0])
	if err != nil {
		return Message{}, fmt.Errorf("%w: %q", ErrBadSignifier, parts[0])
	}

	return Message{Signifier: sig, Fields: parts[1:]}, nil
}

// Field returns field i, or an error when the message is too short.
func (m Message) Field(i int) (string, error) {
	if i >= len(m.Fields) {
		return "", fmt.Errorf("%w: need field %d, have %d", ErrWrongFieldCount, i, len(m.Fields))
	}
	return m.Fields[i], nil
}

// IntField returns field i parsed as an integer.
func (m Message) IntField(i int) (int, error) {
	raw, err := m.Field(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: field %d is %q", ErrFieldNotNumber, i, raw)
	}
	return n, nil
}

// Encode builds an outbound payload from a signifier and fields. Fields may
// be ints or strings; anything else falls back to fmt formatting.
func Encode(signifier int, fields ...any) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(signifier))
	for _, f := range fields {
		sb.WriteByte(',')
		switch v := f.(type) {
		case int:
			sb.WriteString(strconv.Itoa(v))
		case string:
			sb.WriteString(v)
		default:
			fmt.Fprintf(&sb, "%v", v)
		}
	}
	return sb.String()
}
