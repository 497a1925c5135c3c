// Package protocol defines the wire format shared by the game server and its
// clients: comma-separated text messages, one per transport payload, whose
// first field is an integer signifier identifying the message type.
package protocol

// Client-to-server signifiers
const (
	ClientLogin                 = 1
	ClientCreateAccount         = 2
	ClientAddToGameSessionQueue = 3
	ClientTicTacToePlay         = 4 // reserved; never dispatched
	ClientPlayerAction          = 5
	ClientPlayerWin             = 6
	ClientIsDraw                = 7
	ClientSendMessage           = 8
	ClientWatchGame             = 9
	ClientStartNewSession       = 10
	ClientRequestReplay         = 11
	ClientSaveReplay            = 12 // reserved; never dispatched
)

// Server-to-client signifiers
const (
	ServerLoginResponse              = 1
	ServerGameSessionStarted         = 2
	ServerOpponentPlay               = 3
	ServerDisplayMessage             = 4
	ServerDecideTurnOrder            = 5 // reserved; never emitted
	ServerSpectatorJoin              = 6
	ServerSpectatorUpdate            = 7
	ServerAnnounceWinner             = 8
	ServerAnnounceDraw               = 9
	ServerSendReplayList             = 10
	ServerAnnounceWinnerForSpectator = 11
	ServerAnnounceDrawForSpectator   = 12
)

// LoginResponse codes. LoginFailure is an extension to the original four
// codes: it reports a server-side persistence failure without claiming the
// name was taken or the credentials were wrong.
const (
	LoginSuccess           = 1
	LoginNameInUse         = 2
	LoginNameNotFound      = 3
	LoginIncorrectPassword = 4
	LoginFailure           = 5
)

// Transfer-framing codes used by the SpectatorJoin and SendReplayList streams
const (
	TransferStart      = 0
	TransferInProgress = 1
	TransferEnd        = 2
)
