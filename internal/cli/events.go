package cli

import (
	"fmt"
	"strings"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

// FormatEvent renders a server message as one human-readable line.
func FormatEvent(msg protocol.Message) string {
	f := func(i int) string {
		if i < len(msg.Fields) {
			return msg.Fields[i]
		}
		return "?"
	}

	switch msg.Signifier {
	case protocol.ServerLoginResponse:
		return "login response: " + loginResponseText(f(0))
	case protocol.ServerGameSessionStarted:
		return fmt.Sprintf("session started: you are player %s, turn order %s, mark %s", f(0), f(1), f(2))
	case protocol.ServerOpponentPlay:
		return fmt.Sprintf("opponent played position %s with mark %s", f(0), f(1))
	case protocol.ServerDisplayMessage:
		return "opponent says: " + strings.Join(msg.Fields, ",")
	case protocol.ServerSpectatorJoin:
		return transferText("spectating", msg)
	case protocol.ServerSpectatorUpdate:
		return fmt.Sprintf("move: position %s, mark %s", f(0), f(1))
	case protocol.ServerAnnounceWinner:
		return fmt.Sprintf("game over: mark %s wins", f(0))
	case protocol.ServerAnnounceDraw:
		return "game over: draw"
	case protocol.ServerSendReplayList:
		return transferText("replay", msg)
	case protocol.ServerAnnounceWinnerForSpectator:
		return fmt.Sprintf("watched game over: mark %s wins", f(0))
	case protocol.ServerAnnounceDrawForSpectator:
		return "watched game over: draw"
	default:
		return fmt.Sprintf("unknown event %d %v", msg.Signifier, msg.Fields)
	}
}

func loginResponseText(code string) string {
	switch code {
	case "1":
		return "success"
	case "2":
		return "name already in use"
	case "3":
		return "name not found"
	case "4":
		return "incorrect password"
	case "5":
		return "server failure, try again"
	default:
		return "unknown code " + code
	}
}

func transferText(what string, msg protocol.Message) string {
	if len(msg.Fields) == 0 {
		return what + ": bad frame"
	}
	switch msg.Fields[0] {
	case "0":
		return what + " start"
	case "1":
		if len(msg.Fields) >= 3 {
			return fmt.Sprintf("%s move: position %s, mark %s", what, msg.Fields[1], msg.Fields[2])
		}
		return what + ": bad frame"
	case "2":
		return what + " end"
	default:
		return what + ": bad frame"
	}
}
