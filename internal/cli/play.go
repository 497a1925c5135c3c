package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

func newPlayCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Queue for a match and play interactively",
		Long: `play connects, optionally logs in, joins the matchmaking queue and then
reads commands from stdin while printing server events:

  move <position> <mark>   place a mark
  chat <text>              send a chat message to the opponent
  win <mark>               announce the winner and save the replay
  draw                     announce a draw
  replay                   request this session's move list
  new                      end the current session
  quit                     disconnect`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(name, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name to log in with first")
	cmd.Flags().StringVar(&password, "password", "", "Account password")

	return cmd
}

func runPlay(name, password string) error {
	client, err := Dial(cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	if name != "" {
		if err := client.Send(protocol.ClientLogin, name, password); err != nil {
			return err
		}
	}

	if err := client.Send(protocol.ClientAddToGameSessionQueue); err != nil {
		return err
	}
	fmt.Println("queued for a match; waiting for an opponent...")

	// Server events print as they arrive while stdin commands are relayed.
	go func() {
		for {
			msg, err := client.Recv(0)
			if err != nil {
				fmt.Println(err)
				os.Exit(0)
			}
			fmt.Println(FormatEvent(msg))
		}
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		if done, err := runPlayCommand(client, stdin.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		} else if done {
			return nil
		}
	}
	return stdin.Err()
}

func runPlayCommand(client *Client, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "move":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: move <position> <mark>")
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("position must be an integer")
		}
		mark, err := strconv.Atoi(fields[2])
		if err != nil {
			return false, fmt.Errorf("mark must be an integer")
		}
		return false, client.Send(protocol.ClientPlayerAction, pos, mark)
	case "chat":
		return false, client.Send(protocol.ClientSendMessage, strings.Join(fields[1:], " "))
	case "win":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: win <mark>")
		}
		mark, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("mark must be an integer")
		}
		return false, client.Send(protocol.ClientPlayerWin, mark)
	case "draw":
		return false, client.Send(protocol.ClientIsDraw)
	case "replay":
		return false, client.Send(protocol.ClientRequestReplay)
	case "new":
		return false, client.Send(protocol.ClientStartNewSession)
	case "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
}
