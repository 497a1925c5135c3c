package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/tictacgame-go/internal/protocol"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Spectate a random live session",
		Long: `watch attaches to a randomly chosen live session, prints the catch-up
move list, then follows the game's moves and outcome until disconnected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}

	return cmd
}

func runWatch() error {
	client, err := Dial(cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Send(protocol.ClientWatchGame); err != nil {
		return err
	}

	for {
		msg, err := client.Recv(0)
		if err != nil {
			return err
		}
		fmt.Println(FormatEvent(msg))
	}
}
