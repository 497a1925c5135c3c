// Package cli implements the tictac command line client. It speaks the game
// wire protocol directly over a persistent TCP connection.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tictac",
		Short: "CLI client for the tic-tac-toe game server",
		Long: `tictac is a client for the tic-tac-toe session server wire protocol.

It covers account management, matchmaking, interactive play with chat,
spectating a random live session, and replay retrieval.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Server address (env: TICTAC_SERVER)")

	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
