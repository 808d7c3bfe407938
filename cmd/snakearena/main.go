// snakearena is a real-time multiplayer snake server. Players join over SSH
// or a websocket and share one board.
//
// Usage:
//
//	snakearena serve             - Start the arena (SSH + web)
//	snakearena play              - Play locally against an in-process arena
//	snakearena scores            - Show the leaderboard
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.snakearena, ./configs)
//	--db <path>     - Override the scores database path
//	--seed <value>  - RNG seed for reproducible apple placement
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snakearena",
	Short: "Snake Arena - multiplayer snake in your terminal and browser",
	Long: `Snake Arena runs one shared snake board that everyone plays on at once.
SSH clients get a terminal view; browsers connect over a websocket.

Available commands:
  serve    - Start the arena server
  play     - Play locally without a network
  scores   - View the leaderboard

Examples:
  snakearena serve
  snakearena serve --ssh :2222 --web :8081
  snakearena play --name linus --color cyan
  snakearena scores --limit 20`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
}
