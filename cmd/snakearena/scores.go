package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/storage"
)

var (
	flagPlayer string
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best runs recorded on this server, or the most recent runs
of one player.

Examples:
  snakearena scores
  snakearena scores --limit 25
  snakearena scores --player 6f1c2d9e-...`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show one player's recent runs")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of entries (default: leaderboard.size)")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.Leaderboard.Size
	}

	// Open score storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var entries []storage.DeathEntry
	if flagPlayer != "" {
		entries, err = store.PlayerHistory(flagPlayer, limit)
		fmt.Printf("Recent runs - %s\n", flagPlayer)
	} else {
		entries, err = store.TopScores(limit)
		fmt.Println("High Scores - Snake Arena")
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'snakearena serve' or 'snakearena play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %s  %-5s  %-23s  %s\n", "Rank", runewidth.FillRight("Name", core.MaxNameWidth), "Score", "Cause", "Date")
	fmt.Printf("  %-4s  %s  %-5s  %-23s  %s\n", "----", runewidth.FillRight("----", core.MaxNameWidth), "-----", "-----", "----")

	// Print scores
	for i, e := range entries {
		fmt.Printf("  %-4d  %s  %-5d  %-23s  %s\n",
			i+1,
			runewidth.FillRight(e.Name, core.MaxNameWidth),
			e.Score,
			e.Cause,
			e.PlayedAt.Format("2006-01-02 15:04"),
		)
	}

	// Show aggregate stats
	if flagPlayer == "" {
		if stats, err := store.Stats(); err == nil {
			fmt.Println()
			fmt.Printf("Runs: %d  Players: %d  Best: %d  Average: %.1f\n",
				stats.Runs, stats.Players, stats.HighScore, stats.AvgScore)
		}
	}
}
