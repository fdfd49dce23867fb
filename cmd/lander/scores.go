package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var (
	flagScoresDifficulty string
	flagScoresRecent     bool
	flagScoresLimit      int
	flagScoresClear      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show landing history",
	Long: `Display the best landings, or the most recent flights with --recent.

Examples:
  lander scores
  lander scores --difficulty hard
  lander scores --recent --limit 20
  lander scores --clear --difficulty easy`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only show one difficulty: easy, medium, hard")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show recent flights instead of best landings")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the landing history (one difficulty with --difficulty)")
}

func runScores(_ *cobra.Command, _ []string) {
	difficulty := ""
	if flagScoresDifficulty != "" {
		d, err := config.ParseDifficulty(flagScoresDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'lander difficulties' to see available presets.")
			os.Exit(1)
		}
		difficulty = string(d)
	}

	// Open lander storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening lander database: %v\n", err)
		os.Exit(1)
	}

	if flagScoresClear {
		err := store.ClearLandings(difficulty)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing landings: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Landing history cleared.")
		return
	}

	var landings []storage.LandingRecord
	title := "Best Landings"
	if flagScoresRecent {
		title = "Recent Flights"
		landings, err = store.RecentLandings(difficulty, flagScoresLimit)
	} else {
		landings, err = store.TopLandings(difficulty, flagScoresLimit)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving landings: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if difficulty != "" {
		title += " - " + config.Difficulty(difficulty).Title()
	}
	fmt.Println(title)
	fmt.Println()

	if len(landings) == 0 {
		fmt.Println("No landings recorded yet.")
		fmt.Println()
		fmt.Println("Run 'lander play' to make the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-24s  %-6s  %-6s  %-7s  %s\n", "Rank", "Level", "Result", "Score", "Fuel", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-24s  %-6s  %-6s  %-7s  %s\n", "----", "-----", "------", "-----", "----", "----", "----")

	for i, l := range landings {
		result := "Landed"
		if !l.Won() {
			result = "Crashed: " + l.Reason
		}
		fmt.Printf("  %-4d  %-8s  %-24.24s  %-6d  %-6.1f  %-7s  %s\n",
			i+1, l.Difficulty, result, l.Score, l.FuelLeft,
			fmt.Sprintf("%.1fs", l.Duration.Seconds()), l.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show summary
	stats, err := store.AllStats()
	if err != nil {
		return
	}
	fmt.Println()
	for _, d := range config.Difficulties() {
		if difficulty != "" && string(d) != difficulty {
			continue
		}
		if st, ok := stats[string(d)]; ok {
			fmt.Printf("%-8s %d flights, %d landed (%.0f%%), best %d\n",
				d.Title(), st.Flights, st.Wins, st.WinRate()*100, st.HighScore)
		}
	}
}
