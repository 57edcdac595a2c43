package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veriverse/veriverse/internal/voting"
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the reviewer reward leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reviewers, err := voting.LoadReviewers(cfg.Voting.PersonasPath)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s %-12s %-12s %8s  %s\n", "RANK", "REVIEWER", "LOCATION", "POINTS", "TIER")
		for _, entry := range voting.Leaderboard(reviewers) {
			fmt.Printf("%-5d %-12s %-12s %8.0f  %s\n",
				entry.Rank, entry.Name, entry.Location, entry.Points, entry.Tier)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}
