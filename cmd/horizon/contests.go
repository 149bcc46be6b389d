package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/horizon/internal/app"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/domain"
)

var contestsFlags struct {
	platforms []string
	statuses  []string
	query     string
}

var contestsCmd = &cobra.Command{
	Use:   "contests",
	Short: "Fetch contests once and print them as a table",
	Long: `Fetch every enabled platform once and print the normalized contests.

Filters combine: platforms and statuses are OR-ed within a flag, flags are
AND-ed. Platforms that fail are reported as warnings; the others are still
printed.`,
	Example: `  horizon contests --platform codeforces --status upcoming
  horizon contests -q "div. 2"`,
	RunE: runContests,
}

func init() {
	f := contestsCmd.Flags()
	f.StringSliceVarP(&contestsFlags.platforms, "platform", "p", nil, "platforms to show (codeforces, leetcode, codechef)")
	f.StringSliceVarP(&contestsFlags.statuses, "status", "s", nil, "statuses to show (upcoming, ongoing, past)")
	f.StringVarP(&contestsFlags.query, "query", "q", "", "case-insensitive name substring")
}

func runContests(cmd *cobra.Command, _ []string) error {
	fs, err := domain.NewFilterState(contestsFlags.platforms, contestsFlags.statuses, contestsFlags.query)
	if err != nil {
		return err
	}

	cfg := config.Load()
	log := cliLogger(cfg)
	agg, err := app.BuildAggregator(cfg, log)
	if err != nil {
		return err
	}

	var all []domain.Contest
	for _, res := range agg.Collect(cmd.Context()) {
		if res.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s: %v\n", res.Platform, res.Err)
			continue
		}
		all = append(all, res.Contests...)
	}

	contests := domain.Filter(all, fs)
	domain.SortContests(contests)

	out := cmd.OutOrStdout()
	if len(contests) == 0 {
		fmt.Fprintln(out, "No contests found.")
		return nil
	}
	fmt.Fprintln(out, renderContests(contests, time.Now()))
	fmt.Fprintf(out, "%d contest(s)\n", len(contests))
	return nil
}
