package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/config"
	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/leaders"
)

var interviewsCmd = &cobra.Command{
	Use:   "interviews <url>",
	Short: "Find and rank recent interviews of a company's leaders",
	Long:  "Resolves the company's leaders, searches YouTube for each, and ranks the results by interview relevance.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterviews,
}

var (
	interviewsMaxLeaders int
	interviewsOutput     string
	interviewsAsTable    bool
)

// interviewsReport is the JSON output of the interviews command.
type interviewsReport struct {
	Company *leaders.CompanyInfo          `json:"company"`
	Results []interviews.LeaderInterviews `json:"results"`
}

func init() {
	interviewsCmd.Flags().IntVar(&interviewsMaxLeaders, "max-leaders", 5, "Number of leaders to search for")
	interviewsCmd.Flags().StringVarP(&interviewsOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	interviewsCmd.Flags().BoolVar(&interviewsAsTable, "table", false, "Print a table instead of JSON")
	rootCmd.AddCommand(interviewsCmd)
}

func runInterviews(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.finder == nil {
		return fmt.Errorf("interview search requires %s to be set", config.EnvYouTubeAPIKey)
	}
	if interviewsMaxLeaders < 1 {
		return fmt.Errorf("--max-leaders must be at least 1")
	}

	info, err := a.service.CompanyInfo(ctx, args[0])
	if err != nil {
		return err
	}

	people := info.Leaders
	if len(people) > interviewsMaxLeaders {
		people = people[:interviewsMaxLeaders]
	}
	results := a.finder.ForLeaders(ctx, people, info.CompanyName)

	if a.cfg.Verbose {
		a.printer.PrintLeaders(info.Domain, info.DataSource, info.Leaders)
		for _, res := range results {
			a.printer.PrintInterviews(res.Leader, res.Interviews)
		}
	}

	if interviewsAsTable {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), interviewsTable(results))
		return err
	}
	return writeJSON(cmd.OutOrStdout(), interviewsOutput, interviewsReport{Company: info, Results: results})
}
