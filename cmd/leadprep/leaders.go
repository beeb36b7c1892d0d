package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/leaders"
)

var leadersCmd = &cobra.Command{
	Use:   "leaders <url> [url...]",
	Short: "Find the leadership team of one or more companies",
	Long:  "Resolves company leaders through the cache, database, LLM and static fallback tiers, printing company info as JSON.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLeaders,
}

var (
	leadersOutput  string
	leadersAsTable bool
)

func init() {
	leadersCmd.Flags().StringVarP(&leadersOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	leadersCmd.Flags().BoolVar(&leadersAsTable, "table", false, "Print a table instead of JSON")
	rootCmd.AddCommand(leadersCmd)
}

func runLeaders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		info, err := a.service.CompanyInfo(ctx, args[0])
		if err != nil {
			return err
		}
		if a.cfg.Verbose {
			a.printer.PrintLeaders(info.Domain, info.DataSource, info.Leaders)
		}
		if leadersAsTable {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), leadersTable([]*leaders.CompanyInfo{info}))
			return err
		}
		return writeJSON(cmd.OutOrStdout(), leadersOutput, info)
	}

	results := a.service.CompanyInfoBatch(ctx, args, a.cfg.BatchConcurrency)
	if a.cfg.Verbose {
		for _, res := range results {
			if res.Info != nil {
				a.printer.PrintLeaders(res.Info.Domain, res.Info.DataSource, res.Info.Leaders)
			}
		}
	}
	if leadersAsTable {
		infos := make([]*leaders.CompanyInfo, 0, len(results))
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.URL, res.Error)
				continue
			}
			infos = append(infos, res.Info)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), leadersTable(infos))
		return err
	}
	return writeJSON(cmd.OutOrStdout(), leadersOutput, results)
}
