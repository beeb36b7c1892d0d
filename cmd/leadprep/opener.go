package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/types"
)

var openerCmd = &cobra.Command{
	Use:   "opener",
	Short: "Draft cold outreach openers from research",
	Long: `Drafts three openers per lead from research results.

Pass --research with the output of "leadprep research" to reuse earlier research,
or give a lead with --domain/--name/--title to research and draft in one step.`,
	RunE: runOpener,
}

var (
	openerLead           types.Lead
	openerResearch       string
	openerProductContext string
	openerOutput         string
)

func init() {
	addLeadFlags(openerCmd, &openerLead)
	openerCmd.Flags().StringVar(&openerResearch, "research", "", "Path to research JSON produced by the research command")
	openerCmd.Flags().StringVar(&openerProductContext, "product-context", "", "Product description (default from config or built-in)")
	openerCmd.Flags().StringVarP(&openerOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	rootCmd.AddCommand(openerCmd)
}

func runOpener(cmd *cobra.Command, _ []string) error {
	if openerResearch == "" && openerLead.CompanyDomain == "" {
		return fmt.Errorf("either --research or --domain is required")
	}
	if openerResearch != "" && openerLead.CompanyDomain != "" {
		return fmt.Errorf("--research and --domain are mutually exclusive")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireLLM("opener drafting"); err != nil {
		return err
	}

	var results []types.ResearchResult
	if openerResearch != "" {
		var report researchReport
		if err := readJSON(openerResearch, &report); err != nil {
			return err
		}
		results = report.Results
	} else {
		results = a.researcher.ResearchBatch(ctx, []types.Lead{openerLead})
	}

	openers := a.openers.GenerateBatch(ctx, results, openerProductContext)
	if a.cfg.Verbose {
		for _, op := range openers {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n=== %s (%s) ===\n%s\n", op.Lead.Name, op.Lead.DisplayCompany(), op.Text)
		}
	}
	return writeJSON(cmd.OutOrStdout(), openerOutput, openers)
}
