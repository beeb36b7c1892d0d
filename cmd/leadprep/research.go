package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research leads for outreach",
	Long: `Builds a research brief for each lead: company and person signals, pain hypotheses and conversation hooks.

Give a single lead with --domain (and optionally --name, --title, --company),
or a batch with --leads pointing at a JSON array of leads:

  [{"company_domain": "jellyfish.co", "lead_name": "Andrew Lau", "lead_title": "CEO"}]`,
	RunE: runResearch,
}

var (
	researchLead    types.Lead
	researchLeads   string
	researchOutput  string
	researchOpeners bool
)

func init() {
	addLeadFlags(researchCmd, &researchLead)
	researchCmd.Flags().StringVar(&researchLeads, "leads", "", "Path to JSON array of leads")
	researchCmd.Flags().StringVarP(&researchOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	researchCmd.Flags().BoolVar(&researchOpeners, "openers", false, "Also draft openers for each researched lead")
	rootCmd.AddCommand(researchCmd)
}

// addLeadFlags registers the single-lead flags shared by research and opener.
func addLeadFlags(cmd *cobra.Command, lead *types.Lead) {
	cmd.Flags().StringVar(&lead.CompanyDomain, "domain", "", "Company domain of the lead")
	cmd.Flags().StringVar(&lead.CompanyName, "company", "", "Company display name")
	cmd.Flags().StringVar(&lead.Name, "name", "", "Lead's full name")
	cmd.Flags().StringVar(&lead.Title, "title", "", "Lead's job title")
}

// collectLeads returns the leads named on the command line.
func collectLeads(lead types.Lead, leadsPath string) ([]types.Lead, error) {
	switch {
	case leadsPath != "" && lead.CompanyDomain != "":
		return nil, fmt.Errorf("--leads and --domain are mutually exclusive")
	case leadsPath != "":
		var leads []types.Lead
		if err := readJSON(leadsPath, &leads); err != nil {
			return nil, err
		}
		if len(leads) == 0 {
			return nil, fmt.Errorf("no leads in %s", leadsPath)
		}
		return leads, nil
	case lead.CompanyDomain != "":
		return []types.Lead{lead}, nil
	default:
		return nil, fmt.Errorf("either --domain or --leads is required")
	}
}

// researchReport is the JSON output of the research command.
type researchReport struct {
	Results []types.ResearchResult `json:"results"`
	Openers []types.Opener         `json:"openers,omitempty"`
}

func runResearch(cmd *cobra.Command, _ []string) error {
	leads, err := collectLeads(researchLead, researchLeads)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireLLM("research"); err != nil {
		return err
	}

	report := researchReport{Results: a.researcher.ResearchBatch(ctx, leads)}
	if a.cfg.Verbose {
		for _, res := range report.Results {
			a.printer.PrintResearchBrief(res.Lead.DisplayCompany(), res.Brief)
		}
	}
	if researchOpeners {
		report.Openers = a.openers.GenerateBatch(ctx, report.Results, "")
	}

	return writeJSON(cmd.OutOrStdout(), researchOutput, report)
}
