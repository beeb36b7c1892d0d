package types

// Lead identifies a person at a company to research and contact.
type Lead struct {
	CompanyDomain string `json:"company_domain" validate:"required"`
	CompanyName   string `json:"company_name,omitempty"`
	Name          string `json:"lead_name,omitempty"`
	Title         string `json:"lead_title,omitempty"`
}

// DisplayCompany returns the company name, falling back to the domain.
func (l Lead) DisplayCompany() string {
	if l.CompanyName != "" {
		return l.CompanyName
	}
	return l.CompanyDomain
}

// Signal is a single research finding.
type Signal struct {
	Signal    string `json:"signal"`
	Source    string `json:"source,omitempty"`
	Date      string `json:"date,omitempty"`
	Relevance string `json:"relevance,omitempty"`
}

// ResearchBrief is the structured result of researching a lead.
type ResearchBrief struct {
	CompanyOverview   string   `json:"company_overview"`
	CompanySignals    []Signal `json:"company_signals"`
	PersonSignals     []Signal `json:"person_signals"`
	IndustryContext   string   `json:"industry_context"`
	PainHypotheses    []string `json:"pain_hypotheses"`
	ConversationHooks []string `json:"conversation_hooks"`
	BuyingSignals     []string `json:"buying_signals"`
	Sources           []string `json:"sources"`

	// Raw is the unparsed model output; never sent back to the model.
	Raw string `json:"-"`
}

// ResearchResult pairs a lead with its brief or the error that prevented one.
type ResearchResult struct {
	Lead  Lead           `json:"lead"`
	Brief *ResearchBrief `json:"brief,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Failed reports whether research produced nothing usable.
func (r ResearchResult) Failed() bool {
	return r.Error != "" && (r.Brief == nil || len(r.Brief.CompanySignals) == 0)
}

// Opener is a drafted outreach message for one lead.
type Opener struct {
	Lead            Lead   `json:"lead"`
	Text            string `json:"opener"`
	ResearchSummary string `json:"research_summary,omitempty"`
	Error           string `json:"error,omitempty"`
}
