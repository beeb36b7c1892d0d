package leaders

import (
	"strings"

	"github.com/jonathan/leadprep/internal/types"
)

// knownLeaders are placeholders for a few well-known companies.
var knownLeaders = map[string][]types.Leader{
	"apple.com": {
		{Name: "Tim Cook", Title: "CEO"},
		{Name: "Jeff Williams", Title: "COO"},
		{Name: "Luca Maestri", Title: "CFO"},
		{Name: "Craig Federighi", Title: "SVP of Software Engineering"},
		{Name: "Eddy Cue", Title: "SVP of Services"},
	},
	"microsoft.com": {
		{Name: "Satya Nadella", Title: "CEO"},
		{Name: "Brad Smith", Title: "President"},
		{Name: "Amy Hood", Title: "CFO"},
		{Name: "Judson Althoff", Title: "EVP of Worldwide Commercial Business"},
		{Name: "Scott Guthrie", Title: "EVP of Cloud and AI"},
	},
	"google.com": {
		{Name: "Sundar Pichai", Title: "CEO"},
		{Name: "Ruth Porat", Title: "CFO"},
		{Name: "Kent Walker", Title: "President of Global Affairs"},
		{Name: "Philipp Schindler", Title: "SVP and Chief Business Officer"},
		{Name: "Prabhakar Raghavan", Title: "SVP of Search"},
	},
	"amazon.com": {
		{Name: "Andy Jassy", Title: "CEO"},
		{Name: "Brian Olsavsky", Title: "CFO"},
		{Name: "David Zapolsky", Title: "SVP of Global Public Policy"},
		{Name: "Beth Galetti", Title: "SVP of Human Resources"},
		{Name: "Jeff Blackburn", Title: "SVP of Global Media and Entertainment"},
	},
	"meta.com": {
		{Name: "Mark Zuckerberg", Title: "CEO"},
		{Name: "Sheryl Sandberg", Title: "COO"},
		{Name: "David Wehner", Title: "CFO"},
		{Name: "Mike Schroepfer", Title: "CTO"},
		{Name: "Nick Clegg", Title: "VP of Global Affairs"},
	},
}

// genericLeaders stand in for any company without a known entry.
var genericLeaders = []types.Leader{
	{Name: "John Smith", Title: "CEO"},
	{Name: "Sarah Johnson", Title: "CTO"},
	{Name: "Michael Brown", Title: "CFO"},
	{Name: "Emily Davis", Title: "COO"},
	{Name: "David Wilson", Title: "VP of Engineering"},
}

// StaticFallback is the last resolver tier. It never fails.
type StaticFallback struct{}

// Leaders returns placeholder leaders for domain.
func (StaticFallback) Leaders(domain string) []types.Leader {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if known, ok := knownLeaders[d]; ok {
		return types.CloneLeaders(known)
	}
	return types.CloneLeaders(genericLeaders)
}
