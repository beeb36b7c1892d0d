package ranking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/leadprep/internal/types"
)

// Rule names reported in score breakdowns.
const (
	RuleDurationGate     = "duration_gate"
	RuleChannel          = "channel"
	RuleOrgMissing       = "org_missing"
	RuleInterview        = "interview_phrase"
	RuleIndirect         = "indirect_mention"
	RuleTitleKeyword     = "title_keyword"
	RuleNameInTitle      = "name_in_title"
	RuleOrgInTitle       = "org_in_title"
	RuleDuration         = "duration"
	RuleViews            = "views"
	RuleLikes            = "likes"
	RuleNegative         = "negative_phrase"
	RuleDescKeyword      = "description_keyword"
	RuleNameInDesc       = "name_in_description"
	RuleShortDescription = "short_description"
)

// Breakdown is a score together with the adjustments that produced it.
type Breakdown struct {
	Score       float64            // clamped final score
	Raw         float64            // unclamped sum
	Adjustments []types.Adjustment // in evaluation order
}

// Score returns the relevance of a candidate to the subject using the default table.
func Score(c types.Candidate, subjectName, subjectOrg string) float64 {
	return DefaultTable().Score(c, subjectName, subjectOrg)
}

// Score returns the clamped relevance score of c for the subject.
func (t *Table) Score(c types.Candidate, subjectName, subjectOrg string) float64 {
	return t.Explain(c, subjectName, subjectOrg).Score
}

// Explain scores c for the subject and reports every rule that fired.
func (t *Table) Explain(c types.Candidate, subjectName, subjectOrg string) Breakdown {
	if c.DurationSeconds < t.MinDurationSeconds {
		return Breakdown{
			Score: t.MinScore,
			Raw:   0,
			Adjustments: []types.Adjustment{
				{Rule: RuleDurationGate, Match: fmt.Sprintf("%ds", c.DurationSeconds), Points: 0},
			},
		}
	}

	s := scorer{
		title:   strings.ToLower(c.Title),
		desc:    strings.ToLower(c.Description),
		channel: strings.ToLower(c.ChannelTitle),
		name:    strings.ToLower(strings.TrimSpace(subjectName)),
		org:     strings.ToLower(strings.TrimSpace(subjectOrg)),
	}

	// Channel quality: highest band only
	for _, tier := range t.ChannelTiers {
		if p, ok := s.firstMatch(s.channel, tier.Patterns); ok {
			s.add(RuleChannel, tier.Name+":"+p, tier.Points)
			break
		}
	}

	// The org must be mentioned somewhere, otherwise this is probably someone else
	if s.org != "" && !strings.Contains(s.title, s.org) && !strings.Contains(s.desc, s.org) {
		s.add(RuleOrgMissing, s.org, t.OrgMissingPenalty)
	}

	for _, phrase := range t.InterviewPhrases {
		if p := s.expand(phrase); contains(s.title, p) || contains(s.desc, p) {
			s.add(RuleInterview, p, t.InterviewBoost)
		}
	}

	for _, pattern := range t.IndirectPatterns {
		if p := s.expand(pattern); contains(s.title, p) || contains(s.desc, p) {
			s.add(RuleIndirect, p, t.IndirectPenalty)
		}
	}

	for _, kw := range t.StrategicKeywords {
		if p := strings.ToLower(kw); contains(s.title, p) {
			s.add(RuleTitleKeyword, p, t.TitleKeywordBoost)
		}
	}

	if s.name != "" && (strings.Contains(s.title, `"`+s.name+`"`) || strings.Contains(s.title, s.name)) {
		s.add(RuleNameInTitle, s.name, t.NameInTitleBonus)
	}

	if contains(s.title, s.org) {
		s.add(RuleOrgInTitle, s.org, t.OrgInTitleBonus)
	}

	if b, ok := band(t.DurationBands, int64(c.DurationSeconds)); ok {
		s.add(RuleDuration, fmt.Sprintf(">%ds", b.Above), b.Points)
	}

	if b, ok := band(t.ViewBands, c.ViewCount); ok {
		s.add(RuleViews, fmt.Sprintf(">%d", b.Above), b.Points)
	}
	if c.LikeCount > t.LikeThreshold {
		s.add(RuleLikes, fmt.Sprintf(">%d", t.LikeThreshold), t.LikeBonus)
	}

	for _, phrase := range t.NegativePhrases {
		if p := strings.ToLower(phrase); contains(s.title, p) {
			s.add(RuleNegative, p, t.NegativePenalty)
		}
	}

	if p, ok := s.firstMatch(s.desc, t.StrategicKeywords); ok {
		s.add(RuleDescKeyword, p, t.DescriptionKeywordBoost)
	}
	if contains(s.desc, s.name) {
		s.add(RuleNameInDesc, s.name, t.NameInDescriptionBonus)
	}
	if n := utf8.RuneCountInString(s.desc); n < t.ShortDescriptionLength {
		s.add(RuleShortDescription, fmt.Sprintf("%d chars", n), t.ShortDescriptionPenalty)
	}

	return Breakdown{
		Score:       clamp(s.total, t.MinScore, t.MaxScore),
		Raw:         s.total,
		Adjustments: s.adjustments,
	}
}

// scorer accumulates points for a single candidate.
type scorer struct {
	title, desc, channel string
	name, org            string

	total       float64
	adjustments []types.Adjustment
}

func (s *scorer) add(rule, match string, points float64) {
	s.total += points
	s.adjustments = append(s.adjustments, types.Adjustment{Rule: rule, Match: match, Points: points})
}

// expand substitutes the subject into a pattern. Patterns whose placeholder
// resolves to an empty subject collapse to "" and never match.
func (s *scorer) expand(pattern string) string {
	p := strings.ToLower(pattern)
	if strings.Contains(p, placeholderName) {
		if s.name == "" {
			return ""
		}
		p = strings.ReplaceAll(p, placeholderName, s.name)
	}
	if strings.Contains(p, placeholderOrg) {
		if s.org == "" {
			return ""
		}
		p = strings.ReplaceAll(p, placeholderOrg, s.org)
	}
	return p
}

func (s *scorer) firstMatch(text string, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if p := s.expand(pattern); contains(text, p) {
			return p, true
		}
	}
	return "", false
}

// contains is strings.Contains except that an empty term never matches.
func contains(text, term string) bool {
	return term != "" && strings.Contains(text, term)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
