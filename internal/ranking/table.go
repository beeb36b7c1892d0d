// Package ranking scores media candidates against a (person, organization)
// subject and produces deduplicated, ranked result lists.
package ranking

// Placeholders substituted into table patterns before matching.
const (
	placeholderName = "{name}"
	placeholderOrg  = "{org}"
)

// Band awards Points when a value is strictly greater than Above.
// Bands are evaluated in order and only the first match applies.
type Band struct {
	Above  int64
	Points float64
}

// ChannelTier is one band of channel quality. Patterns may contain {org}.
type ChannelTier struct {
	Name     string
	Patterns []string
	Points   float64
}

// Table holds every keyword list and weight used by the scorer.
// All patterns are matched case-insensitively as substrings.
type Table struct {
	// MinDurationSeconds is the hard gate; shorter candidates score 0.
	MinDurationSeconds int

	// ChannelTiers are evaluated in order; only the first matching tier counts.
	ChannelTiers []ChannelTier

	// OrgMissingPenalty applies when neither title nor description mentions the org.
	OrgMissingPenalty float64

	InterviewPhrases []string
	InterviewBoost   float64

	// IndirectPatterns describe the subject being discussed rather than speaking.
	IndirectPatterns []string
	IndirectPenalty  float64

	StrategicKeywords []string
	TitleKeywordBoost float64

	NameInTitleBonus float64
	OrgInTitleBonus  float64

	DurationBands []Band
	ViewBands     []Band

	LikeThreshold int64
	LikeBonus     float64

	NegativePhrases []string
	NegativePenalty float64

	DescriptionKeywordBoost float64
	NameInDescriptionBonus  float64
	ShortDescriptionLength  int
	ShortDescriptionPenalty float64

	MinScore float64
	MaxScore float64
}

// DefaultTable returns the standard interview-relevance scoring table.
func DefaultTable() *Table {
	return &Table{
		MinDurationSeconds: 600,
		ChannelTiers: []ChannelTier{
			{
				Name: "premium",
				Patterns: []string{
					"cnbc", "bloomberg", "wsj", "wall street journal", "reuters",
					"financial times", "forbes", "fortune", "axios", "recode",
				},
				Points: 35,
			},
			{
				Name: "strategic",
				Patterns: []string{
					"ted", "tedx", "sxsw", "code conference", "all things d",
					"goldman sachs", "jpmorgan", "morgan stanley", "goldman sachs talks",
				},
				Points: 30,
			},
			{
				Name: "official",
				Patterns: []string{
					placeholderOrg,
					placeholderOrg + " official",
					placeholderOrg + " investor relations",
					placeholderOrg + " events",
				},
				Points: 25,
			},
			{
				Name:     "finance",
				Patterns: []string{"earnings", "investor"},
				Points:   20,
			},
			{
				Name:     "conference",
				Patterns: []string{"conference", "summit"},
				Points:   18,
			},
		},
		OrgMissingPenalty: -50,
		InterviewPhrases: []string{
			"interview with", "exclusive interview", "fireside chat", "q&a", "in conversation with",
			"panel discussion", "moderated by", "talks to", "answers questions", "one-on-one",
			"sits down with", "conversation with", "ceo interview", "leadership interview", "executive interview",
		},
		InterviewBoost: 30,
		IndirectPatterns: []string{
			"about " + placeholderName,
			"discusses " + placeholderName,
			"reacts to " + placeholderName,
			"news on " + placeholderName,
			"latest on " + placeholderName,
		},
		IndirectPenalty: -30,
		StrategicKeywords: []string{
			"strategy", "vision", "leadership", "business", "future", "innovation",
			"earnings", "investor", "conference", "keynote", "summit", "panel",
			"interview", "discussion", "presentation", "announcement",
		},
		TitleKeywordBoost: 8,
		NameInTitleBonus:  25,
		OrgInTitleBonus:   10,
		DurationBands: []Band{
			{Above: 1800, Points: 15},
			{Above: 900, Points: 10},
			{Above: 600, Points: 5},
		},
		ViewBands: []Band{
			{Above: 100000, Points: 8},
			{Above: 10000, Points: 5},
			{Above: 1000, Points: 2},
		},
		LikeThreshold: 1000,
		LikeBonus:     5,
		NegativePhrases: []string{
			"quit", "fired", "resigns", "leaves", "last day", "goodbye",
			"reaction", "summary", "recap", "analysis", "breakdown",
			"what happened", "latest news", "update", "highlights",
			"reviews", "commentary", "discussion about", "explained",
			"everything you need to know", "top 10", "best of",
			"zipdeal", "autohub", "car", "automotive",
		},
		NegativePenalty:         -40,
		DescriptionKeywordBoost: 8,
		NameInDescriptionBonus:  8,
		ShortDescriptionLength:  100,
		ShortDescriptionPenalty: -8,
		MinScore:                0,
		MaxScore:                100,
	}
}

// band returns the points of the first band whose threshold value exceeds.
func band(bands []Band, value int64) (Band, bool) {
	for _, b := range bands {
		if value > b.Above {
			return b, true
		}
	}
	return Band{}, false
}
