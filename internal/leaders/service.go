package leaders

import (
	"context"

	"github.com/jonathan/leadprep/internal/resolve"
	"github.com/jonathan/leadprep/internal/types"
)

// CompanyInfo is everything known about a company's leadership.
type CompanyInfo struct {
	Domain         string         `json:"domain"`
	CompanyName    string         `json:"company_name"`
	Leaders        []types.Leader `json:"leaders"`
	SourceURL      string         `json:"source_url"`
	DataSource     string         `json:"data_source"`
	CacheAvailable bool           `json:"cache_available"`
	StoreAvailable bool           `json:"database_available"`
	LLMAvailable   bool           `json:"llm_available"`
}

// Service turns company URLs into leader lists.
type Service struct {
	resolver *resolve.Resolver
}

// NewService creates a Service over resolver.
func NewService(resolver *resolve.Resolver) *Service {
	return &Service{resolver: resolver}
}

// CompanyInfo validates rawURL and resolves its leaders. DataSource is the
// provenance of the answering tier.
func (s *Service) CompanyInfo(ctx context.Context, rawURL string) (*CompanyInfo, error) {
	domain, err := domainFor(rawURL)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, domain)
	if err != nil {
		return nil, err
	}
	return s.info(rawURL, res), nil
}

// CompanyInfoResult pairs an input URL with its company info or error.
type CompanyInfoResult struct {
	URL   string       `json:"url"`
	Info  *CompanyInfo `json:"info,omitempty"`
	Error string       `json:"error,omitempty"`
}

// CompanyInfoBatch resolves several URLs concurrently. Results keep the
// input order; a bad URL only fails its own slot.
func (s *Service) CompanyInfoBatch(ctx context.Context, rawURLs []string, concurrency int) []CompanyInfoResult {
	results := make([]CompanyInfoResult, len(rawURLs))

	var domains []string
	var slots []int
	for i, rawURL := range rawURLs {
		results[i].URL = rawURL
		domain, err := domainFor(rawURL)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		domains = append(domains, domain)
		slots = append(slots, i)
	}

	for j, br := range s.resolver.ResolveBatch(ctx, domains, concurrency) {
		i := slots[j]
		if br.Err != nil {
			results[i].Error = br.Err.Error()
			continue
		}
		results[i].Info = s.info(rawURLs[i], br.Result)
	}
	return results
}

func domainFor(rawURL string) (string, error) {
	if !ValidateCompanyURL(rawURL) {
		return "", &resolve.InputError{Key: rawURL, Message: "not a public company url"}
	}
	return ExtractDomain(rawURL)
}

func (s *Service) info(rawURL string, res resolve.Result) *CompanyInfo {
	return &CompanyInfo{
		Domain:         res.Domain,
		CompanyName:    CompanyName(res.Domain),
		Leaders:        res.Leaders,
		SourceURL:      rawURL,
		DataSource:     string(res.Provenance),
		CacheAvailable: s.resolver.HasCache(),
		StoreAvailable: s.resolver.HasStore(),
		LLMAvailable:   s.resolver.HasGenerator(),
	}
}
