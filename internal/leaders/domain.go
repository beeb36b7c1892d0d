// Package leaders finds the leadership team of a company from its URL,
// combining the tiered resolver with LLM extraction and static placeholders.
package leaders

import (
	"net/netip"
	"net/url"
	"strings"

	"github.com/jonathan/leadprep/internal/resolve"
	"github.com/jonathan/leadprep/internal/types"
)

// ExtractDomain returns the host of a company URL without "www.".
// Bare domains are accepted as-is.
func ExtractDomain(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", &resolve.InputError{Key: rawURL, Message: "url is empty"}
	}

	domain := s
	if strings.HasPrefix(strings.ToLower(s), "http://") || strings.HasPrefix(strings.ToLower(s), "https://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", &resolve.InputError{Key: rawURL, Message: "url cannot be parsed"}
		}
		domain = u.Host
	} else if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}

	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")
	if domain == "" || !strings.Contains(domain, ".") {
		return "", &resolve.InputError{Key: rawURL, Message: "invalid domain"}
	}
	return domain, nil
}

// ValidateCompanyURL reports whether rawURL plausibly points at a public
// company website. Localhost and private or loopback addresses are rejected.
func ValidateCompanyURL(rawURL string) bool {
	domain, err := ExtractDomain(rawURL)
	if err != nil || len(domain) < 3 {
		return false
	}

	host := domain
	if h, _, found := strings.Cut(domain, ":"); found {
		host = h
	}
	if strings.HasPrefix(host, "localhost") {
		return false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
			return false
		}
	}
	return true
}

// CompanyName derives a display name from a domain.
func CompanyName(domain string) string {
	return types.CompanyNameFromDomain(domain)
}
