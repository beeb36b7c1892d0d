package types

import "strings"

// CompanyNameFromDomain derives a display name from the first label of a
// domain, e.g. "my-company.io" becomes "My Company".
func CompanyNameFromDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "www.")
	label, _, _ := strings.Cut(d, ".")
	words := strings.FieldsFunc(label, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
