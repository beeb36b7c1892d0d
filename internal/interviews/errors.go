package interviews

import "fmt"

// SearchError represents a failed media search
type SearchError struct {
	Query   string
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	prefix := "search error"
	if e.Query != "" {
		prefix = fmt.Sprintf("search error for %q", e.Query)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}
