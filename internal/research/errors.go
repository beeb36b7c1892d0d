package research

import "fmt"

// ResearchError represents a failed research call for a company
type ResearchError struct {
	Domain  string
	Message string
	Cause   error
}

func (e *ResearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("research error for %s: %s: %v", e.Domain, e.Message, e.Cause)
	}
	return fmt.Sprintf("research error for %s: %s", e.Domain, e.Message)
}

func (e *ResearchError) Unwrap() error {
	return e.Cause
}
