package leaders

import "fmt"

// ExtractionError represents a failure to get a usable leader list from the LLM
type ExtractionError struct {
	Domain  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("leader extraction error for %s: %s: %v", e.Domain, e.Message, e.Cause)
	}
	return fmt.Sprintf("leader extraction error for %s: %s", e.Domain, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
