package llm

import "fmt"

// ProviderError reports a failed call to the text-generation provider
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
