package resolve

import "fmt"

// InputError reports a key the resolver cannot work with. It is a caller
// mistake and must not be retried.
type InputError struct {
	Key     string
	Message string
}

func (e *InputError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid input %q: %s", e.Key, e.Message)
}
