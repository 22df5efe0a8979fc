package jobs

import "fmt"

// InputError reports a missing or unreadable input: job file, template or static data.
type InputError struct {
	Path    string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s %q: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("input error: %s %q", e.Message, e.Path)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
