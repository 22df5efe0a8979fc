package ai

import "fmt"

// Reason classifies why generation failed.
type Reason string

const (
	// ReasonRequest means the input was unusable before any call was made.
	ReasonRequest Reason = "request"
	// ReasonAPI covers network, auth and rate-limit failures of the model call.
	ReasonAPI Reason = "api"
	// ReasonParse means the model returned text that is not a JSON object.
	ReasonParse Reason = "parse"
	// ReasonSchema means the JSON did not match the requested schema.
	ReasonSchema Reason = "schema"
)

// GenerationError reports a failed or unusable model response.
type GenerationError struct {
	Reason  Reason
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation error (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation error (%s): %s", e.Reason, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
