package pipeline

import (
	"errors"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/convert"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/render"
)

// ErrorKind groups job failures by the stage that caused them.
type ErrorKind string

const (
	KindInput      ErrorKind = "input"
	KindGeneration ErrorKind = "generation"
	KindRender     ErrorKind = "render"
	KindConversion ErrorKind = "conversion"
	KindInternal   ErrorKind = "internal"
)

// Classify maps an error chain onto its ErrorKind.
func Classify(err error) ErrorKind {
	var (
		inputErr      *jobs.InputError
		generationErr *ai.GenerationError
		renderErr     *render.RenderError
		conversionErr *convert.ConversionError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &generationErr):
		return KindGeneration
	case errors.As(err, &renderErr):
		return KindRender
	case errors.As(err, &conversionErr):
		return KindConversion
	default:
		return KindInternal
	}
}
