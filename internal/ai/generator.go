// Package ai defines the content generation capability used by the pipeline.
package ai

import (
	"context"

	"github.com/spigell/cv-tailor/internal/cv"
)

// Generator produces a candidate CV for a job listing.
// Implementations make a single attempt per call; retries are the caller's decision.
type Generator interface {
	Generate(ctx context.Context, listing string, schema Schema) (*cv.Document, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, listing string, schema Schema) (*cv.Document, error)

func (f GeneratorFunc) Generate(ctx context.Context, listing string, schema Schema) (*cv.Document, error) {
	return f(ctx, listing, schema)
}
