// Package convert produces the final PDF from an approved HTML draft.
package convert

import (
	"context"
	"fmt"
)

// Converter turns the draft at src into the final artifact at dst.
// An existing dst is replaced; a failed conversion leaves dst untouched.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// ConversionError reports a draft that could not be converted.
type ConversionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion error: %s (%s)", e.Message, e.Source)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Paper is a PDF page size in inches.
type Paper struct {
	Width  float64
	Height float64
}

var (
	PaperA4     = Paper{Width: 8.27, Height: 11.69}
	PaperLetter = Paper{Width: 8.5, Height: 11}
)

// PaperByName resolves a configured paper name.
func PaperByName(name string) (Paper, error) {
	switch name {
	case "", "a4":
		return PaperA4, nil
	case "letter":
		return PaperLetter, nil
	default:
		return Paper{}, fmt.Errorf("unknown paper size %q", name)
	}
}
