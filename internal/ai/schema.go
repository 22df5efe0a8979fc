package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	FieldProfile  = "Profile"
	FieldSkills   = "Technical Skills"
	FieldProjects = "Relevant Projects"
	FieldTitle    = "Title"
	FieldSkillSet = "Skills"

	// Static project fields. The model may echo them; their values are discarded.
	FieldDates       = "Dates"
	FieldLink        = "Link"
	FieldDescription = "Description"

	DefaultProjectSlots = 2
)

// DefaultSkillCategories are the skill sections of the stock template.
var DefaultSkillCategories = []string{
	"Key Competencies",
	"Programming Languages",
	"Frameworks & Libraries",
	"Tools & Platforms",
}

// Schema describes the structured output requested from the model.
type Schema struct {
	ProjectSlots    int
	SkillCategories []string
}

// DefaultSchema returns the schema matching the stock template.
func DefaultSchema() Schema {
	return Schema{
		ProjectSlots:    DefaultProjectSlots,
		SkillCategories: append([]string(nil), DefaultSkillCategories...),
	}
}

// Check reports configuration mistakes in the schema itself.
func (s Schema) Check() error {
	if s.ProjectSlots < 1 {
		return fmt.Errorf("schema needs at least one project slot, got %d", s.ProjectSlots)
	}
	if len(s.SkillCategories) == 0 {
		return fmt.Errorf("schema needs at least one skill category")
	}

	seen := make(map[string]bool, len(s.SkillCategories))
	for _, category := range s.SkillCategories {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("skill category must not be empty")
		}
		if seen[category] {
			return fmt.Errorf("duplicate skill category %q", category)
		}
		seen[category] = true
	}

	return nil
}

// Definition returns the JSON Schema document as a Go value.
func (s Schema) Definition() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	staticField := map[string]any{"type": []string{"string", "null"}}

	skillProps := make(map[string]any, len(s.SkillCategories))
	for _, category := range s.SkillCategories {
		skillProps[category] = stringList
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{FieldProfile, FieldSkills, FieldProjects},
		"properties": map[string]any{
			FieldProfile: map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			FieldSkills: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             append([]string(nil), s.SkillCategories...),
				"properties":           skillProps,
			},
			FieldProjects: map[string]any{
				"type":     "array",
				"minItems": s.ProjectSlots,
				"maxItems": s.ProjectSlots,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{FieldTitle, FieldSkillSet},
					"properties": map[string]any{
						FieldTitle: map[string]any{
							"type":      "string",
							"minLength": 1,
						},
						FieldSkillSet:    stringList,
						FieldDates:       staticField,
						FieldLink:        staticField,
						FieldDescription: staticField,
					},
				},
			},
		},
	}
}

// JSON renders the schema definition, indented for prompts and debugging.
func (s Schema) JSON() string {
	// a map of plain values always marshals
	data, _ := json.MarshalIndent(s.Definition(), "", "  ")
	return string(data)
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// Validate checks a decoded JSON document against the schema.
func (s Schema) Validate(document any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(s.Definition()),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
