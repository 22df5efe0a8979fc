package gemini

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/cv"
)

func parseDocument(raw string, schema ai.Schema) (*cv.Document, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, &ai.GenerationError{Reason: ai.ReasonParse, Message: "response is not a json object", Cause: err}
	}

	if err := schema.Validate(data); err != nil {
		var validationErr *ai.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &ai.GenerationError{Reason: ai.ReasonSchema, Message: "response does not match schema", Cause: err}
		}
		return nil, &ai.GenerationError{Reason: ai.ReasonSchema, Message: "validate response", Cause: err}
	}

	doc := &cv.Document{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  doc,
	})
	if err != nil {
		return nil, &ai.GenerationError{Reason: ai.ReasonParse, Message: "create decoder", Cause: err}
	}

	if err := decoder.Decode(data); err != nil {
		return nil, &ai.GenerationError{Reason: ai.ReasonParse, Message: "decode response", Cause: err}
	}

	// Generated projects carry only titles and skills; the rest comes from the static table.
	for i := range doc.Projects {
		doc.Projects[i].Title = strings.TrimSpace(doc.Projects[i].Title)
		doc.Projects[i].Dates = ""
		doc.Projects[i].Link = ""
		doc.Projects[i].Description = ""
	}

	return doc, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
