package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return out
}

const validDoc = `{
  "Profile": "Backend engineer",
  "Technical Skills": {
    "Key Competencies": ["APIs"],
    "Programming Languages": ["Go"],
    "Frameworks & Libraries": [],
    "Tools & Platforms": ["Docker"]
  },
  "Relevant Projects": [
    {"Title": "Widget Pipeline", "Skills": ["Go"]},
    {"Title": "Data Lake", "Skills": ["Spark"]}
  ]
}`

func TestSchemaValidateAcceptsMatchingDocument(t *testing.T) {
	if err := DefaultSchema().Validate(decode(t, validDoc)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchemaValidateAcceptsEchoedStaticFields(t *testing.T) {
	doc := decode(t, validDoc)
	project := doc[FieldProjects].([]any)[0].(map[string]any)
	project[FieldLink] = "https://invented.example"
	project[FieldDates] = "2020"
	project[FieldDescription] = nil

	if err := DefaultSchema().Validate(doc); err != nil {
		t.Fatalf("echoed static fields must not fail validation: %v", err)
	}
}

func TestSchemaValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		mutate func(doc map[string]any)
		field  string
	}{
		{
			name:   "missing profile",
			schema: DefaultSchema(),
			mutate: func(doc map[string]any) { delete(doc, FieldProfile) },
			field:  "(root)",
		},
		{
			name:   "missing category",
			schema: DefaultSchema(),
			mutate: func(doc map[string]any) {
				delete(doc[FieldSkills].(map[string]any), "Tools & Platforms")
			},
			field: FieldSkills,
		},
		{
			name:   "wrong project count",
			schema: Schema{ProjectSlots: 3, SkillCategories: DefaultSkillCategories},
			mutate: func(map[string]any) {},
			field:  FieldProjects,
		},
		{
			name:   "project without title",
			schema: DefaultSchema(),
			mutate: func(doc map[string]any) {
				project := doc[FieldProjects].([]any)[0].(map[string]any)
				delete(project, FieldTitle)
			},
			field: FieldProjects + ".0",
		},
		{
			name:   "unknown project property",
			schema: DefaultSchema(),
			mutate: func(doc map[string]any) {
				project := doc[FieldProjects].([]any)[0].(map[string]any)
				project["Rating"] = 5
			},
			field: FieldProjects + ".0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, validDoc)
			tt.mutate(doc)

			err := tt.schema.Validate(doc)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			found := false
			for _, fe := range validationErr.Errors {
				if strings.HasPrefix(fe.Field, tt.field) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected violation on %q, got %+v", tt.field, validationErr.Errors)
			}
		})
	}
}

func TestSchemaCheck(t *testing.T) {
	if err := DefaultSchema().Check(); err != nil {
		t.Fatalf("default schema must be valid: %v", err)
	}

	bad := []Schema{
		{ProjectSlots: 0, SkillCategories: DefaultSkillCategories},
		{ProjectSlots: 2},
		{ProjectSlots: 2, SkillCategories: []string{"Go", "Go"}},
		{ProjectSlots: 2, SkillCategories: []string{" "}},
	}
	for _, s := range bad {
		if err := s.Check(); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestSchemaJSONListsCategories(t *testing.T) {
	out := Schema{ProjectSlots: 3, SkillCategories: []string{"Cloud"}}.JSON()
	if !strings.Contains(out, `"Cloud"`) || !strings.Contains(out, `"minItems": 3`) {
		t.Fatalf("unexpected schema json: %s", out)
	}
}
