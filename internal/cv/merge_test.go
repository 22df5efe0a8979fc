package cv

import (
	"reflect"
	"testing"
)

func testTable() StaticTable {
	return StaticTable{
		"Widget Pipeline": {Dates: "2023", Link: "https://x", Description: "Streams widgets."},
		"Data Lake":       {Dates: "2021 - 2022", Link: "", Description: "Parquet everywhere."},
	}
}

func TestMergeEnrichesKnownTitles(t *testing.T) {
	doc := &Document{
		Profile: "Engineer",
		Projects: []Project{
			{Title: "Widget Pipeline", Skills: []string{"Go"}, Dates: "stale"},
			{Title: "Data Lake", Skills: []string{"Spark"}},
		},
	}

	merged := Merge(doc, testTable())

	first := merged.Projects[0]
	if first.Dates != "2023" || first.Link != "https://x" || first.Description != "Streams widgets." {
		t.Fatalf("unexpected enrichment: %+v", first)
	}

	if merged.Projects[1].Link != "" {
		t.Fatalf("expected empty link to be kept, got %q", merged.Projects[1].Link)
	}

	if doc.Projects[0].Dates != "stale" {
		t.Fatalf("input document must not be modified, got %q", doc.Projects[0].Dates)
	}
}

func TestMergeUnknownTitleLeavesFieldsEmpty(t *testing.T) {
	doc := &Document{
		Projects: []Project{
			{Title: "Ghost Project", Skills: []string{"Rust"}, Dates: "1999", Link: "https://ghost", Description: "boo"},
		},
	}

	merged := Merge(doc, testTable())

	got := merged.Projects[0]
	if got.Title != "Ghost Project" {
		t.Fatalf("title must not be changed, got %q", got.Title)
	}
	if got.Dates != "" || got.Link != "" || got.Description != "" {
		t.Fatalf("expected empty static fields, got %+v", got)
	}
	if !reflect.DeepEqual(got.Skills, []string{"Rust"}) {
		t.Fatalf("skills must be preserved, got %v", got.Skills)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{
			name: "known and unknown",
			doc: &Document{
				Profile: "p",
				Skills:  map[string][]string{"Programming Languages": {"Go", "Python"}},
				Projects: []Project{
					{Title: "Widget Pipeline"},
					{Title: "Ghost Project"},
				},
			},
		},
		{
			name: "no projects",
			doc:  &Document{Profile: "p"},
		},
		{
			name: "duplicate selection",
			doc: &Document{
				Projects: []Project{{Title: "Data Lake"}, {Title: "Data Lake"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Merge(tt.doc, testTable())
			twice := Merge(once, testTable())
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("merge is not idempotent:\n once: %+v\ntwice: %+v", once, twice)
			}
		})
	}
}

func TestMergeWithEmptyTable(t *testing.T) {
	merged := Merge(&Document{Projects: []Project{{Title: "Widget Pipeline"}}}, nil)
	if merged.Projects[0].Dates != "" {
		t.Fatalf("expected empty dates with nil table")
	}

	if Merge(nil, testTable()) != nil {
		t.Fatalf("expected nil for nil document")
	}
}
