package cv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjects(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "projects.txt")
	jsonData := `{"Widget Pipeline": {"Dates": "2023", "Link": "https://x", "Description": "Streams widgets."}}`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	yamlPath := filepath.Join(dir, "projects.yaml")
	yamlData := "Widget Pipeline:\n  dates: \"2023\"\n  link: https://x\n  description: Streams widgets.\n"
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			table, err := LoadProjects(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			record, ok := table.Lookup("Widget Pipeline")
			if !ok {
				t.Fatalf("expected Widget Pipeline in table")
			}
			if record.Dates != "2023" || record.Link != "https://x" || record.Description != "Streams widgets." {
				t.Fatalf("unexpected record: %+v", record)
			}
		})
	}
}

func TestLoadProjectsErrors(t *testing.T) {
	if _, err := LoadProjects(""); err == nil {
		t.Fatalf("expected error for empty path")
	}

	if _, err := LoadProjects(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	broken := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(broken, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadProjects(broken); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCatalog(t *testing.T) {
	table := StaticTable{
		"B": {Description: "second"},
		"A": {},
	}

	catalog := table.Catalog()
	if catalog != "- A\n- B: second" {
		t.Fatalf("unexpected catalog: %q", catalog)
	}

	if !strings.HasPrefix(catalog, "- A") {
		t.Fatalf("expected sorted titles")
	}
}
