package cv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectRecord holds pre-authored facts about a project.
type ProjectRecord struct {
	Dates       string `json:"Dates" yaml:"dates"`
	Link        string `json:"Link" yaml:"link"`
	Description string `json:"Description" yaml:"description"`
}

// StaticTable maps exact project titles to their static records.
// It is loaded once per batch and must not be modified afterwards.
type StaticTable map[string]ProjectRecord

// LoadProjects reads the static project table from a JSON or YAML file.
// Files without a yaml extension are parsed as JSON.
func LoadProjects(path string) (StaticTable, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("projects file is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading projects file %q: %w", path, err)
	}

	table := StaticTable{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing projects file %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing projects file %q: %w", path, err)
		}
	}

	return table, nil
}

// Lookup returns the record stored under the exact title.
func (t StaticTable) Lookup(title string) (ProjectRecord, bool) {
	record, ok := t[title]
	return record, ok
}

// Titles returns all known titles sorted alphabetically.
func (t StaticTable) Titles() []string {
	titles := make([]string, 0, len(t))
	for title := range t {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Catalog renders the table as a bullet list, used to tell the model which titles exist.
func (t StaticTable) Catalog() string {
	var b strings.Builder
	for _, title := range t.Titles() {
		b.WriteString("- ")
		b.WriteString(title)
		if desc := strings.TrimSpace(t[title].Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(desc)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
