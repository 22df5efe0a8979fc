// Package jobs discovers job listings and reads their text.
package jobs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor identifies a single job listing. Immutable once discovered.
type Descriptor struct {
	// ID is the listing file name without extension.
	ID   string
	Path string
}

// Discovery is the result of scanning a jobs directory.
type Discovery struct {
	Jobs []Descriptor
	// Skipped lists files whose stem collides with an earlier job.
	Skipped []string
}

var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
}

// Supported reports whether a listing with this file name can be read.
func Supported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover lists job listings in dir ordered by file name.
// Two files sharing a stem would share an output directory, so only the first one is kept.
func Discover(dir string) (*Discovery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &InputError{Path: dir, Message: "reading jobs directory", Cause: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) || !validName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	result := &Discovery{}
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		path := filepath.Join(dir, name)
		id := IDFromPath(name)
		if seen[id] {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		seen[id] = true
		result.Jobs = append(result.Jobs, Descriptor{ID: id, Path: path})
	}

	return result, nil
}

// validName rejects hidden files and names with an empty stem.
// Their id would point a job at the shared output root.
func validName(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.TrimSpace(IDFromPath(name)) != ""
}

// IDFromPath derives the job identity from a listing path.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
