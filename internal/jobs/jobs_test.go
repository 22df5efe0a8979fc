package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "other.txt"), "other")
	writeFile(t, filepath.Join(dir, "acme-backend.txt"), "acme")
	writeFile(t, filepath.Join(dir, "acme-backend.html"), "<p>acme</p>")
	writeFile(t, filepath.Join(dir, "notes.json"), "{}")
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(found.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d: %+v", len(found.Jobs), found.Jobs)
	}

	if found.Jobs[0].ID != "acme-backend" || found.Jobs[1].ID != "other" {
		t.Fatalf("unexpected order: %+v", found.Jobs)
	}

	// acme-backend.html sorts before acme-backend.txt and wins the stem.
	if !strings.HasSuffix(found.Jobs[0].Path, "acme-backend.html") {
		t.Fatalf("unexpected path for first job: %s", found.Jobs[0].Path)
	}

	if len(found.Skipped) != 1 || !strings.HasSuffix(found.Skipped[0], "acme-backend.txt") {
		t.Fatalf("expected duplicate stem to be skipped, got %v", found.Skipped)
	}
}

func TestDiscoverIgnoresNamesWithoutStem(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{".txt", ".md", "..pdf", ".draft.html", " .txt"} {
		writeFile(t, filepath.Join(dir, name), "listing")
	}
	writeFile(t, filepath.Join(dir, "acme.txt"), "acme")

	found, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(found.Jobs) != 1 || found.Jobs[0].ID != "acme" {
		t.Fatalf("expected only acme, got %+v", found.Jobs)
	}

	for _, job := range found.Jobs {
		if job.ID == "" || strings.HasPrefix(job.ID, ".") {
			t.Fatalf("job id %q would share the output root", job.ID)
		}
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestReadListing(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    []string
		reject  []string
	}{
		{
			name:    "plain text",
			file:    "plain.txt",
			content: "  Senior Go Engineer\r\n\r\n\r\n\r\nKubernetes  \n",
			want:    []string{"Senior Go Engineer\n\nKubernetes"},
		},
		{
			name:    "html",
			file:    "listing.html",
			content: "<html><head><style>p{}</style><script>alert(1)</script></head><body><h1>Backend</h1><p>Go &amp; Postgres</p></body></html>",
			want:    []string{"Backend", "Go & Postgres"},
			reject:  []string{"alert", "p{}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			text, err := ReadListing(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Fatalf("expected %q in %q", want, text)
				}
			}
			for _, reject := range tt.reject {
				if strings.Contains(text, reject) {
					t.Fatalf("did not expect %q in %q", reject, text)
				}
			}
		})
	}
}

func TestReadListingErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, "  \n\n ")

	for _, path := range []string{empty, filepath.Join(dir, "missing.txt")} {
		_, err := ReadListing(path)

		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("expected InputError for %s, got %v", path, err)
		}
	}
}

func TestIDFromPath(t *testing.T) {
	if got := IDFromPath("/tmp/jobs/acme-backend.txt"); got != "acme-backend" {
		t.Fatalf("unexpected id: %s", got)
	}
}
