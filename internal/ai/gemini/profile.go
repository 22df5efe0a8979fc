package gemini

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/cv-tailor/internal/cv"
)

// Profile is the static candidate material sent with every request.
type Profile struct {
	SampleCV     string
	Experience   string
	Skills       string
	Instructions string
	// Projects is the catalog of known project titles with descriptions.
	Projects string

	ExampleUser      string
	ExampleAssistant string
}

// HasExample reports whether a complete few-shot pair is available.
func (p *Profile) HasExample() bool {
	return p != nil && p.ExampleUser != "" && p.ExampleAssistant != ""
}

// LoadProfile reads the candidate material from dir. Missing files leave their section empty.
func LoadProfile(dir string, table cv.StaticTable) (*Profile, error) {
	profile := &Profile{Projects: table.Catalog()}
	if strings.TrimSpace(dir) == "" {
		return profile, nil
	}

	files := []struct {
		name   string
		target *string
	}{
		{"sample_cv.txt", &profile.SampleCV},
		{"experience.txt", &profile.Experience},
		{"skills.txt", &profile.Skills},
		{"profile_instructions.txt", &profile.Instructions},
		{filepath.Join("example", "user.txt"), &profile.ExampleUser},
		{filepath.Join("example", "assistant.txt"), &profile.ExampleAssistant},
	}

	for _, file := range files {
		data, err := os.ReadFile(filepath.Join(dir, file.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read profile file %s: %w", file.name, err)
		}
		*file.target = strings.TrimSpace(string(data))
	}

	return profile, nil
}
