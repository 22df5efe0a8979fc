package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var entity = regexp.MustCompile(`^&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)

// escapeAmpersands replaces bare '&' in static template text with "&amp;".
// Existing entities and {{ }} actions are left untouched.
func escapeAmpersands(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], "{{") {
			end := strings.Index(src[i:], "}}")
			if end == -1 {
				b.WriteString(src[i:])
				break
			}
			b.WriteString(src[i : i+end+2])
			i += end + 2
			continue
		}

		if src[i] == '&' && !entity.MatchString(src[i:]) {
			b.WriteString("&amp;")
			i++
			continue
		}

		b.WriteByte(src[i])
		i++
	}

	return b.String()
}

// prepareTemplate writes an escaped copy of the template into a fresh temp dir.
// The caller removes the returned directory.
func prepareTemplate(templatePath string) (copyPath, dir string, err error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", "", fmt.Errorf("read template: %w", err)
	}

	dir, err = os.MkdirTemp("", "cv-template-*")
	if err != nil {
		return "", "", fmt.Errorf("create template workspace: %w", err)
	}

	copyPath = filepath.Join(dir, filepath.Base(templatePath))
	if err := os.WriteFile(copyPath, []byte(escapeAmpersands(string(data))), 0o600); err != nil {
		os.RemoveAll(dir)
		return "", "", fmt.Errorf("write template copy: %w", err)
	}

	return copyPath, dir, nil
}
