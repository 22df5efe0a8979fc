// Package render turns a tailored CV document into an HTML draft.
package render

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/spigell/cv-tailor/internal/cv"
)

// Renderer fills a template with a document and writes the draft to outputPath.
// On failure no file is left at outputPath.
type Renderer interface {
	Render(ctx context.Context, doc *cv.Document, templatePath, outputPath string) (string, error)
}

const linkFormat = `<a class="project-link" href="%s">View Project</a>`

// ProjectFields is the template view of one project slot.
type ProjectFields struct {
	Number      int
	Title       string
	Dates       string
	Skills      string
	Link        template.HTML
	Description string
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// PlaceholderKey converts a skill category into its template key,
// e.g. "Frameworks & Libraries" becomes "Frameworks_and_Libraries".
func PlaceholderKey(category string) string {
	key := strings.ReplaceAll(strings.TrimSpace(category), "&", " and ")
	key = nonIdent.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// Fields maps a document onto template placeholders. Every category and every
// project slot up to slots gets a key, empty when the document has no value for it.
func Fields(doc *cv.Document, categories []string, slots int) map[string]any {
	fields := map[string]any{
		"Profile": doc.Profile,
	}

	for _, category := range categories {
		fields[PlaceholderKey(category)] = strings.Join(doc.Skills[category], ", ")
	}

	if len(doc.Projects) > slots {
		slots = len(doc.Projects)
	}

	projects := make([]ProjectFields, 0, slots)
	for i := 0; i < slots; i++ {
		p := ProjectFields{Number: i + 1}
		if i < len(doc.Projects) {
			project := doc.Projects[i]
			p.Title = project.Title
			p.Dates = project.Dates
			p.Skills = strings.Join(project.Skills, ", ")
			p.Link = Link(project.Link)
			p.Description = project.Description
		}

		prefix := fmt.Sprintf("Project_%d_", p.Number)
		fields[prefix+"Title"] = p.Title
		fields[prefix+"Dates"] = p.Dates
		fields[prefix+"Skills"] = p.Skills
		fields[prefix+"Link"] = p.Link
		fields[prefix+"Description"] = p.Description

		projects = append(projects, p)
	}
	fields["Projects"] = projects

	return fields
}

// Link renders a project hyperlink. Empty urls and anything but absolute http(s) urls render nothing.
func Link(raw string) template.HTML {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return ""
	}

	return template.HTML(fmt.Sprintf(linkFormat, template.HTMLEscapeString(u.String())))
}
