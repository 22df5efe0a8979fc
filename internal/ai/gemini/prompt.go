package gemini

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/spigell/cv-tailor/internal/ai"
	"google.golang.org/genai"
)

//go:embed prompt.md
var promptTemplate string

const emptySection = "none"

const listingTemplate = `=====================================================================
Job Listing:

{{LISTING}}

=====================================================================

Return a tailored CV for this job listing as a JSON object with fields:
Profile, Technical Skills, Relevant Projects.`

func buildSystemPrompt(profile *Profile, schema ai.Schema) string {
	categories := make([]string, 0, len(schema.SkillCategories))
	for _, category := range schema.SkillCategories {
		categories = append(categories, "  - "+category)
	}

	replacer := strings.NewReplacer(
		"{{SAMPLE_CV}}", orNone(profile.SampleCV),
		"{{EXPERIENCE}}", orNone(profile.Experience),
		"{{PROFILE_INSTRUCTIONS}}", indent(profile.Instructions),
		"{{SKILL_CATEGORIES}}", strings.Join(categories, "\n"),
		"{{SKILLS}}", indent(orNone(profile.Skills)),
		"{{PROJECT_SLOTS}}", strconv.Itoa(schema.ProjectSlots),
		"{{PROJECTS}}", indent(orNone(profile.Projects)),
		"{{SCHEMA}}", schema.JSON(),
	)

	return strings.TrimSpace(replacer.Replace(promptTemplate))
}

func buildListingMessage(listing string) string {
	return strings.ReplaceAll(listingTemplate, "{{LISTING}}", listing)
}

// buildContents returns the conversation: an optional worked example, then the listing.
func buildContents(profile *Profile, listing string) []*genai.Content {
	contents := make([]*genai.Content, 0, 3)

	if profile.HasExample() {
		contents = append(contents,
			genai.NewContentFromText(profile.ExampleUser, genai.RoleUser),
			genai.NewContentFromText(profile.ExampleAssistant, genai.RoleModel),
		)
	}

	return append(contents, genai.NewContentFromText(buildListingMessage(listing), genai.RoleUser))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptySection
	}
	return strings.TrimSpace(s)
}

func indent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
