package render

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"

	"github.com/spigell/cv-tailor/internal/cv"
	"github.com/spigell/cv-tailor/internal/utils"
	"go.uber.org/zap"
)

// HTMLRenderer renders drafts with html/template. Unknown placeholders fail the render.
type HTMLRenderer struct {
	SkillCategories []string
	ProjectSlots    int
	Logger          *zap.Logger
}

func NewHTMLRenderer(categories []string, slots int, logger *zap.Logger) *HTMLRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLRenderer{SkillCategories: categories, ProjectSlots: slots, Logger: logger}
}

func (r *HTMLRenderer) Render(ctx context.Context, doc *cv.Document, templatePath, outputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RenderError{Path: outputPath, Message: "render cancelled", Cause: err}
	}

	if doc == nil {
		return "", &RenderError{Path: outputPath, Message: "document is required"}
	}

	copyPath, workDir, err := prepareTemplate(templatePath)
	if err != nil {
		return "", &RenderError{Path: templatePath, Message: "prepare template", Cause: err}
	}
	defer os.RemoveAll(workDir)

	tmpl, err := template.New(filepath.Base(copyPath)).Option("missingkey=error").ParseFiles(copyPath)
	if err != nil {
		return "", &RenderError{Path: templatePath, Message: "parse template", Cause: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Fields(doc, r.SkillCategories, r.ProjectSlots)); err != nil {
		return "", &RenderError{Path: templatePath, Message: "fill template", Cause: err}
	}

	if err := utils.WriteFileAtomic(outputPath, buf.Bytes(), 0o644); err != nil {
		return "", &RenderError{Path: outputPath, Message: "write draft", Cause: err}
	}

	r.Logger.Debug("draft rendered",
		zap.String("template", templatePath),
		zap.String("output", outputPath),
		zap.Int("bytes", buf.Len()),
	)

	return outputPath, nil
}
