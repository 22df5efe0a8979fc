package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/cv"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderName = "gemini"

	defaultModel        = "gemini-2.5-pro"
	defaultTemperature  = 0.8
	defaultMaxLogLength = 200
)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator produces tailored CV content with a Gemini model.
// Every call is a single request; failures are reported, never retried.
type Generator struct {
	models      contentModels
	model       string
	temperature float32
	profile     *Profile
	logger      *zap.Logger
	maxLogLen   int
}

// Option customizes a Generator.
type Option func(*Generator)

func WithTemperature(t float32) Option {
	return func(g *Generator) { g.temperature = t }
}

// WithProfile sets the candidate material included in every system instruction.
func WithProfile(p *Profile) Option {
	return func(g *Generator) { g.profile = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func WithMaxLogLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxLogLen = n
		}
	}
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, opts...), nil
}

func newGenerator(models contentModels, model string, opts ...Option) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	g := &Generator{
		models:      models,
		model:       model,
		temperature: defaultTemperature,
		profile:     &Profile{},
		maxLogLen:   defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.logger = logger.WithModel(g.logger, ProviderName, model)
	if g.profile == nil {
		g.profile = &Profile{}
	}

	return g
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Generate asks the model for a CV document tailored to the listing.
func (g *Generator) Generate(ctx context.Context, listing string, schema ai.Schema) (*cv.Document, error) {
	if g == nil || g.models == nil {
		return nil, &ai.GenerationError{Reason: ai.ReasonRequest, Message: "gemini generator is not initialized"}
	}

	listing = strings.TrimSpace(listing)
	if listing == "" {
		return nil, &ai.GenerationError{Reason: ai.ReasonRequest, Message: "job listing must not be empty"}
	}

	if err := schema.Check(); err != nil {
		return nil, &ai.GenerationError{Reason: ai.ReasonRequest, Message: "invalid output schema", Cause: err}
	}

	system := buildSystemPrompt(g.profile, schema)
	contents := buildContents(g.profile, listing)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       ptr(g.temperature),
		ResponseMIMEType:  "application/json",
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("system_length", utf8.RuneCountInString(system)),
		zap.Int("listing_length", utf8.RuneCountInString(listing)),
		zap.String("listing_preview", utils.TruncateForLog(listing, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, apiFailure(err)
	}

	raw := responseText(resp)
	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	if raw == "" {
		return nil, &ai.GenerationError{Reason: ai.ReasonParse, Message: "gemini api returned empty response"}
	}

	return parseDocument(raw, schema)
}

func apiFailure(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.GenerationError{
			Reason:  ai.ReasonAPI,
			Message: fmt.Sprintf("gemini api returned %d %s", apiErr.Code, apiErr.Status),
			Cause:   err,
		}
	}

	return &ai.GenerationError{Reason: ai.ReasonAPI, Message: "generate content", Cause: err}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// only the first usable candidate is considered
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}

func ptr[T any](v T) *T {
	return &v
}
