// Package gemini generates bid letters with Google Gemini through the genai
// SDK, using a response schema for structured output.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"bid_letter/internal/generator"
	"bid_letter/internal/models/bids"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models          contentGenerator
	model           string
	maxOutputTokens int
	log             *slog.Logger
}

func New(ctx context.Context, log *slog.Logger, cfg Config) (*Client, error) {
	const op = "generator.gemini.New"

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is required", op)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newClient(client.Models, log, cfg), nil
}

func newClient(models contentGenerator, log *slog.Logger, cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		models:          models,
		model:           model,
		maxOutputTokens: cfg.MaxOutputTokens,
		log:             log,
	}
}

func (c *Client) Generate(ctx context.Context, req generator.Request) (bids.BidLetterResult, error) {
	const op = "generator.gemini.Generate"

	log := c.log.With(slog.String("op", op), slog.String("model", c.model))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(c.maxOutputTokens),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(req.Schema),
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, generator.ErrProvider, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, generator.ErrEmptyResponse)
	}

	if reason := resp.Candidates[0].FinishReason; reason != "" && reason != genai.FinishReasonStop {
		log.Warn("generation stopped early", slog.String("finish_reason", string(reason)))
	}

	letter, err := generator.Conform(req.Schema, resp.Text())
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return letter, nil
}

// ResponseSchema converts the output schema into the genai representation.
func ResponseSchema(s *generator.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: p.Description,
		}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         s.Names(),
		PropertyOrdering: s.Names(),
	}
}
