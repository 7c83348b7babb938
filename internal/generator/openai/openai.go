// Package openai calls the OpenAI Responses API with a strict json_schema
// output format.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"bid_letter/internal/generator"
	"bid_letter/internal/models/bids"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
}

type Client struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
	log             *slog.Logger
}

func New(log *slog.Logger, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		// no client timeout; the request context bounds the call
		httpClient: &http.Client{},
		log:        log,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textFormat struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type request struct {
	Model           string    `json:"model"`
	MaxOutputTokens int       `json:"max_output_tokens,omitempty"`
	Input           []message `json:"input"`
	Text            struct {
		Format textFormat `json:"format"`
	} `json:"text"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

type response struct {
	Status string    `json:"status"`
	Error  *apiError `json:"error"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text"`
			Refusal string `json:"refusal"`
		} `json:"content"`
	} `json:"output"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
}

func (c *Client) Generate(ctx context.Context, req generator.Request) (bids.BidLetterResult, error) {
	const op = "generator.openai.Generate"

	log := c.log.With(slog.String("op", op), slog.String("model", c.model))

	var body request
	body.Model = c.model
	body.MaxOutputTokens = c.maxOutputTokens
	body.Input = []message{
		{Role: "system", Content: req.SystemPrompt},
		{Role: "user", Content: req.UserPrompt},
	}
	body.Text.Format = textFormat{
		Type:   "json_schema",
		Name:   req.Schema.Name,
		Schema: req.Schema.JSONSchema(),
		Strict: true,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(data))
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, generator.ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, generator.ErrProvider, err)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return bids.BidLetterResult{}, fmt.Errorf("%s: %w: status %d", op, generator.ErrProvider, resp.StatusCode)
		}
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, generator.ErrProvider, err)
	}
	if parsed.Error != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: status %d: %s", op, generator.ErrProvider, resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: status %d", op, generator.ErrProvider, resp.StatusCode)
	}

	var text strings.Builder
	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			switch part.Type {
			case "output_text":
				text.WriteString(part.Text)
			case "refusal":
				log.Warn("model refused", slog.String("refusal", part.Refusal))
			}
		}
	}

	if parsed.Status == "incomplete" && parsed.IncompleteDetails != nil {
		log.Warn("response incomplete", slog.String("reason", parsed.IncompleteDetails.Reason))
	}

	letter, err := generator.Conform(req.Schema, text.String())
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("letter generated", slog.String("status", parsed.Status))
	return letter, nil
}
