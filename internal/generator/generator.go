// Package generator declares the boundary to the external text-generation
// service and the schema its output must conform to.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bid_letter/internal/models/bids"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrSchemaMismatch is returned when the model output is not a JSON
	// object matching the requested schema.
	ErrSchemaMismatch = errors.New("generation output does not match schema")
	// ErrEmptyResponse is returned when the service answered without any
	// parsable output, e.g. a refusal.
	ErrEmptyResponse = errors.New("generation service returned no output")
	// ErrProvider covers transport and API failures.
	ErrProvider = errors.New("generation service request failed")
)

// Request is one generation call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Schema       *Schema
}

// Generator produces a bid letter from a prompt pair. Implementations make
// exactly one outbound call per invocation and never retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (bids.BidLetterResult, error)
}

// Conform validates raw model output against the schema and decodes it.
func Conform(schema *Schema, raw string) (bids.BidLetterResult, error) {
	const op = "generator.Conform"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema.JSONSchema()),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, ErrSchemaMismatch, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %s", op, ErrSchemaMismatch, strings.Join(msgs, "; "))
	}

	var letter bids.BidLetterResult
	if err := json.Unmarshal([]byte(raw), &letter); err != nil {
		return bids.BidLetterResult{}, fmt.Errorf("%s: %w: %v", op, ErrSchemaMismatch, err)
	}
	return letter, nil
}
