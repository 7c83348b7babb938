// Package orchestrator runs one bid letter submission: validate the raw form,
// prompt the generation service once, and map the outcome to a view state.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bid_letter/internal/generator"
	"bid_letter/internal/metrics"
	"bid_letter/internal/models/bids"
	"bid_letter/internal/validation"
)

const (
	MsgSuccess          = "Success! Your bid letter has been generated below."
	MsgValidationFailed = "Validation failed. Please check the fields below."
	MsgUnexpected       = "An unexpected error occurred. Please check the server console."
	MsgNoOutput         = "Error: AI failed to generate a valid response. Please try again."
)

type Orchestrator struct {
	log    *slog.Logger
	gen    generator.Generator
	schema *generator.Schema
	now    func() time.Time
}

type Option func(*Orchestrator)

// WithClock replaces the clock used for the date in the system prompt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func New(log *slog.Logger, gen generator.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:    log,
		gen:    gen,
		schema: generator.BidLetterSchema,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit handles one form submission. The validated request is returned
// alongside the state and is only meaningful when the state succeeded.
func (o *Orchestrator) Submit(ctx context.Context, raw map[string]string) (bids.FormViewState, bids.BidRequest) {
	const op = "orchestrator.Submit"

	log := o.log.With(slog.String("op", op))
	metrics.Submissions.Inc()

	submitted := make(map[string]string, len(raw))
	for k, v := range raw {
		submitted[k] = v
	}

	req, fieldErrs := validation.Parse(raw)
	if len(fieldErrs) > 0 {
		metrics.ValidationFailures.Inc()
		log.Info("validation failed", slog.Any("fields", fieldErrs.Names()))
		return bids.FormViewState{
			Message:       MsgValidationFailed,
			Errors:        fieldErrs,
			SubmittedData: submitted,
		}, bids.BidRequest{}
	}

	letter, err := o.Generate(ctx, req)
	if err != nil {
		log.Error("Error during bid letter generation", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
		if errors.Is(err, generator.ErrEmptyResponse) {
			return bids.FormViewState{
				Message: MsgNoOutput,
				Errors:  bids.FieldErrors{},
			}, bids.BidRequest{}
		}
		return bids.FormViewState{
			Message:       MsgUnexpected,
			Errors:        bids.FieldErrors{},
			SubmittedData: submitted,
		}, bids.BidRequest{}
	}

	log.Info("bid letter generated", slog.String("project", req.ProjectName))
	return bids.FormViewState{
		Message: MsgSuccess,
		Errors:  bids.FieldErrors{},
		Letter:  &letter,
	}, req
}

// Generate builds the prompt pair for a validated request and makes exactly
// one generation call.
func (o *Orchestrator) Generate(ctx context.Context, req bids.BidRequest) (bids.BidLetterResult, error) {
	system, err := SystemPrompt(o.now())
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(metrics.ReasonInternal).Inc()
		return bids.BidLetterResult{}, err
	}
	user, err := UserPrompt(req)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(metrics.ReasonInternal).Inc()
		return bids.BidLetterResult{}, err
	}

	start := time.Now()
	letter, err := o.gen.Generate(ctx, generator.Request{
		SystemPrompt: system,
		UserPrompt:   user,
		Schema:       o.schema,
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(failureReason(err)).Inc()
		return bids.BidLetterResult{}, err
	}
	return letter, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, generator.ErrSchemaMismatch):
		return metrics.ReasonSchema
	case errors.Is(err, generator.ErrEmptyResponse):
		return metrics.ReasonEmpty
	case errors.Is(err, generator.ErrProvider):
		return metrics.ReasonProvider
	default:
		return metrics.ReasonInternal
	}
}
