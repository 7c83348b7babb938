// Package page serves the bid letter form as a server-rendered HTML page.
package page

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"bid_letter/internal/formatter"
	"bid_letter/internal/lib/form"
	"bid_letter/internal/models/bids"
	"bid_letter/internal/validation"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/page.html
var templates embed.FS

var (
	policy = bluemonday.StrictPolicy()
	tmpl   = template.Must(template.New("page.html").Funcs(template.FuncMap{
		"clean": clean,
	}).ParseFS(templates, "templates/page.html"))
)

type Submitter interface {
	Submit(ctx context.Context, raw map[string]string) (bids.FormViewState, bids.BidRequest)
}

type LetterSaver interface {
	SaveLetter(req bids.BidRequest, letter bids.BidLetterResult) (bids.LetterRecord, error)
}

type input struct {
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Step        string
	Value       string
	Error       string
}

type section struct {
	Title  string
	Inputs []input
}

type view struct {
	State             bids.FormViewState
	Sections          []section
	Letter            *formatter.Layout
	PlainText         string
	DeliverablesIntro string
	AssumptionsIntro  string
}

var layout = []section{
	{
		Title: "Project & Client Info",
		Inputs: []input{
			{Name: bids.FieldClientName, Label: "Client Name", Kind: "text", Placeholder: "e.g., Nike"},
			{Name: bids.FieldProjectName, Label: "Project Name", Kind: "text", Placeholder: "e.g., 'Future Run' Campaign"},
			{Name: bids.FieldAgencyName, Label: "Agency Name (Optional)", Kind: "text", Placeholder: "e.g., Wieden+Kennedy"},
		},
	},
	{
		Title: "Your Information",
		Inputs: []input{
			{Name: bids.FieldContactName, Label: "Your Name", Kind: "text", Placeholder: "e.g., Jane Doe"},
			{Name: bids.FieldContactRole, Label: "Your Role", Kind: "text", Placeholder: "e.g., Executive Producer"},
			{Name: bids.FieldCompanyName, Label: "Your Production Company", Kind: "text", Placeholder: "e.g., RadicalMedia"},
		},
	},
	{
		Title: "Creative & Logistics",
		Inputs: []input{
			{Name: bids.FieldCreativeSynopsis, Label: "Creative Synopsis", Kind: "textarea", Placeholder: "Describe the creative vision..."},
			{Name: bids.FieldShootDays, Label: "Number of Shoot Days", Kind: "number", Placeholder: "e.g., 3"},
			{Name: bids.FieldShootLocations, Label: "Shoot Location(s)", Kind: "text", Placeholder: "e.g., Los Angeles & sound stage"},
			{Name: bids.FieldKeyDeliverables, Label: "Key Deliverables (one per line)", Kind: "textarea", Placeholder: "e.g.,\n1 x 60s TVC..."},
		},
	},
	{
		Title: "Budget & Bid Details",
		Inputs: []input{
			{Name: bids.FieldTotalBudget, Label: "Total Budget (USD)", Kind: "number", Placeholder: "e.g., 500000", Step: "1000"},
			{Name: bids.FieldBidDueDate, Label: "Bid Due Date", Kind: "date"},
			{Name: bids.FieldAssumptions, Label: "Key Assumptions & Exclusions (one per line)", Kind: "textarea", Placeholder: "e.g.,\nBudget assumes non-union talent..."},
		},
	},
}

// NewGetPage renders the empty form.
func NewGetPage(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.web.page.NewGetPage"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		write(w, log, http.StatusOK, newView(bids.FormViewState{Errors: bids.FieldErrors{}}))
	}
}

// NewPostPage runs one submission and renders the form again with the
// outcome. The saver is optional.
func NewPostPage(log *slog.Logger, submitter Submitter, saver LetterSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.web.page.NewPostPage"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		values, err := form.Values(r)
		if err != nil {
			log.Error("Error decoding request body", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
			http.Error(w, "Error decoding request body", http.StatusBadRequest)
			return
		}

		state, req := submitter.Submit(r.Context(), values)

		status := http.StatusOK
		switch {
		case state.Succeeded():
			if saver != nil {
				if _, err := saver.SaveLetter(req, *state.Letter); err != nil {
					log.Error("Failed to archive letter", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
				}
			}
		case len(state.Errors) > 0:
			status = http.StatusUnprocessableEntity
		default:
			status = http.StatusBadGateway
		}

		write(w, log, status, newView(state))
	}
}

func newView(state bids.FormViewState) view {
	v := view{
		State:             state,
		DeliverablesIntro: formatter.DeliverablesIntro,
		AssumptionsIntro:  formatter.AssumptionsIntro,
	}

	v.Sections = make([]section, len(layout))
	for i, s := range layout {
		inputs := make([]input, len(s.Inputs))
		for j, in := range s.Inputs {
			in.Value = inputValue(in, state.SubmittedData[in.Name])
			if msgs := state.Errors[in.Name]; len(msgs) > 0 {
				in.Error = msgs[0]
			}
			inputs[j] = in
		}
		v.Sections[i] = section{Title: s.Title, Inputs: inputs}
	}

	if state.Letter != nil {
		l := formatter.NewLayout(*state.Letter)
		v.Letter = &l
		v.PlainText = formatter.PlainText(*state.Letter)
	}

	return v
}

// inputValue normalizes a resubmitted date so the date picker can show it.
func inputValue(in input, value string) string {
	if in.Kind != "date" || value == "" {
		return value
	}
	t, err := validation.ParseDate(value)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

// clean strips any markup from generated text.
func clean(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}

func write(w http.ResponseWriter, log *slog.Logger, status int, v view) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "page.html", v); err != nil {
		log.Error("Failed to render page", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
