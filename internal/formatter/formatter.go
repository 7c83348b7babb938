// Package formatter turns a generated letter into display blocks and a
// plain-text copy.
package formatter

import (
	"strings"

	"bid_letter/internal/models/bids"

	"github.com/muesli/reflow/wordwrap"
)

const (
	DeliverablesIntro = "Our bid is based on the following key deliverables:"
	AssumptionsIntro  = "And includes the following assumptions:"
)

var bulletMarkers = []string{"-", "•"}

// Layout is the visual structure of a letter.
type Layout struct {
	Date          string
	Recipient     string
	Subject       string
	Salutation    string
	Paragraphs    []string
	Budget        string
	Deliverables  []string
	Assumptions   []string
	Closing       string
	SignOff       string
	SenderName    string
	SenderRole    string
	SenderCompany string
}

func NewLayout(l bids.BidLetterResult) Layout {
	return Layout{
		Date:       l.Date,
		Recipient:  l.RecipientName,
		Subject:    l.SubjectLine,
		Salutation: l.Salutation,
		Paragraphs: []string{
			l.OpeningParagraph,
			l.ProjectUnderstandingParagraph,
			l.MethodologyTeaser,
		},
		Budget:        l.BudgetSummary,
		Deliverables:  Bullets(l.KeyDeliverables),
		Assumptions:   Bullets(l.KeyAssumptions),
		Closing:       l.ClosingParagraph,
		SignOff:       l.SignOff,
		SenderName:    l.SenderName,
		SenderRole:    l.SenderRole,
		SenderCompany: l.SenderCompany,
	}
}

// Bullets splits a multi-line field into items, dropping one leading "-" or
// "•" marker per line and skipping blank lines.
func Bullets(text string) []string {
	lines := strings.Split(text, "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.TrimSpace(line)
		for _, m := range bulletMarkers {
			if strings.HasPrefix(item, m) {
				item = strings.TrimSpace(strings.TrimPrefix(item, m))
				break
			}
		}
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// PlainText flattens the letter for copying, blocks separated by blank lines.
func PlainText(l bids.BidLetterResult) string {
	return strings.Join([]string{
		"Date: " + l.Date,
		l.RecipientName,
		"\nSubject: " + l.SubjectLine,
		"\n" + l.Salutation,
		"\n" + l.OpeningParagraph,
		"\n" + l.ProjectUnderstandingParagraph,
		"\n" + l.MethodologyTeaser,
		"\n" + l.BudgetSummary,
		"\n" + DeliverablesIntro,
		l.KeyDeliverables,
		"\n" + AssumptionsIntro,
		l.KeyAssumptions,
		"\n" + l.ClosingParagraph,
		"\n" + l.SignOff,
		"\n" + l.SenderName,
		l.SenderRole,
		l.SenderCompany,
	}, "\n\n")
}

// Wrapped is PlainText word-wrapped for a terminal. A width below one leaves
// lines unwrapped.
func Wrapped(l bids.BidLetterResult, width int) string {
	text := PlainText(l)
	if width < 1 {
		return text
	}
	return wordwrap.String(text, width)
}
