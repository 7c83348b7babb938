package page

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bid_letter/internal/models/bids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubSubmitter struct {
	state bids.FormViewState
}

func (s stubSubmitter) Submit(_ context.Context, _ map[string]string) (bids.FormViewState, bids.BidRequest) {
	return s.state, bids.BidRequest{}
}

type countingSaver struct {
	calls int
}

func (s *countingSaver) SaveLetter(req bids.BidRequest, letter bids.BidLetterResult) (bids.LetterRecord, error) {
	s.calls++
	return bids.LetterRecord{Id: "x"}, nil
}

func post(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestGetPage(t *testing.T) {
	rec := httptest.NewRecorder()
	NewGetPage(discard).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "AI Bid Letter Generator")
	for _, f := range bids.Fields {
		assert.Contains(t, body, `name="`+f+`"`, f)
	}
	assert.NotContains(t, body, `class="letter"`)
}

func TestPostPage_ValidationErrors(t *testing.T) {
	sub := stubSubmitter{state: bids.FormViewState{
		Message:       "Validation failed. Please check the fields below.",
		Errors:        bids.FieldErrors{bids.FieldClientName: {"Client name is required.", "Required"}},
		SubmittedData: map[string]string{bids.FieldProjectName: "Future <Run>", bids.FieldBidDueDate: "2025-08-30T00:00:00.000Z"},
	}}

	rec := httptest.NewRecorder()
	NewPostPage(discard, sub, nil).ServeHTTP(rec, post(url.Values{}))

	body := rec.Body.String()
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body, "Validation failed. Please check the fields below.")
	assert.Contains(t, body, `<p class="field-error">Client name is required.</p>`)
	assert.NotContains(t, body, `<p class="field-error">Required</p>`)
	assert.Contains(t, body, `value="Future &lt;Run&gt;"`)
	assert.Contains(t, body, `value="2025-08-30"`)
}

func TestPostPage_Success(t *testing.T) {
	sub := stubSubmitter{state: bids.FormViewState{
		Message: "Success! Your bid letter has been generated below.",
		Errors:  bids.FieldErrors{},
		Letter: &bids.BidLetterResult{
			SubjectLine:      "Production Bid: Future Run",
			OpeningParagraph: "We are <b>thrilled</b> to bid.<script>alert(1)</script>",
			KeyDeliverables:  "- 1 x 60s TVC\n- Stills",
		},
	}}
	saver := &countingSaver{}

	rec := httptest.NewRecorder()
	NewPostPage(discard, sub, saver).ServeHTTP(rec, post(url.Values{}))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, saver.calls)
	assert.Contains(t, body, "Subject: Production Bid: Future Run")
	assert.Contains(t, body, "<li>1 x 60s TVC</li>")
	assert.Contains(t, body, "<li>Stills</li>")
	assert.Contains(t, body, "We are thrilled to bid.")
	assert.NotContains(t, body, "<b>thrilled</b>")
	assert.NotContains(t, body, "<script>alert(1)")
	assert.Contains(t, body, `id="plain-text"`)

	start := strings.Index(body, `<section class="letter"`)
	end := strings.Index(body, "</section>")
	require.True(t, start >= 0 && end > start)
	letter := body[start:end]
	assert.NotContains(t, letter, "alert(1)")
	assert.NotContains(t, letter, "<b>")

	// The copy text keeps the model output verbatim, escaped.
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestPostPage_GenerationFailure(t *testing.T) {
	sub := stubSubmitter{state: bids.FormViewState{
		Message: "An unexpected error occurred. Please check the server console.",
		Errors:  bids.FieldErrors{},
	}}
	saver := &countingSaver{}

	rec := httptest.NewRecorder()
	NewPostPage(discard, sub, saver).ServeHTTP(rec, post(url.Values{}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, saver.calls)
	assert.Contains(t, rec.Body.String(), "An unexpected error occurred.")
}
