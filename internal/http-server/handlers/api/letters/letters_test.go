package letters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bid_letter/internal/formatter"
	"bid_letter/internal/models/bids"
	"bid_letter/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubSubmitter struct {
	got   map[string]string
	state bids.FormViewState
	req   bids.BidRequest
}

func (s *stubSubmitter) Submit(_ context.Context, raw map[string]string) (bids.FormViewState, bids.BidRequest) {
	s.got = raw
	return s.state, s.req
}

type stubStorage struct {
	saved   []bids.LetterRecord
	saveErr error
	records map[string]bids.LetterRecord
	limit   int
	offset  int
}

func (s *stubStorage) SaveLetter(req bids.BidRequest, letter bids.BidLetterResult) (bids.LetterRecord, error) {
	if s.saveErr != nil {
		return bids.LetterRecord{}, s.saveErr
	}
	record := bids.LetterRecord{Id: "6f1c2a34-0000-4000-8000-000000000001", Request: req, Letter: letter}
	s.saved = append(s.saved, record)
	return record, nil
}

func (s *stubStorage) ReadLetters(limit, offset int) ([]bids.LetterRecord, error) {
	s.limit, s.offset = limit, offset
	out := make([]bids.LetterRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStorage) ReadLetter(letterId string) (bids.LetterRecord, error) {
	r, ok := s.records[letterId]
	if !ok {
		return bids.LetterRecord{}, fmt.Errorf("storage.postgres.ReadLetter: %w", postgres.ErrNotFound)
	}
	return r, nil
}

func letter() *bids.BidLetterResult {
	return &bids.BidLetterResult{
		Date:            "August 8, 2025",
		SubjectLine:     "Production Bid: Future Run",
		KeyDeliverables: "- 1 x 60s TVC",
		KeyAssumptions:  "- Non-union talent",
	}
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestPostLetter_Success(t *testing.T) {
	sub := &stubSubmitter{
		state: bids.FormViewState{Message: "Success! Your bid letter has been generated below.", Errors: bids.FieldErrors{}, Letter: letter()},
		req:   bids.BidRequest{ClientName: "Nike"},
	}
	store := &stubStorage{}

	rec := httptest.NewRecorder()
	NewPostLetter(discard, sub, store).ServeHTTP(rec, postForm(url.Values{"clientName": {"Nike"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"clientName": "Nike"}, sub.got)
	assert.Equal(t, "/api/letters/6f1c2a34-0000-4000-8000-000000000001", rec.Header().Get("Location"))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "Nike", store.saved[0].Request.ClientName)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Success! Your bid letter has been generated below.", body["message"])
	assert.Contains(t, body, "generatedLetter")
}

func TestPostLetter_ArchiveFailureKeepsResult(t *testing.T) {
	sub := &stubSubmitter{state: bids.FormViewState{Message: "ok", Errors: bids.FieldErrors{}, Letter: letter()}}
	store := &stubStorage{saveErr: errors.New("connection refused")}

	rec := httptest.NewRecorder()
	NewPostLetter(discard, sub, store).ServeHTTP(rec, postForm(url.Values{}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestPostLetter_NoArchive(t *testing.T) {
	sub := &stubSubmitter{state: bids.FormViewState{Message: "ok", Errors: bids.FieldErrors{}, Letter: letter()}}

	rec := httptest.NewRecorder()
	NewPostLetter(discard, sub, nil).ServeHTTP(rec, postForm(url.Values{}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostLetter_ValidationFailure(t *testing.T) {
	sub := &stubSubmitter{state: bids.FormViewState{
		Message:       "Validation failed. Please check the fields below.",
		Errors:        bids.FieldErrors{"clientName": {"Client name is required."}},
		SubmittedData: map[string]string{"clientName": ""},
	}}
	store := &stubStorage{}

	rec := httptest.NewRecorder()
	NewPostLetter(discard, sub, store).ServeHTTP(rec, postForm(url.Values{"clientName": {""}}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, store.saved)

	var state bids.FormViewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, []string{"Client name is required."}, state.Errors["clientName"])
	assert.Equal(t, map[string]string{"clientName": ""}, state.SubmittedData)
	assert.Nil(t, state.Letter)
}

func TestPostLetter_GenerationFailure(t *testing.T) {
	sub := &stubSubmitter{state: bids.FormViewState{
		Message: "An unexpected error occurred. Please check the server console.",
		Errors:  bids.FieldErrors{},
	}}

	rec := httptest.NewRecorder()
	NewPostLetter(discard, sub, nil).ServeHTTP(rec, postForm(url.Values{}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPostLetter_BadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader("{"))
	r.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	NewPostLetter(discard, &stubSubmitter{}, nil).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r = httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader("x"))
	r.Header.Set("Content-Type", "text/plain")

	rec = httptest.NewRecorder()
	NewPostLetter(discard, &stubSubmitter{}, nil).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestPostLetterText(t *testing.T) {
	data, err := json.Marshal(letter())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewPostLetterText(discard).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/letters/text", strings.NewReader(string(data))))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, formatter.PlainText(*letter()), rec.Body.String())

	rec = httptest.NewRecorder()
	NewPostLetterText(discard).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/letters/text", strings.NewReader(`{"postscript":"P.S."}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func newRouter(store *stubStorage) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/letters", NewGetLetters(discard, store))
	r.Get("/api/letters/{letterId}", NewGetLetter(discard, store))
	r.Get("/api/letters/{letterId}/text", NewGetLetterText(discard, store))
	return r
}

func TestGetLetters(t *testing.T) {
	store := &stubStorage{records: map[string]bids.LetterRecord{"a": {Id: "a"}}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.limit)
	assert.Equal(t, 0, store.offset)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters?limit=10&offset=20", nil))
	assert.Equal(t, 10, store.limit)
	assert.Equal(t, 20, store.offset)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLetter(t *testing.T) {
	store := &stubStorage{records: map[string]bids.LetterRecord{"a": {Id: "a", Letter: *letter()}}}
	router := newRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters/a", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var record bids.LetterRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "Production Bid: Future Run", record.Letter.SubjectLine)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters/a/text", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, formatter.PlainText(*letter()), rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/letters/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
