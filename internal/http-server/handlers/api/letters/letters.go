package letters

import (
	"context"
	"encoding/json"
	serrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"bid_letter/internal/formatter"
	"bid_letter/internal/lib/errors"
	"bid_letter/internal/lib/form"
	"bid_letter/internal/models/bids"
	"bid_letter/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Submitter interface {
	Submit(ctx context.Context, raw map[string]string) (bids.FormViewState, bids.BidRequest)
}

type LetterSaver interface {
	SaveLetter(req bids.BidRequest, letter bids.BidLetterResult) (bids.LetterRecord, error)
}

type LettersReader interface {
	ReadLetters(limit, offset int) ([]bids.LetterRecord, error)
}

type LetterReader interface {
	ReadLetter(letterId string) (bids.LetterRecord, error)
}

// NewPostLetter runs one submission and responds with the view state. The
// saver is optional; a nil saver disables archiving.
func NewPostLetter(log *slog.Logger, submitter Submitter, saver LetterSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.letters.NewPostLetter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		values, err := form.Values(r)
		if err != nil {
			log.Error("Error decoding request body", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
			if serrors.Is(err, form.ErrUnsupportedMediaType) {
				render.Status(r, http.StatusUnsupportedMediaType)
			} else {
				render.Status(r, http.StatusBadRequest)
			}
			render.JSON(w, r, errors.NewHttpError("Error decoding request body"))
			return
		}

		state, req := submitter.Submit(r.Context(), values)

		switch {
		case state.Succeeded():
			if saver != nil {
				record, err := saver.SaveLetter(req, *state.Letter)
				if err != nil {
					log.Error("Failed to archive letter", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
				} else {
					w.Header().Set("Location", "/api/letters/"+record.Id)
				}
			}
			render.Status(r, http.StatusOK)
		case len(state.Errors) > 0:
			render.Status(r, http.StatusUnprocessableEntity)
		default:
			render.Status(r, http.StatusBadGateway)
		}

		render.JSON(w, r, state)
	}
}

// NewPostLetterText converts a letter into its plain-text copy.
func NewPostLetterText(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var letter bids.BidLetterResult

		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()

		err := decoder.Decode(&letter)
		if err != nil {
			log.Error("Error decoding request body")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errors.NewHttpError("Error decoding request body"))
			return
		}

		render.PlainText(w, r, formatter.PlainText(letter))
	}
}

func NewGetLetters(log *slog.Logger, lettersReader LettersReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var limit, offset int
		var err error
		if r.URL.Query().Get("limit") == "" {
			limit = 5
		} else {
			limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
			if err != nil {
				log.Error("Incorrect limit value")
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, errors.NewHttpError("Incorrect limit value"))
				return
			}
		}
		if r.URL.Query().Get("offset") == "" {
			offset = 0
		} else {
			offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
			if err != nil {
				log.Error("Incorrect offset value")
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, errors.NewHttpError("Incorrect offset value"))
				return
			}
		}

		resp, err := lettersReader.ReadLetters(limit, offset)
		if err != nil {
			renderStorageError(w, r, err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func NewGetLetter(log *slog.Logger, letterReader LetterReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := readLetter(w, r, letterReader)
		if !ok {
			return
		}
		render.JSON(w, r, record)
	}
}

func NewGetLetterText(log *slog.Logger, letterReader LetterReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := readLetter(w, r, letterReader)
		if !ok {
			return
		}
		render.PlainText(w, r, formatter.PlainText(record.Letter))
	}
}

func readLetter(w http.ResponseWriter, r *http.Request, letterReader LetterReader) (bids.LetterRecord, bool) {
	letterId := chi.URLParam(r, "letterId")
	if letterId == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errors.NewHttpError("The letter id is invalid"))
		return bids.LetterRecord{}, false
	}

	record, err := letterReader.ReadLetter(letterId)
	if err != nil {
		renderStorageError(w, r, err)
		return bids.LetterRecord{}, false
	}
	return record, true
}

func renderStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case serrors.Is(err, postgres.ErrBadRequest):
		render.Status(r, http.StatusBadRequest)
	case serrors.Is(err, postgres.ErrNotFound):
		render.Status(r, http.StatusNotFound)
	default:
		render.Status(r, http.StatusInternalServerError)
	}
	render.JSON(w, r, errors.NewHttpError(err.Error()))
}
