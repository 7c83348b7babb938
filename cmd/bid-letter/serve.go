package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bid_letter/internal/http-server/handlers/api/letters"
	"bid_letter/internal/http-server/handlers/api/ping"
	"bid_letter/internal/http-server/handlers/web/page"
	"bid_letter/internal/orchestrator"
	"bid_letter/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bid letter form and API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	gen, err := newGenerator(cmd.Context(), log, cfg)
	if err != nil {
		return err
	}
	orch := orchestrator.New(log, gen)

	var storage *postgres.Storage
	if cfg.ArchiveEnabled() {
		storage, err = postgres.New(cfg.PostgresConn)
		if err != nil {
			log.Error("Failed to connect to postgresql", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
			return err
		}
		defer storage.Close()
	}

	router := newRouter(log, orch, storage)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start the server", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
			done <- syscall.SIGTERM
		}
	}()

	log.Info("starting server", slog.String("address", cfg.HTTPAddress), slog.String("provider", cfg.LLMProvider))
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop the server", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
		return err
	}

	log.Info("server stopped")
	return nil
}

// newRouter wires every route. Archive routes are mounted only when storage
// is non-nil.
func newRouter(log *slog.Logger, submitter letters.Submitter, storage *postgres.Storage) http.Handler {
	var saver letters.LetterSaver
	if storage != nil {
		saver = storage
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/", page.NewGetPage(log))
	router.Post("/", page.NewPostPage(log, submitter, saver))
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.New(log))
		r.Route("/letters", func(r chi.Router) {
			r.Post("/", letters.NewPostLetter(log, submitter, saver))
			r.Post("/text", letters.NewPostLetterText(log))
			if storage != nil {
				r.Get("/", letters.NewGetLetters(log, storage))
				r.Get("/{letterId}", letters.NewGetLetter(log, storage))
				r.Get("/{letterId}/text", letters.NewGetLetterText(log, storage))
			}
		})
	})

	return router
}
