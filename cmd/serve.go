package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/assess"
	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/fetcher"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(p),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			shutdownServer(srv, 5*time.Second)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownServer drains in-flight requests. It runs on a fresh context: the
// signal context that triggers it is already cancelled, and Shutdown on a
// cancelled context aborts the drain immediately.
func shutdownServer(srv *http.Server, grace time.Duration) {
	zap.L().Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

// newRouter builds the API routes. Separated from serveCmd so handler tests
// can exercise it directly.
func newRouter(p *pipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/assess/website", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		result, err := p.auditor.Audit(req.Context(), body.URL)
		if err != nil {
			writeAssessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/assess/leadscore", func(w http.ResponseWriter, req *http.Request) {
		var input assess.LeadInput
		if !decodeBody(w, req, &input) {
			return
		}
		result, err := p.leads.Score(req.Context(), input)
		if err != nil {
			writeAssessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Post("/assess/funnel", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			CSVText string `json:"csv_text"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		report, err := p.funnel.Analyze(body.CSVText)
		if err != nil {
			writeAssessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	r.Post("/assess/proposal", func(w http.ResponseWriter, req *http.Request) {
		var input assess.ProposalInput
		if !decodeBody(w, req, &input) {
			return
		}
		result, err := p.proposals.Build(req.Context(), input)
		if err != nil {
			writeAssessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

// decodeBody parses the request JSON, answering 400 on failure.
func decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeAssessError maps validation errors to 400. Anything else reaching
// here is unexpected, since fetch failures degrade inside the orchestrators.
func writeAssessError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, fetcher.ErrInvalidURL) ||
		errors.Is(err, extract.ErrNoUsableRows) ||
		errors.Is(err, assess.ErrInvalidProposalInput) {
		status = http.StatusBadRequest
	} else {
		zap.L().Error("unexpected assessment error", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
