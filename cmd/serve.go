package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verdantworks/plantation-cli/internal/model"
	"github.com/verdantworks/plantation-cli/internal/planner"
	"github.com/verdantworks/plantation-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the planning HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSec), 1)
		router := buildRouter(st, limiter)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// planRequest is the POST /api/plan body.
type planRequest struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
	Seed  int64   `json:"seed"`
	Save  bool    `json:"save"`
}

// buildRouter wires the API routes. Split out so tests can drive the handler
// without a listening socket.
func buildRouter(st store.Store, limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/plan", func(w http.ResponseWriter, req *http.Request) {
		if !limiter.Allow() {
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		var body planRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Lat < -90 || body.Lat > 90 || body.Lon < -180 || body.Lon > 180 {
			writeJSONError(w, http.StatusBadRequest, "lat/lon out of range")
			return
		}

		p, err := newPlanner(body.Seed)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		plan, err := p.Plan(req.Context(), planner.Request{
			Center: model.Coordinate{Lat: body.Lat, Lon: body.Lon},
			Count:  body.Count,
		})
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if body.Save {
			if err := st.SavePlan(req.Context(), plan); err != nil {
				zap.L().Error("failed to save plan", zap.String("plan", plan.ID), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "failed to save plan")
				return
			}
		}

		writeJSON(w, http.StatusOK, plan)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		plans, err := st.ListPlans(req.Context(), store.PlanFilter{
			Source: model.PlanSource(req.URL.Query().Get("source")),
		})
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to list plans")
			return
		}
		writeJSON(w, http.StatusOK, plans)
	})

	r.Get("/api/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		plan, err := st.GetPlan(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, "plan not found")
				return
			}
			writeJSONError(w, http.StatusInternalServerError, "failed to load plan")
			return
		}
		writeJSON(w, http.StatusOK, plan)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
