package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter wires the HTTP surface: liveness, week resolution, analysis,
// notification fan-out, holiday posting, and the delivery log.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet-monitor"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/week-info", h.WeekInfo)
		r.Post("/missing-by-day", h.MissingByDay)
		r.Post("/analyze", h.MissingByDay)
		r.Post("/notify", h.Notify)
		r.Post("/post-holiday", h.PostHoliday)
		r.Get("/deliveries", h.Deliveries)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondNotFound(w, "Endpoint not found")
	})

	return r
}
