package handlers

import (
	"net/http"
	"slices"
	"time"

	"cinelist/internal/config"
	"cinelist/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var kindRoutes = []struct {
	path string
	kind models.Kind
}{
	{"/movies", models.KindMovie},
	{"/series", models.KindSeries},
	{"/anime", models.KindAnime},
}

func (h *Handler) Routes(cfg config.HTTPConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
		MaxAge:           300,
	}))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", h.root)
	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(h.authenticate).Get("/me", h.me)
	})

	r.With(h.authenticate).Get("/users", h.listUsers)

	for _, kr := range kindRoutes {
		r.Route(kr.path, func(r chi.Router) {
			r.Get("/", h.popularByKind(kr.kind))
			r.Get("/search/{name}", h.searchByKind(kr.kind))
			r.Get("/{id}", h.detail(kr.kind))
			r.Get("/{id}/credits", h.credits(kr.kind))
		})
	}

	r.Route("/media", func(r chi.Router) {
		r.Get("/popular", h.popularAll)
		r.Get("/search/{name}", h.searchAll)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/rate/{media_type}/{media_id}", h.rate)
			r.Put("/rate/{media_type}/{media_id}", h.updateRating)
			r.Delete("/rate/{media_type}/{media_id}", h.deleteRating)
			r.Get("/rated/{media_type}", h.listRatings)
		})
	})

	r.Route("/lists", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.getLists)
		r.Post("/", h.createList)
		r.Get("/{list_id}", h.getList)
		r.Patch("/{list_id}", h.renameList)
		r.Delete("/{list_id}", h.deleteList)
		r.Post("/{list_id}/items", h.addListItem)
		r.Delete("/{list_id}/items/{media_type}/{media_id}", h.removeListItem)
	})

	return r
}
