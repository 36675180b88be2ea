package handlers

import (
	"net/http"

	"cinelist/internal/models"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	kindListLimit   = 50
	kindSearchLimit = 30
	mixedLimit      = 20
)

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "API Online"})
}

func (h *Handler) popularByKind(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.FetchPopular(r.Context(), kind, kindListLimit)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *Handler) searchByKind(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.Search(r.Context(), kind, chi.URLParam(r, "name"), kindSearchLimit)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *Handler) detail(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "id")
		if !ok {
			return
		}
		d, err := h.catalog.FetchDetail(r.Context(), kind, id)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		if d == nil {
			writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func (h *Handler) credits(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := intParam(w, r, "id")
		if !ok {
			return
		}
		c, err := h.catalog.FetchCredits(r.Context(), kind, id)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		if c == nil {
			writeError(w, http.StatusNotFound, "Credits not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

type mixedResponse struct {
	Movies []models.MediaSummary `json:"movies"`
	Series []models.MediaSummary `json:"series"`
	Animes []models.MediaSummary `json:"animes"`
}

// mixed runs fetch for the three kinds concurrently.
func (h *Handler) mixed(w http.ResponseWriter, r *http.Request, fetch func(r *http.Request, kind models.Kind) ([]models.MediaSummary, error)) {
	var resp mixedResponse
	g, ctx := errgroup.WithContext(r.Context())
	r = r.WithContext(ctx)

	targets := []struct {
		kind models.Kind
		dst  *[]models.MediaSummary
	}{
		{models.KindMovie, &resp.Movies},
		{models.KindSeries, &resp.Series},
		{models.KindAnime, &resp.Animes},
	}
	for _, t := range targets {
		g.Go(func() error {
			items, err := fetch(r, t.kind)
			if err != nil {
				return err
			}
			*t.dst = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) popularAll(w http.ResponseWriter, r *http.Request) {
	h.mixed(w, r, func(r *http.Request, kind models.Kind) ([]models.MediaSummary, error) {
		return h.catalog.FetchPopular(r.Context(), kind, mixedLimit)
	})
}

func (h *Handler) searchAll(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.mixed(w, r, func(r *http.Request, kind models.Kind) ([]models.MediaSummary, error) {
		return h.catalog.Search(r.Context(), kind, name, mixedLimit)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "ok", "cache": h.cacheBackend}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.WithError(err).Warn("Health check: database unreachable")
			resp["status"], resp["database"] = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}
