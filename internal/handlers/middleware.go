package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cinelist/internal/auth"
	"cinelist/internal/metrics"
	"cinelist/internal/models"
	"cinelist/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// requestLogger logs one line per request and records the HTTP metrics
// under the matched route pattern.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		entry := h.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
			"bytes":       ww.BytesWritten(),
			"request_id":  middleware.GetReqID(r.Context()),
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("Request served")
			return
		}
		entry.Debug("Request served")
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Could not validate credentials")
}

// authenticate requires a valid bearer token whose subject is an existing
// user, and stores that user in the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(w)
			return
		}

		claims, err := h.tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			h.logger.WithError(err).Debug("Rejected access token")
			unauthorized(w)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				unauthorized(w)
				return
			}
			h.handleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// currentUser must only be called behind authenticate.
func currentUser(r *http.Request) *models.User {
	user, _ := auth.UserFromContext(r.Context())
	return user
}
