package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ratingRequest struct {
	Rating  *float64 `json:"rating" validate:"required"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000"`
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := intParam(w, r, "media_id")
	if !ok {
		return
	}
	var req ratingRequest
	if !h.decode(w, r, &req) {
		return
	}

	rating, err := h.ratings.Rate(r.Context(), currentUser(r).ID, chi.URLParam(r, "media_type"), mediaID, *req.Rating, req.Comment)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("'%s' rated successfully", rating.Title),
		"rating":  rating,
	})
}

func (h *Handler) updateRating(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := intParam(w, r, "media_id")
	if !ok {
		return
	}
	var req ratingRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.ratings.UpdateRating(r.Context(), currentUser(r).ID, chi.URLParam(r, "media_type"), mediaID, *req.Rating, req.Comment)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Rating updated successfully"})
}

func (h *Handler) deleteRating(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := intParam(w, r, "media_id")
	if !ok {
		return
	}

	title, err := h.ratings.DeleteRating(r.Context(), currentUser(r).ID, chi.URLParam(r, "media_type"), mediaID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("'%s' removed from your ratings", title)})
}

func (h *Handler) listRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.ListRatings(r.Context(), currentUser(r).ID, chi.URLParam(r, "media_type"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}
