package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type listRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type listItemRequest struct {
	MediaType string `json:"media_type" validate:"required"`
	MediaID   int    `json:"media_id" validate:"required,gt=0"`
}

func (h *Handler) getLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.Lists(r.Context(), currentUser(r).ID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !h.decode(w, r, &req) {
		return
	}
	list, err := h.lists.Create(r.Context(), currentUser(r).ID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *Handler) getList(w http.ResponseWriter, r *http.Request) {
	listID, ok := int64Param(w, r, "list_id")
	if !ok {
		return
	}
	list, err := h.lists.Get(r.Context(), currentUser(r).ID, listID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) renameList(w http.ResponseWriter, r *http.Request) {
	listID, ok := int64Param(w, r, "list_id")
	if !ok {
		return
	}
	var req listRequest
	if !h.decode(w, r, &req) {
		return
	}
	list, err := h.lists.Rename(r.Context(), currentUser(r).ID, listID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	listID, ok := int64Param(w, r, "list_id")
	if !ok {
		return
	}
	if err := h.lists.Delete(r.Context(), currentUser(r).ID, listID); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addListItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := int64Param(w, r, "list_id")
	if !ok {
		return
	}
	var req listItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.lists.AddItem(r.Context(), currentUser(r).ID, listID, req.MediaType, req.MediaID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) removeListItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := int64Param(w, r, "list_id")
	if !ok {
		return
	}
	mediaID, ok := intParam(w, r, "media_id")
	if !ok {
		return
	}
	err := h.lists.RemoveItem(r.Context(), currentUser(r).ID, listID, chi.URLParam(r, "media_type"), mediaID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
