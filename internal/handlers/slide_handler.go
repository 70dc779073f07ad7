package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/interactions"
	"github.com/ternarybob/magstudio/internal/services/slides"
)

const slidesPrefix = "/api/slides/"

// SlideHandler manages the issue's slides and their interaction bridge
type SlideHandler struct {
	slides *slides.Service
	relay  *interactions.Relay
	logger arbor.ILogger
}

// NewSlideHandler creates a new slide handler
func NewSlideHandler(slideService *slides.Service, relay *interactions.Relay, logger arbor.ILogger) *SlideHandler {
	return &SlideHandler{
		slides: slideService,
		relay:  relay,
		logger: logger,
	}
}

// ReorderRequest is the body of PUT /api/slides/order
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// ListSlidesHandler handles GET /api/slides
func (h *SlideHandler) ListSlidesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	all, err := h.slides.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list slides")
		WriteError(w, http.StatusInternalServerError, "Failed to list slides")
		return
	}
	if all == nil {
		all = []*models.EditorialSlide{}
	}

	WriteJSON(w, http.StatusOK, all)
}

// CreateSlideHandler handles POST /api/slides
func (h *SlideHandler) CreateSlideHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var slide models.EditorialSlide
	if err := DecodeJSON(w, r, &slide); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.slides.Create(r.Context(), &slide)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// GetSlideHandler handles GET /api/slides/{id}
func (h *SlideHandler) GetSlideHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	slide, err := h.slides.Get(r.Context(), PathParam(r, slidesPrefix))
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, slide)
}

// UpdateSlideHandler handles PUT /api/slides/{id}
func (h *SlideHandler) UpdateSlideHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	var slide models.EditorialSlide
	if err := DecodeJSON(w, r, &slide); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.slides.Update(r.Context(), PathParam(r, slidesPrefix), &slide)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// DeleteSlideHandler handles DELETE /api/slides/{id}
func (h *SlideHandler) DeleteSlideHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	if err := h.slides.Delete(r.Context(), PathParam(r, slidesPrefix)); err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteSuccess(w, "Slide deleted")
}

// ReorderSlidesHandler handles PUT /api/slides/order
func (h *SlideHandler) ReorderSlidesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	var req ReorderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ordered, err := h.slides.Reorder(r.Context(), req.IDs)
	if err != nil {
		if errors.Is(err, slides.ErrOrderMismatch) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Failed to reorder slides")
		WriteError(w, http.StatusInternalServerError, "Failed to reorder slides")
		return
	}

	WriteJSON(w, http.StatusOK, ordered)
}

// EditItemsHandler handles POST /api/slides/{id}/items
func (h *SlideHandler) EditItemsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var edit slides.ItemEdit
	if err := DecodeJSON(w, r, &edit); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slide, err := h.slides.EditItems(r.Context(), PathParam(r, slidesPrefix), &edit)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, slide)
}

// InteractionHandler handles POST /api/slides/{id}/interactions.
// Relay failures are reported through the delivered flag, never as an HTTP error.
func (h *SlideHandler) InteractionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var interaction interactions.Interaction
	if err := DecodeJSON(w, r, &interaction); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slide, err := h.slides.Get(r.Context(), PathParam(r, slidesPrefix))
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	delivered, err := h.relay.Dispatch(r.Context(), slide, &interaction)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]bool{"delivered": delivered})
}

// BridgeScriptHandler handles GET /api/slides/{id}/bridge.js
func (h *SlideHandler) BridgeScriptHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := PathParam(r, slidesPrefix)
	if _, err := h.slides.Get(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrSlideNotFound) {
			http.NotFound(w, r)
			return
		}
		WriteStudioError(w, err)
		return
	}

	writeScript(w, interactions.BridgeScript(id))
}

// HostScriptHandler handles GET /api/bridge/host.js
func (h *SlideHandler) HostScriptHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	writeScript(w, interactions.HostScript(apiBase(r)))
}

// apiBase returns the absolute /api root as seen by the requesting client
func apiBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api"
}

func writeScript(w http.ResponseWriter, script string) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(script))
}
