package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/slides"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

// StudioHandler exposes the generation pipeline
type StudioHandler struct {
	studio  *studio.Service
	curator *studio.Curator
	slides  *slides.Service
	logger  arbor.ILogger
}

// NewStudioHandler creates a new studio handler
func NewStudioHandler(studioService *studio.Service, curator *studio.Curator, slideService *slides.Service, logger arbor.ILogger) *StudioHandler {
	return &StudioHandler{
		studio:  studioService,
		curator: curator,
		slides:  slideService,
		logger:  logger,
	}
}

// ProfileInfo describes one registered profile
type ProfileInfo struct {
	Profile    models.Profile `json:"profile"`
	Model      string         `json:"model"`
	Grounded   bool           `json:"grounded"`
	ListShaped bool           `json:"listShaped"`
	MinItems   int            `json:"minItems,omitempty"`
	MaxItems   int            `json:"maxItems,omitempty"`
}

// GenerateRequest is the body of POST /api/generate
type GenerateRequest struct {
	SessionID string `json:"sessionId"`
	Save      bool   `json:"save"`
	models.GenerationRequest
}

// GenerateResponse is returned by POST /api/generate
type GenerateResponse struct {
	*studio.GenerationOutcome
	DurationMs int64                  `json:"durationMs"`
	Slide      *models.EditorialSlide `json:"slide,omitempty"`
}

// CurateRequest is the body of POST /api/curate
type CurateRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Save  bool   `json:"save"`
}

// RenderRequest is the body of POST /api/render
type RenderRequest struct {
	Title        string               `json:"title"`
	ListicleData *models.ListicleData `json:"listicleData"`
}

// ListProfilesHandler handles GET /api/profiles
func (h *StudioHandler) ListProfilesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	descriptors := h.studio.Registry().Descriptors()
	profiles := make([]ProfileInfo, 0, len(descriptors))
	for _, d := range descriptors {
		profiles = append(profiles, ProfileInfo{
			Profile:    d.Profile,
			Model:      d.Model,
			Grounded:   d.Grounded,
			ListShaped: d.ListShaped,
			MinItems:   d.Template.MinItems,
			MaxItems:   d.Template.MaxItems,
		})
	}

	WriteJSON(w, http.StatusOK, profiles)
}

// GenerateHandler handles POST /api/generate
func (h *StudioHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req GenerateRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.studio.Generate(r.Context(), req.SessionID, &req.GenerationRequest)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	resp := GenerateResponse{
		GenerationOutcome: outcome,
		DurationMs:        outcome.Duration.Milliseconds(),
	}

	if req.Save {
		slide, err := h.slides.SaveGenerated(r.Context(), &req.GenerationRequest, outcome.Result)
		if err != nil {
			h.logger.Error().Err(err).Str("profile", string(req.Profile)).Msg("Failed to save generated slide")
			WriteStudioError(w, err)
			return
		}
		resp.Slide = slide
	}

	WriteJSON(w, http.StatusOK, resp)
}

// CurateHandler handles POST /api/curate
func (h *StudioHandler) CurateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req CurateRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	curated, err := h.curator.Curate(r.Context(), req.Topic, req.Count)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	if req.Save {
		if err := h.slides.CreateMany(r.Context(), curated); err != nil {
			h.logger.Error().Err(err).Msg("Failed to save curated slides")
			WriteStudioError(w, err)
			return
		}
	}

	WriteJSON(w, http.StatusOK, curated)
}

// RenderHandler handles POST /api/render
func (h *StudioHandler) RenderHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req RenderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.studio.RenderListicle(req.Title, req.ListicleData)
	if err != nil {
		WriteStudioError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
