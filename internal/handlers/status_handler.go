package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	slides    interfaces.SlideStorage
	registry  *studio.Registry
	startedAt time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(slides interfaces.SlideStorage, registry *studio.Registry, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		slides:    slides,
		registry:  registry,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	slideCount := -1
	if slides, err := h.slides.ListAll(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to count slides for status")
	} else {
		slideCount = len(slides)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":         common.GetVersion(),
		"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
		"profiles":        len(h.registry.Descriptors()),
		"slides":          slideCount,
		"goroutines":      runtime.NumGoroutine(),
		"safe_goroutines": common.GetGoroutineCount(),
	})
}
