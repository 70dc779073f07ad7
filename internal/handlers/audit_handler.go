package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler lists recent generation audits
type AuditHandler struct {
	audits interfaces.AuditStorage
	logger arbor.ILogger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audits interfaces.AuditStorage, logger arbor.ILogger) *AuditHandler {
	return &AuditHandler{
		audits: audits,
		logger: logger,
	}
}

// ListAuditsHandler handles GET /api/audit?limit=N
func (h *AuditHandler) ListAuditsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxAuditLimit)
	}

	audits, err := h.audits.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list generation audits")
		WriteError(w, http.StatusInternalServerError, "Failed to list generation audits")
		return
	}
	if audits == nil {
		audits = []*models.GenerationAudit{}
	}

	WriteJSON(w, http.StatusOK, audits)
}
