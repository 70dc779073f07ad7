package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// IssueHandler reads and saves the issue settings
type IssueHandler struct {
	issues   interfaces.IssueStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issues interfaces.IssueStorage, logger arbor.ILogger) *IssueHandler {
	return &IssueHandler{
		issues:   issues,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetIssueHandler handles GET /api/issue
func (h *IssueHandler) GetIssueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	issue, err := h.issues.Get(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load issue settings")
		WriteError(w, http.StatusInternalServerError, "Failed to load issue settings")
		return
	}

	WriteJSON(w, http.StatusOK, issue)
}

// SaveIssueHandler handles PUT /api/issue
func (h *IssueHandler) SaveIssueHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	var issue models.IssueSettings
	if err := DecodeJSON(w, r, &issue); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&issue); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.issues.Save(r.Context(), &issue); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save issue settings")
		WriteError(w, http.StatusInternalServerError, "Failed to save issue settings")
		return
	}

	WriteJSON(w, http.StatusOK, &issue)
}
