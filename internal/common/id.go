package common

import (
	"github.com/google/uuid"
)

// NewSlideID generates a unique slide ID with the "slide_" prefix
// Format: slide_<uuid>
func NewSlideID() string {
	return "slide_" + uuid.New().String()
}

// NewItemID generates a listicle item ID with the "item_" prefix
func NewItemID() string {
	return "item_" + uuid.New().String()
}

// NewAuditID generates a generation audit ID with the "audit_" prefix
func NewAuditID() string {
	return "audit_" + uuid.New().String()
}

// NewSessionID generates an editor session token
func NewSessionID() string {
	return "sess_" + uuid.New().String()
}
