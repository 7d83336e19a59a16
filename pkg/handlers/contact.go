package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	contactService services.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// RegisterRoutes registers the contact handler's routes on the given mux.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/contact",
		authMiddleware.Require(auth.CapContactSubmit)(scope(h.Submit)))
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var submission models.ContactSubmission
	if err := decodeJSON(r, &submission); err != nil {
		writeError(w, h.logger, "submit_contact", err)
		return
	}

	receipt, err := h.contactService.Submit(r.Context(), &submission)
	if err != nil {
		writeError(w, h.logger, "submit_contact", err)
		return
	}
	respond(w, h.logger, http.StatusOK, receipt)
}
