package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/services"
)

// ShareHandler redirects visitors to social share pages.
type ShareHandler struct {
	shareService services.ShareService
	logger       *zap.Logger
}

// NewShareHandler creates a new share handler.
func NewShareHandler(shareService services.ShareService, logger *zap.Logger) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		logger:       logger,
	}
}

// RegisterRoutes registers the share handler's routes on the given mux.
func (h *ShareHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware) {
	mux.HandleFunc("GET /api/share/{platform}/{id}", scope(h.Share))
}

// Share handles GET /api/share/{platform}/{id} with a 302 to the platform.
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, h.logger, "share", err)
		return
	}

	target, err := h.shareService.ShareURL(r.Context(), r.PathValue("platform"), id)
	if err != nil {
		writeError(w, h.logger, "share", err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}
