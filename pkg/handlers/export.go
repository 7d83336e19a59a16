package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// ExportHandler serves the PDF and JSON exports.
type ExportHandler struct {
	exportService services.ExportService
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportService services.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the export handler's routes on the given mux.
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux, scope RouteMiddleware) {
	mux.HandleFunc("GET /api/export/pdf/{id}", scope(h.ItemPDF))
	mux.HandleFunc("GET /api/export/portfolio-summary", scope(h.SummaryPDF))
	mux.HandleFunc("GET /api/export/json", scope(h.JSON))
}

// ItemPDF handles GET /api/export/pdf/{id}?template=
func (h *ExportHandler) ItemPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, h.logger, "export_item_pdf", err)
		return
	}

	file, err := h.exportService.ItemPDF(r.Context(), id, r.URL.Query().Get("template"))
	if err != nil {
		writeError(w, h.logger, "export_item_pdf", err)
		return
	}
	h.writeFile(w, file)
}

// SummaryPDF handles GET /api/export/portfolio-summary?template=
func (h *ExportHandler) SummaryPDF(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.SummaryPDF(r.Context(), r.URL.Query().Get("template"))
	if err != nil {
		writeError(w, h.logger, "export_summary_pdf", err)
		return
	}
	h.writeFile(w, file)
}

// JSON handles GET /api/export/json
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	export, err := h.exportService.JSON(r.Context())
	if err != nil {
		writeError(w, h.logger, "export_json", err)
		return
	}
	respond(w, h.logger, http.StatusOK, export)
}

func (h *ExportHandler) writeFile(w http.ResponseWriter, file *models.ExportedFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Error("Failed to write export", zap.String("filename", file.Filename), zap.Error(err))
	}
}
