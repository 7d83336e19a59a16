package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/document"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ExportService renders portfolio items as PDF documents and JSON.
type ExportService interface {
	// ItemPDF renders one item. Unknown template names fall back to professional.
	ItemPDF(ctx context.Context, id int64, template string) (*models.ExportedFile, error)
	// SummaryPDF renders the top approved/published items. ErrNotFound when none qualify.
	SummaryPDF(ctx context.Context, template string) (*models.ExportedFile, error)
	JSON(ctx context.Context) (*models.PortfolioExport, error)
}

type exportService struct {
	items    repositories.PortfolioItemRepository
	composer *document.Composer
	pdfOpts  []document.PDFOption
	logger   *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(
	items repositories.PortfolioItemRepository,
	composer *document.Composer,
	logger *zap.Logger,
	pdfOpts ...document.PDFOption,
) ExportService {
	return &exportService{
		items:    items,
		composer: composer,
		pdfOpts:  pdfOpts,
		logger:   logger.Named("export-service"),
	}
}

var _ ExportService = (*exportService)(nil)

func (s *exportService) ItemPDF(ctx context.Context, id int64, template string) (*models.ExportedFile, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tmpl := document.LookupTemplate(template)
	data, err := document.RenderPDF(s.composer.ComposeItem(item, tmpl.Name), s.pdfOpts...)
	if err != nil {
		return nil, fmt.Errorf("render item %d: %w", id, err)
	}

	s.logger.Info("Rendered portfolio item PDF",
		zap.Int64("item_id", id),
		zap.String("template", tmpl.Name),
		zap.Int("bytes", len(data)))

	return &models.ExportedFile{
		Filename:    fmt.Sprintf("portfolio_%s_%s.pdf", tmpl.Name, strings.ReplaceAll(item.Repo, "/", "_")),
		ContentType: document.ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *exportService) SummaryPDF(ctx context.Context, template string) (*models.ExportedFile, error) {
	items, err := s.items.ListTop(ctx, document.SummaryItemLimit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no approved or published portfolio items: %w", apperrors.ErrNotFound)
	}

	tmpl := document.LookupTemplate(template)
	data, err := document.RenderPDF(s.composer.ComposeSummary(items, tmpl.Name), s.pdfOpts...)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	s.logger.Info("Rendered portfolio summary PDF",
		zap.Int("items", len(items)),
		zap.String("template", tmpl.Name))

	return &models.ExportedFile{
		Filename:    fmt.Sprintf("portfolio_summary_%s_%s.pdf", tmpl.Name, s.composer.Now().Format("20060102")),
		ContentType: document.ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *exportService) JSON(ctx context.Context) (*models.PortfolioExport, error) {
	rows, err := s.items.ExportRows(ctx)
	if err != nil {
		return nil, err
	}
	portfolio := jsonutil.NormalizeRows(rows, jsonutil.Options{ISOTimestamps: true})
	return &models.PortfolioExport{
		Portfolio:     portfolio,
		GeneratedAt:   jsonutil.ISOTime(s.composer.Now()),
		TotalProjects: len(portfolio),
	}, nil
}
