package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ContentTypePDF is the media type of RenderPDF output.
const ContentTypePDF = "application/pdf"

const (
	pageMargin   = 25.4 // one inch, in mm
	bodyFontSize = 10
	headingSize  = 14
	lineHeight   = 6
	rowHeight    = 8
	labelWidth   = 60
	fontFamily   = "Helvetica"
)

// PDFOption configures RenderPDF.
type PDFOption func(*fpdf.Fpdf)

// Uncompressed disables stream compression so page text is searchable in the
// raw output.
func Uncompressed() PDFOption {
	return func(pdf *fpdf.Fpdf) {
		pdf.SetCompression(false)
	}
}

// RenderPDF lays doc out on A4 pages.
func RenderPDF(doc *Document, opts ...PDFOption) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	for _, opt := range opts {
		opt(pdf)
	}
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("folio-engine", false)
	pdf.AddPage()

	r := &renderer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		t:   doc.Template,
	}
	pageWidth, _ := pdf.GetPageSize()
	r.width = pageWidth - 2*pageMargin

	for _, s := range doc.Sections {
		r.section(s)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	t     Template
	width float64
}

func (r *renderer) section(s Section) {
	switch s.Kind {
	case KindHeader:
		r.grid(s.Rows, r.width/2, TableStyle{LabelFill: r.t.HeaderBackground, LabelText: colorBlack, ValueFill: r.t.HeaderBackground}, "B", 12, "C")
		r.pdf.Ln(8)
	case KindTitle:
		r.pdf.SetFont(fontFamily, "B", r.t.TitleSize)
		r.setText(r.t.TitleColor)
		r.pdf.MultiCell(r.width, r.t.TitleSize/2, r.tr(s.Text), "", "C", false)
		r.pdf.Ln(4)
	case KindDivider:
		r.pdf.SetDrawColor(r.t.AccentColor.R, r.t.AccentColor.G, r.t.AccentColor.B)
		r.pdf.SetLineWidth(0.7)
		y := r.pdf.GetY()
		r.pdf.Line(pageMargin, y, pageMargin+r.width, y)
		r.pdf.SetLineWidth(0.2)
		r.pdf.SetDrawColor(0, 0, 0)
		r.pdf.Ln(5)
	case KindParagraph:
		r.heading(s.Heading)
		if s.Text != "" {
			r.body()
			r.pdf.MultiCell(r.width, lineHeight, r.tr(s.Text), "", "L", false)
		}
		r.pdf.Ln(4)
	case KindTable:
		r.heading(s.Heading)
		r.grid(s.Rows, labelWidth, s.Style, "", bodyFontSize, "L")
		r.pdf.Ln(4)
	case KindList:
		r.heading(s.Heading)
		r.body()
		for _, item := range s.Items {
			r.pdf.MultiCell(r.width, lineHeight, r.tr("• "+item), "", "L", false)
		}
		r.pdf.Ln(4)
	case KindFooter:
		r.pdf.Ln(6)
		r.grid(s.Rows, labelWidth, TableStyle{LabelFill: colorLightGrey, LabelText: colorBlack, ValueFill: colorLightGrey}, "", 8, "L")
	}
}

func (r *renderer) heading(text string) {
	if text == "" {
		return
	}
	r.pdf.SetFont(fontFamily, "B", headingSize)
	r.setText(r.t.AccentColor)
	r.pdf.CellFormat(r.width, rowHeight, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *renderer) body() {
	r.pdf.SetFont(fontFamily, "", bodyFontSize)
	r.setText(colorBlack)
}

// grid draws two-column bordered rows.
func (r *renderer) grid(rows []Row, labelW float64, style TableStyle, fontStyle string, size float64, align string) {
	valueW := r.width - labelW
	for _, row := range rows {
		r.pdf.SetFont(fontFamily, "B", size)
		r.setFill(style.LabelFill)
		r.setText(style.LabelText)
		r.pdf.CellFormat(labelW, rowHeight, r.tr(row.Label), "1", 0, align, true, 0, "")

		r.pdf.SetFont(fontFamily, fontStyle, size)
		r.setFill(style.ValueFill)
		r.setText(colorBlack)
		r.pdf.CellFormat(valueW, rowHeight, r.tr(row.Value), "1", 1, align, true, 0, "")
	}
}

func (r *renderer) setText(c Color) {
	r.pdf.SetTextColor(c.R, c.G, c.B)
}

func (r *renderer) setFill(c Color) {
	r.pdf.SetFillColor(c.R, c.G, c.B)
}
