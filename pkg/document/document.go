// Package document composes portfolio export documents and renders them as PDF.
//
// Composition and rendering are separate steps: the Composer turns portfolio
// items into a Document (an ordered list of sections), and RenderPDF lays the
// Document out on A4 pages.
package document

import "strings"

// SectionKind identifies how a section is laid out.
type SectionKind string

const (
	KindHeader    SectionKind = "header"
	KindTitle     SectionKind = "title"
	KindDivider   SectionKind = "divider"
	KindParagraph SectionKind = "paragraph"
	KindTable     SectionKind = "table"
	KindList      SectionKind = "list"
	KindFooter    SectionKind = "footer"
)

// Row is one label/value line of a table.
type Row struct {
	Label string
	Value string
}

// TableStyle colours the label and value columns of a table.
type TableStyle struct {
	LabelFill Color
	LabelText Color
	ValueFill Color
}

// Section is one block of the document.
type Section struct {
	Kind    SectionKind
	Heading string
	Text    string
	Rows    []Row
	Items   []string
	Style   TableStyle
}

// Document is a composed export, independent of the output format.
type Document struct {
	Template Template
	Title    string
	Sections []Section
}

// Section returns the first section with the given heading.
func (d *Document) Section(heading string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

// Kinds returns the section kinds in order.
func (d *Document) Kinds() []SectionKind {
	kinds := make([]SectionKind, 0, len(d.Sections))
	for _, s := range d.Sections {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

// PlainText flattens the document into lines, one per paragraph, row or item.
func (d *Document) PlainText() string {
	var lines []string
	for _, s := range d.Sections {
		if s.Heading != "" {
			lines = append(lines, s.Heading)
		}
		if s.Text != "" {
			lines = append(lines, s.Text)
		}
		for _, r := range s.Rows {
			lines = append(lines, r.Label+": "+r.Value)
		}
		lines = append(lines, s.Items...)
	}
	return strings.Join(lines, "\n")
}
