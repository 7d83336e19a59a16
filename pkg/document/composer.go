package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// Section headings.
const (
	HeadingSummary       = "Summary"
	HeadingDescription   = "Detailed Description"
	HeadingBusiness      = "Business Impact"
	HeadingTechnical     = "Technical Performance"
	HeadingAchievements  = "Achievements"
	HeadingTechInfo      = "Technical Information"
	HeadingExecutive     = "Executive Summary"
	HeadingFeatured      = "Featured Projects"
	HeadingTechnologies  = "Technologies"
	summaryDocumentTitle = "Professional Portfolio"
)

const (
	// SummaryItemLimit caps the number of items in a summary document.
	SummaryItemLimit = 5
	// SummaryMetricLimit caps the metric rows shown per summary item.
	SummaryMetricLimit = 3
	// SummaryTechnologyLimit caps the technologies listed in a summary.
	SummaryTechnologyLimit = 15

	notAvailable  = "N/A"
	techSeparator = " • "
)

var (
	businessStyle  = TableStyle{LabelFill: colorBlue, LabelText: colorWhite, ValueFill: colorLightBlue}
	technicalStyle = TableStyle{LabelFill: colorGreen, LabelText: colorWhite, ValueFill: colorLightGrn}
	infoStyle      = TableStyle{LabelFill: colorLightGrey, LabelText: colorBlack, ValueFill: colorBeige}
	compactStyle   = TableStyle{LabelFill: colorLightBlue, LabelText: colorBlack, ValueFill: colorWhite}
)

// Branding is the owner identity printed in document headers and footers.
type Branding struct {
	OwnerName    string
	OwnerTitle   string
	OwnerEmail   string
	OwnerSummary string
}

// Composer builds Documents from portfolio items.
type Composer struct {
	branding Branding
	now      func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock replaces time.Now for generated dates.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// NewComposer creates a Composer for branding.
func NewComposer(branding Branding, opts ...Option) *Composer {
	c := &Composer{
		branding: branding,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the composer's current time.
func (c *Composer) Now() time.Time {
	return c.now()
}

// ComposeItem builds the single-item export for item.
func (c *Composer) ComposeItem(item *models.PortfolioItem, templateName string) *Document {
	now := c.now()
	doc := &Document{Template: LookupTemplate(templateName), Title: item.Title}

	doc.Sections = append(doc.Sections,
		Section{Kind: KindHeader, Rows: []Row{
			{Label: c.branding.OwnerName, Value: c.branding.OwnerTitle},
			{Label: "Portfolio Project", Value: now.Format("January 2006")},
		}},
		Section{Kind: KindTitle, Text: item.Title},
		Section{Kind: KindDivider},
		Section{Kind: KindParagraph, Heading: HeadingSummary, Text: item.ShortPitch},
		Section{Kind: KindParagraph, Heading: HeadingDescription, Text: item.LongDesc},
	)

	if rows := c.MetricRows(item.BusinessMetrics); len(rows) > 0 {
		doc.Sections = append(doc.Sections, Section{Kind: KindTable, Heading: HeadingBusiness, Rows: rows, Style: businessStyle})
	}
	if rows := c.MetricRows(item.TechnicalMetrics); len(rows) > 0 {
		doc.Sections = append(doc.Sections, Section{Kind: KindTable, Heading: HeadingTechnical, Rows: rows, Style: technicalStyle})
	}
	if len(item.Achievements) > 0 {
		doc.Sections = append(doc.Sections, Section{Kind: KindList, Heading: HeadingAchievements, Items: item.Achievements})
	}

	doc.Sections = append(doc.Sections,
		Section{Kind: KindTable, Heading: HeadingTechInfo, Rows: technicalInfo(item), Style: infoStyle},
		Section{Kind: KindFooter, Rows: []Row{
			{Label: "Generated", Value: "Portfolio Dashboard - " + now.Format("02/01/2006")},
			{Label: "GitHub", Value: item.GitHubURL},
			{Label: "Contact", Value: c.branding.OwnerEmail},
		}},
	)
	return doc
}

// ComposeSummary builds the multi-item summary. items must already be ranked;
// only the first SummaryItemLimit are used.
func (c *Composer) ComposeSummary(items []*models.PortfolioItem, templateName string) *Document {
	if len(items) > SummaryItemLimit {
		items = items[:SummaryItemLimit]
	}
	tmpl := LookupTemplate(templateName)
	doc := &Document{Template: tmpl, Title: summaryDocumentTitle}

	doc.Sections = append(doc.Sections,
		Section{Kind: KindTitle, Text: summaryDocumentTitle},
		Section{Kind: KindParagraph, Text: c.branding.OwnerName + " - " + c.branding.OwnerTitle},
		Section{Kind: KindDivider},
		Section{Kind: KindParagraph, Heading: HeadingExecutive, Text: c.branding.OwnerSummary},
		Section{Kind: KindParagraph, Heading: HeadingFeatured},
	)

	for i, item := range items {
		doc.Sections = append(doc.Sections, Section{
			Kind:    KindParagraph,
			Heading: fmt.Sprintf("%d. %s", i+1, item.Title),
			Text:    item.ShortPitch,
		})
		// Stored metrics carry no key order; the cap keeps the first keys by name.
		rows := c.MetricRows(item.BusinessMetrics)
		if len(rows) > SummaryMetricLimit {
			rows = rows[:SummaryMetricLimit]
		}
		if len(rows) > 0 {
			doc.Sections = append(doc.Sections, Section{Kind: KindTable, Rows: rows, Style: compactStyle})
		}
	}

	doc.Sections = append(doc.Sections,
		Section{Kind: KindParagraph, Heading: HeadingTechnologies, Text: strings.Join(Technologies(items), techSeparator)},
		Section{Kind: KindFooter, Rows: []Row{
			{Label: "Generated", Value: "Portfolio Dashboard - " + c.now().Format("02/01/2006")},
			{Label: "Contact", Value: c.branding.OwnerEmail},
		}},
	)
	return doc
}

// MetricRows turns a metrics mapping into table rows sorted by key. Null and
// empty-string values are skipped; zero is kept.
func (c *Composer) MetricRows(metrics map[string]any) []Row {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		value := jsonutil.FlexibleString(metrics[k])
		if value == "" {
			continue
		}
		rows = append(rows, Row{Label: c.Humanize(k), Value: value})
	}
	return rows
}

// Humanize turns a snake_case key into title-cased words. A Caser carries
// state between calls, so each call builds its own.
func (c *Composer) Humanize(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Technologies returns the deduplicated, sorted union of the items' stacks,
// capped at SummaryTechnologyLimit.
func Technologies(items []*models.PortfolioItem) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, item := range items {
		for _, tech := range item.Stack {
			if _, ok := seen[tech]; ok || tech == "" {
				continue
			}
			seen[tech] = struct{}{}
			out = append(out, tech)
		}
	}
	sort.Strings(out)
	if len(out) > SummaryTechnologyLimit {
		out = out[:SummaryTechnologyLimit]
	}
	return out
}

func technicalInfo(item *models.PortfolioItem) []Row {
	return []Row{
		{Label: "GitHub URL", Value: item.GitHubURL},
		{Label: "Language", Value: orNA(item.Language())},
		{Label: "Stars", Value: strconv.Itoa(item.GitHubStars)},
		{Label: "Forks", Value: strconv.Itoa(item.GitHubForks)},
		{Label: "Technologies", Value: orNA(strings.Join(item.Stack, ", "))},
		{Label: "Tags", Value: orNA(strings.Join(item.Tags, ", "))},
		{Label: "Complexity", Value: positive(item.ComplexityScore, func(n int) string { return fmt.Sprintf("%d/10", n) })},
		{Label: "Team", Value: positive(item.TeamSize, func(n int) string { return count(n, "person") })},
		{Label: "Duration", Value: positive(item.ProjectDurationMonths, func(n int) string { return count(n, "month") })},
	}
}

// count renders n with the singular or plural form of noun.
func count(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func positive(v *int, format func(int) string) string {
	if v == nil || *v <= 0 {
		return notAvailable
	}
	return format(*v)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
