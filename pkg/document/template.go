package document

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

var (
	colorBlack     = Color{0, 0, 0}
	colorDarkBlue  = Color{0, 0, 139}
	colorBlue      = Color{0, 0, 255}
	colorLightBlue = Color{173, 216, 230}
	colorPurple    = Color{128, 0, 128}
	colorLavender  = Color{230, 230, 250}
	colorGray      = Color{128, 128, 128}
	colorLightGrey = Color{211, 211, 211}
	colorGreen     = Color{0, 128, 0}
	colorLightGrn  = Color{144, 238, 144}
	colorBeige     = Color{245, 245, 220}
	colorWhite     = Color{245, 245, 245}
)

// Template fixes the visual style of a document. Everything else about the
// layout is shared by all templates.
type Template struct {
	Name             string
	TitleColor       Color
	AccentColor      Color
	TitleSize        float64
	HeaderBackground Color
}

// Template names.
const (
	TemplateProfessional = "professional"
	TemplateModern       = "modern"
	TemplateMinimalist   = "minimalist"
)

var templates = map[string]Template{
	TemplateProfessional: {
		Name:             TemplateProfessional,
		TitleColor:       colorDarkBlue,
		AccentColor:      colorBlue,
		TitleSize:        24,
		HeaderBackground: colorLightBlue,
	},
	TemplateModern: {
		Name:             TemplateModern,
		TitleColor:       colorPurple,
		AccentColor:      colorPurple,
		TitleSize:        26,
		HeaderBackground: colorLavender,
	},
	TemplateMinimalist: {
		Name:             TemplateMinimalist,
		TitleColor:       colorBlack,
		AccentColor:      colorGray,
		TitleSize:        22,
		HeaderBackground: colorLightGrey,
	},
}

// LookupTemplate returns the named template, falling back to professional.
func LookupTemplate(name string) Template {
	if t, ok := templates[name]; ok {
		return t
	}
	return templates[TemplateProfessional]
}
