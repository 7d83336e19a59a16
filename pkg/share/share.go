// Package share builds outbound social sharing links for portfolio items.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// Platform is a supported share target.
type Platform string

const (
	LinkedIn      Platform = "linkedin"
	Twitter       Platform = "twitter"
	StackOverflow Platform = "stackoverflow"
)

// Platforms lists every supported platform.
var Platforms = []Platform{LinkedIn, Twitter, StackOverflow}

const (
	linkedInShareURL      = "https://www.linkedin.com/sharing/share-offsite/"
	twitterIntentURL      = "https://twitter.com/intent/tweet"
	stackOverflowAskURL   = "https://stackoverflow.com/questions/ask"
	maxStackOverflowTags  = 3
	maxTwitterHashtagTech = 2
)

// ParsePlatform validates a raw platform name.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownPlatform, raw)
}

// Action is the event action recorded for a share on p.
func (p Platform) Action() string {
	return string(p) + "_share"
}

// param is one query parameter. Order is kept as written.
type param struct {
	key, value string
}

// BuildURL returns the share URL for item on platform.
func BuildURL(platform Platform, item *models.PortfolioItem) (string, error) {
	switch platform {
	case LinkedIn:
		return encode(linkedInShareURL, []param{
			{"url", item.GitHubURL},
			{"title", item.Title},
			{"summary", LinkedInText(item)},
		}), nil
	case Twitter:
		return encode(twitterIntentURL, []param{
			{"text", TwitterText(item)},
		}), nil
	case StackOverflow:
		return encode(stackOverflowAskURL, []param{
			{"title", StackOverflowTitle(item)},
			{"body", StackOverflowBody(item)},
			{"tags", StackOverflowTags(item)},
		}), nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownPlatform, platform)
}

// LinkedInText is the post summary for LinkedIn.
func LinkedInText(item *models.PortfolioItem) string {
	return fmt.Sprintf("🚀 New project: %s\n\n%s\n\n💡 Technologies: %s\n\n"+
		"#Developer #TechInnovation #Portfolio #GitHub\n\nSource code: %s",
		item.Title, item.ShortPitch, stackText(item), item.GitHubURL)
}

// TwitterText is the tweet body. The first two stack entries become hashtags.
func TwitterText(item *models.PortfolioItem) string {
	mainTech := item.Language()
	if mainTech == "" {
		mainTech = "Tech"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 Just built: %s\n\n💻 %s", item.Title, mainTech)

	techs := item.Stack
	if len(techs) > maxTwitterHashtagTech {
		techs = techs[:maxTwitterHashtagTech]
	}
	if len(techs) > 0 {
		tags := make([]string, 0, len(techs))
		for _, t := range techs {
			tags = append(tags, "#"+hashtag(t))
		}
		sb.WriteString(" " + strings.Join(tags, " "))
	}

	fmt.Fprintf(&sb, "\n\n#Developer #GitHub #OpenSource\n\n%s", item.GitHubURL)
	return sb.String()
}

// StackOverflowTitle is the question title.
func StackOverflowTitle(item *models.PortfolioItem) string {
	return fmt.Sprintf("Best practices for %s project: %s", languageOr(item, "unknown"), item.Title)
}

// StackOverflowBody is the question body in Markdown.
func StackOverflowBody(item *models.PortfolioItem) string {
	return fmt.Sprintf("I'm working on a %s project called %q.\n\n"+
		"**Project Description:**\n%s\n\n"+
		"**Technologies used:**\n%s\n\n"+
		"**GitHub Repository:** %s\n\n"+
		"I'm looking for feedback on best practices and potential improvements for this type of project. What would you recommend?",
		languageOr(item, "unknown"), item.Title, item.ShortPitch, stackText(item), item.GitHubURL)
}

// StackOverflowTags is the comma-separated tag list: the language (or
// "programming") followed by up to three item tags.
func StackOverflowTags(item *models.PortfolioItem) string {
	tags := []string{strings.ToLower(languageOr(item, "programming"))}
	for i, t := range item.Tags {
		if i == maxStackOverflowTags {
			break
		}
		tags = append(tags, strings.ReplaceAll(strings.ToLower(t), " ", "-"))
	}
	return strings.Join(tags, ",")
}

func stackText(item *models.PortfolioItem) string {
	if len(item.Stack) == 0 {
		return "N/A"
	}
	return strings.Join(item.Stack, ", ")
}

func languageOr(item *models.PortfolioItem, fallback string) string {
	if lang := item.Language(); lang != "" {
		return lang
	}
	return fallback
}

func hashtag(tech string) string {
	return strings.NewReplacer(" ", "", ".", "", "-", "").Replace(tech)
}

// encode percent-encodes every value. Spaces become %20 rather than "+".
func encode(base string, params []param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.key+"="+escape(p.value))
	}
	return base + "?" + strings.Join(parts, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
