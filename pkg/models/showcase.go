package models

import "time"

// Project is a curated case study shown on the portfolio site.
type Project struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	ShortDescription string         `json:"short_description"`
	LongDescription  *string        `json:"long_description"`
	GitHubURL        *string        `json:"github_url"`
	GitHubRepoName   *string        `json:"github_repo_name"`
	GitHubStars      *int           `json:"github_stars"`
	GitHubForks      *int           `json:"github_forks"`
	GitHubLanguage   *string        `json:"github_language"`
	DemoURL          *string        `json:"demo_url"`
	ImageURL         *string        `json:"image_url"`
	Category         string         `json:"category"`
	Tags             []string       `json:"tags"`
	Technologies     []string       `json:"technologies"`
	Metrics          map[string]any `json:"metrics"`
	BusinessImpact   *string        `json:"business_impact"`
	IsFeatured       bool           `json:"is_featured"`
	IsPublished      bool           `json:"is_published"`
	DisplayOrder     int            `json:"display_order"`
	ProjectDate      *Date          `json:"project_date"`
	DurationMonths   *int           `json:"duration_months"`
	TeamSize         *int           `json:"team_size"`
	Role             *string        `json:"role"`
	TargetModes      []string       `json:"target_modes"`
	ModePriority     map[string]any `json:"mode_priority"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ProjectFilters are the optional project list filters.
type ProjectFilters struct {
	Category      *string
	FeaturedOnly  bool
	PublishedOnly bool
}

// BlogPost is a published article.
type BlogPost struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	Keywords        []string   `json:"keywords"`
	CoverImageURL   *string    `json:"cover_image_url"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	ReadTimeMinutes *int       `json:"read_time_minutes"`
	ViewCount       int        `json:"view_count"`
	LikeCount       int        `json:"like_count"`
	IsPublished     bool       `json:"is_published"`
	IsFeatured      bool       `json:"is_featured"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Blog list limits.
const (
	DefaultBlogLimit = 10
	MaxBlogLimit     = 50
)

// BlogFilters are the optional blog list filters.
type BlogFilters struct {
	Category      *string
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
}

// Testimonial is a recommendation from a client or colleague.
type Testimonial struct {
	ID                int64     `json:"id"`
	AuthorName        string    `json:"author_name"`
	AuthorTitle       string    `json:"author_title"`
	AuthorCompany     *string   `json:"author_company"`
	AuthorPhotoURL    *string   `json:"author_photo_url"`
	AuthorLinkedInURL *string   `json:"author_linkedin_url"`
	Quote             string    `json:"quote"`
	Rating            *int      `json:"rating"`
	Relationship      *string   `json:"relationship"`
	ProjectContext    *string   `json:"project_context"`
	DateGiven         *Date     `json:"date_given"`
	IsFeatured        bool      `json:"is_featured"`
	IsPublished       bool      `json:"is_published"`
	DisplayOrder      int       `json:"display_order"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TestimonialFilters are the optional testimonial list filters.
type TestimonialFilters struct {
	FeaturedOnly  bool
	PublishedOnly bool
}

// GitHubStats is a snapshot of the owner's GitHub activity.
type GitHubStats struct {
	ID                     int64            `json:"id"`
	Username               string           `json:"username"`
	TotalRepos             int              `json:"total_repos"`
	TotalStars             int              `json:"total_stars"`
	TotalForks             int              `json:"total_forks"`
	Followers              int              `json:"followers"`
	Following              int              `json:"following"`
	TotalContributionsYear int              `json:"total_contributions_year"`
	CurrentStreakDays      int              `json:"current_streak_days"`
	LongestStreakDays      int              `json:"longest_streak_days"`
	Languages              map[string]any   `json:"languages"`
	TopRepos               []map[string]any `json:"top_repos"`
	LastFetchedAt          time.Time        `json:"last_fetched_at"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}
