// Package content defines the typed content records managed by the CMS and
// the mapping between records and their front-matter representation.
package content

import (
	"fmt"
	"strings"
)

// Type identifies a content collection. Each collection lives under its own
// directory in the backing repository.
type Type string

const (
	TypeBlog      Type = "blog"
	TypePortfolio Type = "portfolio"
)

// ParseType validates a collection name coming from a request path.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBlog, TypePortfolio:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// Language is the language tag carried in every slug.
type Language string

const (
	LangEN Language = "en"
	LangPL Language = "pl"
	LangSV Language = "sv"
)

// Languages lists every supported language tag.
var Languages = []Language{LangEN, LangPL, LangSV}

// ParseLanguage validates a language tag.
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages {
		if Language(s) == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Categories are fixed per collection.
var (
	blogCategories      = []string{"ai", "automation", "design", "insights", "trends"}
	portfolioCategories = []string{"ai", "web", "branding", "design"}
)

// ValidCategory reports whether category is allowed for the collection.
func ValidCategory(t Type, category string) bool {
	cats := blogCategories
	if t == TypePortfolio {
		cats = portfolioCategories
	}
	for _, c := range cats {
		if c == category {
			return true
		}
	}
	return false
}

// PlaceholderImage is the sentinel used when a record has no image set.
const PlaceholderImage = "/placeholder.svg"

// DefaultAuthor is applied to articles whose front matter has no author key.
const DefaultAuthor = "nordAi Team"

// Record is a content record of either collection. Exactly one of Article or
// Project is non-nil, matching Type.
type Record struct {
	Type     Type     `json:"type"`
	Slug     string   `json:"slug"`
	Language Language `json:"language"`

	Title          string `json:"title"`
	Excerpt        string `json:"excerpt"`
	Category       string `json:"category"`
	Featured       bool   `json:"featured"`
	Image          string `json:"image"`
	SeoTitle       string `json:"seoTitle,omitempty"`
	SeoDescription string `json:"seoDescription,omitempty"`
	Body           string `json:"body"`

	// VersionToken is the store revision the record was loaded at. It is
	// required on update and delete; empty means the record is new.
	VersionToken string `json:"versionToken,omitempty"`

	Article *ArticleFields `json:"article,omitempty"`
	Project *ProjectFields `json:"project,omitempty"`
}

// ArticleFields are the blog-only attributes.
type ArticleFields struct {
	Date     string `json:"date"`
	ReadTime int    `json:"readTime"`
	Author   string `json:"author"`
}

// ProjectFields are the portfolio-only attributes.
type ProjectFields struct {
	Client  string   `json:"client"`
	Link    string   `json:"link,omitempty"`
	Tags    []string `json:"tags"`
	Gallery []string `json:"gallery,omitempty"`
}

// Summary is the listing view of a record.
type Summary struct {
	Slug     string   `json:"slug"`
	Language Language `json:"language"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"`
	Featured bool     `json:"featured"`
	Image    string   `json:"image"`
	Date     string   `json:"date,omitempty"`
}

// Path returns the repository path of a record file.
func Path(t Type, slug string) string {
	return fmt.Sprintf("content/%s/%s.mdx", t, slug)
}

// Dir returns the repository directory of a collection.
func Dir(t Type) string {
	return fmt.Sprintf("content/%s", t)
}

// SplitSlug separates the base slug from the language suffix. Slugs without a
// recognized suffix default to English; they predate language-aware naming.
func SplitSlug(slug string) (string, Language) {
	if i := strings.LastIndex(slug, "."); i >= 0 {
		if lang, err := ParseLanguage(slug[i+1:]); err == nil {
			return slug[:i], lang
		}
	}
	return slug, LangEN
}
