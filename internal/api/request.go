package api

import (
	"github.com/nordai-studio/studio-cms/internal/content"
)

// recordRequest is the JSON draft the admin UI submits. Field presence is not
// validated here; the workflow controller reports missing fields before any
// store call.
type recordRequest struct {
	Title          string `json:"title"`
	Excerpt        string `json:"excerpt"`
	Category       string `json:"category"`
	Language       string `json:"language"`
	Featured       bool   `json:"featured"`
	Image          string `json:"image"`
	SeoTitle       string `json:"seoTitle"`
	SeoDescription string `json:"seoDescription"`
	Body           string `json:"body"`
	VersionToken   string `json:"versionToken"`

	// blog
	Date     string `json:"date"`
	ReadTime int    `json:"readTime"`
	Author   string `json:"author"`

	// portfolio
	Client  string   `json:"client"`
	Link    string   `json:"link"`
	Tags    []string `json:"tags"`
	Gallery []string `json:"gallery"`
}

func (r *recordRequest) toRecord(t content.Type) (*content.Record, error) {
	lang := content.LangEN
	if r.Language != "" {
		var err error
		lang, err = content.ParseLanguage(r.Language)
		if err != nil {
			return nil, err
		}
	}

	image := r.Image
	if image == "" {
		image = content.PlaceholderImage
	}

	rec := &content.Record{
		Type:           t,
		Language:       lang,
		Title:          r.Title,
		Excerpt:        r.Excerpt,
		Category:       r.Category,
		Featured:       r.Featured,
		Image:          image,
		SeoTitle:       r.SeoTitle,
		SeoDescription: r.SeoDescription,
		Body:           r.Body,
		VersionToken:   r.VersionToken,
	}

	switch t {
	case content.TypeBlog:
		author := r.Author
		if author == "" {
			author = content.DefaultAuthor
		}
		rec.Article = &content.ArticleFields{
			Date:     r.Date,
			ReadTime: r.ReadTime,
			Author:   author,
		}
	case content.TypePortfolio:
		rec.Project = &content.ProjectFields{
			Client:  r.Client,
			Link:    r.Link,
			Tags:    dedupe(r.Tags),
			Gallery: r.Gallery,
		}
	}

	return rec, nil
}

// dedupe drops duplicate tags while preserving insertion order.
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
