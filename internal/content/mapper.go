package content

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug builds the storage slug from a title and language tag. The title
// is lower-cased, every run of characters outside [a-z0-9] collapses to a
// single hyphen, and leading/trailing hyphens are stripped. Two titles that
// normalize identically collide; creation surfaces that as an already-exists
// error rather than disambiguating.
func DeriveSlug(title string, lang Language) string {
	base := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")
	return base + "." + string(lang)
}

// ToRecord builds a typed record from decoded front-matter attributes, the
// document body and the storage slug. Optional fields absent from the
// attributes receive their defaults; a blog record without a usable readTime
// is rejected.
func ToRecord(t Type, attrs map[string]interface{}, body, slug string) (*Record, error) {
	_, lang := SplitSlug(slug)

	rec := &Record{
		Type:           t,
		Slug:           slug,
		Language:       lang,
		Title:          stringAttr(attrs, "title"),
		Excerpt:        stringAttr(attrs, "excerpt"),
		Category:       stringAttr(attrs, "category"),
		Featured:       boolAttr(attrs, "featured"),
		Image:          stringAttr(attrs, "image"),
		SeoTitle:       stringAttr(attrs, "seoTitle"),
		SeoDescription: stringAttr(attrs, "seoDescription"),
		Body:           body,
	}
	if rec.Image == "" {
		rec.Image = PlaceholderImage
	}

	switch t {
	case TypeBlog:
		readTime, ok := intAttr(attrs, "readTime")
		if !ok || readTime <= 0 {
			return nil, &MissingFieldError{Fields: []string{"readTime"}}
		}
		author := stringAttr(attrs, "author")
		if author == "" {
			author = DefaultAuthor
		}
		rec.Article = &ArticleFields{
			Date:     stringAttr(attrs, "date"),
			ReadTime: readTime,
			Author:   author,
		}
	case TypePortfolio:
		rec.Project = &ProjectFields{
			Client:  stringAttr(attrs, "client"),
			Link:    stringAttr(attrs, "link"),
			Tags:    stringSliceAttr(attrs, "tags"),
			Gallery: stringSliceAttr(attrs, "gallery"),
		}
	}

	return rec, nil
}

// ToAttributes emits the front-matter attributes for a record. Only keys
// relevant to the record's collection appear, and optional keys holding empty
// values are omitted entirely rather than written as empty strings.
func ToAttributes(rec *Record) map[string]interface{} {
	attrs := map[string]interface{}{
		"title":    rec.Title,
		"excerpt":  rec.Excerpt,
		"category": rec.Category,
		"featured": rec.Featured,
		"image":    rec.Image,
	}
	if rec.SeoTitle != "" {
		attrs["seoTitle"] = rec.SeoTitle
	}
	if rec.SeoDescription != "" {
		attrs["seoDescription"] = rec.SeoDescription
	}

	switch {
	case rec.Article != nil:
		attrs["date"] = rec.Article.Date
		attrs["readTime"] = rec.Article.ReadTime
		attrs["author"] = rec.Article.Author
	case rec.Project != nil:
		attrs["client"] = rec.Project.Client
		tags := rec.Project.Tags
		if tags == nil {
			tags = []string{}
		}
		attrs["tags"] = tags
		if rec.Project.Link != "" {
			attrs["link"] = rec.Project.Link
		}
		if len(rec.Project.Gallery) > 0 {
			attrs["gallery"] = rec.Project.Gallery
		}
	}

	return attrs
}

func stringAttr(attrs map[string]interface{}, key string) string {
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

func boolAttr(attrs map[string]interface{}, key string) bool {
	if v, ok := attrs[key].(bool); ok {
		return v
	}
	return false
}

func intAttr(attrs map[string]interface{}, key string) (int, bool) {
	switch v := attrs[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func stringSliceAttr(attrs map[string]interface{}, key string) []string {
	switch v := attrs[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
