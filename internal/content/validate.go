package content

import "strings"

// MissingFieldError reports the required fields a draft is missing. It is
// raised before any store call so a failed save never reaches the network.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks every required field of a record. Common fields first, then
// the collection-specific ones. An invalid category is reported alongside
// missing fields since it blocks a save the same way.
func Validate(rec *Record) error {
	var missing []string

	if strings.TrimSpace(rec.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(rec.Excerpt) == "" {
		missing = append(missing, "excerpt")
	}
	if strings.TrimSpace(rec.Body) == "" {
		missing = append(missing, "body")
	}
	if !ValidCategory(rec.Type, rec.Category) {
		missing = append(missing, "category")
	}

	switch rec.Type {
	case TypeBlog:
		if rec.Article == nil {
			missing = append(missing, "date", "readTime")
			break
		}
		if strings.TrimSpace(rec.Article.Date) == "" {
			missing = append(missing, "date")
		}
		if rec.Article.ReadTime <= 0 {
			missing = append(missing, "readTime")
		}
	case TypePortfolio:
		if rec.Project == nil || strings.TrimSpace(rec.Project.Client) == "" {
			missing = append(missing, "client")
		}
	}

	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}
