// Package editor orchestrates the content read-modify-write cycle: fetch and
// decode a record, validate an edited draft, and write it back conditionally
// on the version token captured at load time.
package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nordai-studio/studio-cms/internal/content"
	"github.com/nordai-studio/studio-cms/internal/frontmatter"
	"github.com/nordai-studio/studio-cms/internal/logger"
	"github.com/nordai-studio/studio-cms/internal/store"
)

// Controller runs edit sessions against one file store. It never retries and
// never merges: a stale save is reported to the operator as a conflict.
type Controller struct {
	store store.FileStore
}

// New builds a controller on top of a session-scoped file store.
func New(fs store.FileStore) *Controller {
	return &Controller{store: fs}
}

// Load fetches a record and maps it into its typed form. The record carries
// the version token required for a later save or delete.
func (c *Controller) Load(ctx context.Context, t content.Type, slug string) (*content.Record, error) {
	raw, token, err := c.store.Fetch(ctx, content.Path(t, slug))
	if err != nil {
		return nil, err
	}

	attrs, body, err := frontmatter.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", t, slug, err)
	}

	rec, err := content.ToRecord(t, attrs, body, slug)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", t, slug, err)
	}
	rec.VersionToken = token
	return rec, nil
}

// Save validates the draft and writes it as one atomic payload. Validation
// runs before anything touches the network. A new record gets its slug
// derived from title and language and is written unconditionally, failing if
// the path is occupied; an update is conditional on the draft's version
// token.
func (c *Controller) Save(ctx context.Context, rec *content.Record, isNew bool) (string, error) {
	if err := content.Validate(rec); err != nil {
		return "", err
	}

	action := "Update"
	var expected string
	if isNew {
		action = "Create"
		rec.Slug = content.DeriveSlug(rec.Title, rec.Language)
	} else {
		expected = rec.VersionToken
	}

	text, err := frontmatter.Encode(content.ToAttributes(rec), rec.Body)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("%s %s: %s", action, rec.Type, rec.Title)
	token, err := c.store.Write(ctx, content.Path(rec.Type, rec.Slug), []byte(text), expected, message)
	if err != nil {
		return "", err
	}

	logger.Get().Info().
		Str("type", string(rec.Type)).
		Str("slug", rec.Slug).
		Str("token", token).
		Msg("record saved")

	rec.VersionToken = token
	return token, nil
}

// Delete removes a record at the revision the operator loaded.
func (c *Controller) Delete(ctx context.Context, t content.Type, slug, versionToken string) error {
	message := fmt.Sprintf("Delete %s: %s", t, slug)
	if err := c.store.Delete(ctx, content.Path(t, slug), versionToken, message); err != nil {
		return err
	}

	logger.Get().Info().
		Str("type", string(t)).
		Str("slug", slug).
		Msg("record deleted")
	return nil
}

// List builds listing summaries for one collection, optionally filtered by
// language. Records that fail to decode are skipped with a warning so one
// broken file does not take the whole listing down.
func (c *Controller) List(ctx context.Context, t content.Type, lang content.Language) ([]content.Summary, error) {
	entries, err := c.store.List(ctx, content.Dir(t))
	if err != nil {
		return nil, err
	}

	summaries := make([]content.Summary, 0, len(entries))
	for _, entry := range entries {
		slug, ok := strings.CutSuffix(entry.Name, ".mdx")
		if !ok {
			continue
		}
		_, entryLang := content.SplitSlug(slug)
		if lang != "" && entryLang != lang {
			continue
		}

		rec, err := c.Load(ctx, t, slug)
		if err != nil {
			logger.Get().Warn().
				Err(err).
				Str("path", entry.Path).
				Msg("skipping unreadable record")
			continue
		}

		summary := content.Summary{
			Slug:     rec.Slug,
			Language: rec.Language,
			Title:    rec.Title,
			Excerpt:  rec.Excerpt,
			Category: rec.Category,
			Featured: rec.Featured,
			Image:    rec.Image,
		}
		if rec.Article != nil {
			summary.Date = rec.Article.Date
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date > summaries[j].Date
		}
		return summaries[i].Slug < summaries[j].Slug
	})
	return summaries, nil
}
