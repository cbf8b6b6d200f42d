package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nordai-studio/studio-cms/internal/content"
	"github.com/nordai-studio/studio-cms/internal/store"
)

// fakeStore is an in-memory FileStore with the same conditional-write
// semantics as the real one. Every write bumps the version token.
type fakeStore struct {
	files  map[string]fakeFile
	calls  int
	nextID int
}

type fakeFile struct {
	contents []byte
	token    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]fakeFile{}}
}

func (f *fakeStore) put(path, contents string) string {
	f.nextID++
	token := fmt.Sprintf("v%d", f.nextID)
	f.files[path] = fakeFile{contents: []byte(contents), token: token}
	return token
}

func (f *fakeStore) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	f.calls++
	file, ok := f.files[path]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return file.contents, file.token, nil
}

func (f *fakeStore) Write(ctx context.Context, path string, contents []byte, expectedToken, message string) (string, error) {
	f.calls++
	current, exists := f.files[path]
	if expectedToken == "" {
		if exists {
			return "", store.ErrAlreadyExists
		}
	} else if !exists || current.token != expectedToken {
		return "", store.ErrVersionConflict
	}
	f.nextID++
	token := fmt.Sprintf("v%d", f.nextID)
	f.files[path] = fakeFile{contents: contents, token: token}
	return token, nil
}

func (f *fakeStore) Delete(ctx context.Context, path, expectedToken, message string) error {
	f.calls++
	current, exists := f.files[path]
	if !exists {
		return store.ErrNotFound
	}
	if current.token != expectedToken {
		return store.ErrVersionConflict
	}
	delete(f.files, path)
	return nil
}

func (f *fakeStore) List(ctx context.Context, dir string) ([]store.Entry, error) {
	f.calls++
	var entries []store.Entry
	for path, file := range f.files {
		if strings.HasPrefix(path, dir+"/") {
			name := strings.TrimPrefix(path, dir+"/")
			if !strings.Contains(name, "/") {
				entries = append(entries, store.Entry{Name: name, Path: path, Token: file.token})
			}
		}
	}
	return entries, nil
}

func newArticleDraft() *content.Record {
	return &content.Record{
		Type:     content.TypeBlog,
		Language: content.LangEN,
		Title:    "AI Trends 2025",
		Excerpt:  "x",
		Category: "ai",
		Image:    content.PlaceholderImage,
		Body:     "y",
		Article:  &content.ArticleFields{Date: "2025-01-15", ReadTime: 5, Author: "Kamil"},
	}
}

func TestSaveCreateArticle(t *testing.T) {
	fs := newFakeStore()
	ctrl := New(fs)

	draft := newArticleDraft()
	token, err := ctrl.Save(context.Background(), draft, true)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if token == "" {
		t.Fatal("Save returned empty version token")
	}
	if draft.Slug != "ai-trends-2025.en" {
		t.Errorf("slug = %q, want ai-trends-2025.en", draft.Slug)
	}

	file, ok := fs.files["content/blog/ai-trends-2025.en.mdx"]
	if !ok {
		t.Fatalf("record not written to expected path; files: %v", fs.files)
	}
	if !strings.HasPrefix(string(file.contents), "---\n") {
		t.Errorf("written payload has no front matter:\n%s", file.contents)
	}

	// The stored payload must load back into an equivalent record.
	loaded, err := ctrl.Load(context.Background(), content.TypeBlog, "ai-trends-2025.en")
	if err != nil {
		t.Fatalf("Load after save returned error: %v", err)
	}
	if loaded.Title != draft.Title || loaded.Body != draft.Body {
		t.Errorf("loaded record differs: %+v", loaded)
	}
	if loaded.VersionToken != token {
		t.Errorf("loaded token %q, want %q", loaded.VersionToken, token)
	}
}

func TestSaveCreateCollision(t *testing.T) {
	fs := newFakeStore()
	fs.put("content/blog/ai-trends-2025.en.mdx", "---\ntitle: Old\n---\nbody")
	ctrl := New(fs)

	_, err := ctrl.Save(context.Background(), newArticleDraft(), true)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestSaveStaleUpdateRejected(t *testing.T) {
	fs := newFakeStore()
	fs.put("content/portfolio/foo.en.mdx",
		"---\ntitle: Foo\nexcerpt: x\ncategory: web\nfeatured: false\nimage: /placeholder.svg\nclient: Acme\ntags: []\n---\nbody")
	ctrl := New(fs)

	rec, err := ctrl.Load(context.Background(), content.TypePortfolio, "foo.en")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Concurrent writer updates the path after our load.
	externalToken := fs.put("content/portfolio/foo.en.mdx", "---\ntitle: External\n---\nexternal body")

	rec.Title = "Mine"
	_, err = ctrl.Save(context.Background(), rec, false)
	if !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}

	// The external overwrite must be untouched.
	current := fs.files["content/portfolio/foo.en.mdx"]
	if current.token != externalToken || string(current.contents) != "---\ntitle: External\n---\nexternal body" {
		t.Errorf("conflicting save modified the stored file: %+v", current)
	}
}

func TestSaveValidationBlocksNetwork(t *testing.T) {
	fs := newFakeStore()
	ctrl := New(fs)

	draft := newArticleDraft()
	draft.Title = ""
	_, err := ctrl.Save(context.Background(), draft, true)

	var missing *content.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if fs.calls != 0 {
		t.Errorf("store reached %d times despite validation failure", fs.calls)
	}
}

func TestDelete(t *testing.T) {
	fs := newFakeStore()
	token := fs.put("content/blog/old-post.en.mdx", "---\ntitle: Old\n---\nbody")
	ctrl := New(fs)

	if err := ctrl.Delete(context.Background(), content.TypeBlog, "old-post.en", token); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := fs.files["content/blog/old-post.en.mdx"]; ok {
		t.Error("file still present after delete")
	}

	if err := ctrl.Delete(context.Background(), content.TypeBlog, "old-post.en", token); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteStaleToken(t *testing.T) {
	fs := newFakeStore()
	fs.put("content/blog/post.en.mdx", "---\ntitle: P\n---\nbody")
	ctrl := New(fs)

	err := ctrl.Delete(context.Background(), content.TypeBlog, "post.en", "stale")
	if !errors.Is(err, store.ErrVersionConflict) {
		t.Errorf("err = %v, want ErrVersionConflict", err)
	}
}

func TestListFiltersByLanguage(t *testing.T) {
	fs := newFakeStore()
	fs.put("content/blog/first.en.mdx",
		"---\ntitle: First\nexcerpt: a\ncategory: ai\ndate: \"2025-02-01\"\nreadTime: 3\n---\nbody")
	fs.put("content/blog/drugi.pl.mdx",
		"---\ntitle: Drugi\nexcerpt: b\ncategory: design\ndate: \"2025-01-01\"\nreadTime: 4\n---\nbody")
	fs.put("content/blog/second.en.mdx",
		"---\ntitle: Second\nexcerpt: c\ncategory: trends\ndate: \"2025-03-01\"\nreadTime: 5\n---\nbody")
	ctrl := New(fs)

	all, err := ctrl.List(context.Background(), content.TypeBlog, "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d summaries, want 3", len(all))
	}
	// Newest first.
	if all[0].Slug != "second.en" {
		t.Errorf("first summary = %q, want second.en", all[0].Slug)
	}

	english, err := ctrl.List(context.Background(), content.TypeBlog, content.LangEN)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(english) != 2 {
		t.Fatalf("got %d english summaries, want 2", len(english))
	}
	for _, s := range english {
		if s.Language != content.LangEN {
			t.Errorf("summary %q has language %q", s.Slug, s.Language)
		}
	}
}

func TestListSkipsBrokenRecords(t *testing.T) {
	fs := newFakeStore()
	fs.put("content/blog/good.en.mdx",
		"---\ntitle: Good\nexcerpt: a\ncategory: ai\ndate: \"2025-02-01\"\nreadTime: 3\n---\nbody")
	fs.put("content/blog/broken.en.mdx", "no front matter at all")
	ctrl := New(fs)

	summaries, err := ctrl.List(context.Background(), content.TypeBlog, "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Slug != "good.en" {
		t.Errorf("summaries = %+v, want only good.en", summaries)
	}
}

func TestLoadNotFound(t *testing.T) {
	ctrl := New(newFakeStore())
	_, err := ctrl.Load(context.Background(), content.TypeBlog, "missing.en")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
