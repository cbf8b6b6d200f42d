package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.github.com"

// GitHubConfig describes the repository a client is scoped to. Token is the
// session's OAuth access token; BaseURL defaults to the public API.
type GitHubConfig struct {
	Owner   string
	Repo    string
	Branch  string
	Token   string
	BaseURL string
	Timeout time.Duration
}

// GitHub implements FileStore against the GitHub repository contents API.
type GitHub struct {
	client *resty.Client
	owner  string
	repo   string
	branch string
}

// NewGitHub builds a client scoped to one repository and one session token.
func NewGitHub(cfg GitHubConfig) *GitHub {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/vnd.github.v3+json").
		SetAuthScheme("token").
		SetAuthToken(cfg.Token)

	return &GitHub{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: cfg.Branch,
	}
}

type contentsResponse struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	SHA     string `json:"sha"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (g *GitHub) contentsURL(path string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", g.owner, g.repo, path)
}

// Fetch returns the decoded file contents and its blob SHA.
func (g *GitHub) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	var out contentsResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("ref", g.branch).
		SetResult(&out).
		Get(g.contentsURL(path))
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetch %s: %v", ErrTransient, path, err)
	}
	if err := statusError(resp, path); err != nil {
		return nil, "", err
	}

	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("store: decode contents of %s: %w", path, err)
	}
	return raw, out.SHA, nil
}

// Write performs a conditional create or replace and returns the new blob SHA.
func (g *GitHub) Write(ctx context.Context, path string, contents []byte, expectedToken, message string) (string, error) {
	body := map[string]interface{}{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(contents),
		"branch":  g.branch,
	}
	if expectedToken != "" {
		body["sha"] = expectedToken
	}

	var out writeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Put(g.contentsURL(path))
	if err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrTransient, path, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return out.Content.SHA, nil
	case http.StatusConflict:
		return "", fmt.Errorf("%w: %s", ErrVersionConflict, path)
	case http.StatusUnprocessableEntity:
		// Without an expected token the API rejects writes to occupied
		// paths; with one it rejects stale tokens the same way.
		if expectedToken == "" {
			return "", fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return "", fmt.Errorf("%w: %s", ErrVersionConflict, path)
	}
	return "", statusError(resp, path)
}

// Delete removes the file at the given revision.
func (g *GitHub) Delete(ctx context.Context, path, expectedToken, message string) error {
	body := map[string]interface{}{
		"message": message,
		"sha":     expectedToken,
		"branch":  g.branch,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		Delete(g.contentsURL(path))
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrTransient, path, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrVersionConflict, path)
	}
	return statusError(resp, path)
}

// List enumerates files directly under dir. A missing directory is an empty
// collection, not an error; the contents API has no way to create one without
// a first file anyway.
func (g *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	var out []contentsResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("ref", g.branch).
		SetResult(&out).
		Get(g.contentsURL(dir))
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrTransient, dir, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := statusError(resp, dir); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(out))
	for _, item := range out {
		if item.Type != "file" {
			continue
		}
		entries = append(entries, Entry{Name: item.Name, Path: item.Path, Token: item.SHA})
	}
	return entries, nil
}

// statusError maps a non-2xx response to the store error taxonomy.
func statusError(resp *resty.Response, path string) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, path)
	case code >= 500:
		return fmt.Errorf("%w: %s returned %d", ErrTransient, path, code)
	}
	return fmt.Errorf("store: %s returned unexpected status %d", path, code)
}
