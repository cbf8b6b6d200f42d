// Package auth exchanges GitHub OAuth codes for sessions and keeps the
// session registry. The studio allow-list is the only authorization rule:
// any GitHub identity outside it never gets a session.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	// ErrAuthenticationFailed covers any failure while exchanging the code
	// or fetching the identity profile. Not retried.
	ErrAuthenticationFailed = errors.New("auth: authentication failed")

	// ErrUnauthorized means the identity is not in the allow-list. The
	// token obtained during the exchange is discarded.
	ErrUnauthorized = errors.New("auth: identity not allowed")
)

// Identity is the subset of the GitHub user profile the CMS cares about.
type Identity struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Session is the authenticated context passed into every workflow call.
// Created on login, destroyed on sign-out; nothing ambient.
type Session struct {
	ID        string
	Token     string
	Identity  Identity
	CreatedAt time.Time
}

// Options configures a Gate. Endpoint and APIBaseURL default to GitHub's
// public endpoints; tests point them at a local server.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Allowed      []string
	Endpoint     oauth2.Endpoint
	APIBaseURL   string
	Timeout      time.Duration
}

// Gate implements the login state machine: unauthenticated requests go
// through BeginLogin and CompleteLogin; Lookup resolves the cookie back to a
// session until SignOut drops it.
type Gate struct {
	oauth   *oauth2.Config
	api     *resty.Client
	allowed map[string]struct{}

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewGate builds a gate for a static allow-list of GitHub logins.
func NewGate(opts Options) *Gate {
	endpoint := opts.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = github.Endpoint
	}
	baseURL := opts.APIBaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	allowed := make(map[string]struct{}, len(opts.Allowed))
	for _, login := range opts.Allowed {
		allowed[strings.ToLower(strings.TrimSpace(login))] = struct{}{}
	}

	return &Gate{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       []string{"repo"},
			Endpoint:     endpoint,
			RedirectURL:  opts.RedirectURL,
		},
		api: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/vnd.github.v3+json"),
		allowed:  allowed,
		sessions: make(map[string]*Session),
	}
}

// BeginLogin returns the authorize URL the operator is redirected to.
func (g *Gate) BeginLogin() string {
	return g.oauth.AuthCodeURL("state")
}

// CompleteLogin exchanges the callback code for an access token, fetches the
// identity and checks the allow-list. On any failure no session is created
// and no partial state is kept.
func (g *Gate) CompleteLogin(ctx context.Context, code string) (*Session, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", ErrAuthenticationFailed, err)
	}

	identity, err := g.fetchIdentity(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	if _, ok := g.allowed[strings.ToLower(identity.Login)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, identity.Login)
	}

	session := &Session{
		ID:        newSessionID(),
		Token:     token.AccessToken,
		Identity:  identity,
		CreatedAt: time.Now(),
	}

	g.mu.Lock()
	g.sessions[session.ID] = session
	g.mu.Unlock()

	return session, nil
}

// Lookup resolves a session cookie value.
func (g *Gate) Lookup(id string) (*Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	session, ok := g.sessions[id]
	return session, ok
}

// SignOut drops the session synchronously.
func (g *Gate) SignOut(id string) {
	g.mu.Lock()
	delete(g.sessions, id)
	g.mu.Unlock()
}

func (g *Gate) fetchIdentity(ctx context.Context, accessToken string) (Identity, error) {
	var identity Identity
	resp, err := g.api.R().
		SetContext(ctx).
		SetAuthScheme("token").
		SetAuthToken(accessToken).
		SetResult(&identity).
		Get("/user")
	if err != nil {
		return Identity{}, fmt.Errorf("%w: fetch identity: %v", ErrAuthenticationFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: identity endpoint returned %d", ErrAuthenticationFailed, resp.StatusCode())
	}
	return identity, nil
}

func newSessionID() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("auth: session id: %v", err))
	}
	return hex.EncodeToString(buf)
}
