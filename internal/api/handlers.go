package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nordai-studio/studio-cms/internal/auth"
	"github.com/nordai-studio/studio-cms/internal/cache"
	"github.com/nordai-studio/studio-cms/internal/config"
	"github.com/nordai-studio/studio-cms/internal/content"
	"github.com/nordai-studio/studio-cms/internal/editor"
	"github.com/nordai-studio/studio-cms/internal/logger"
	"github.com/nordai-studio/studio-cms/internal/media"
	"github.com/nordai-studio/studio-cms/internal/middleware"
	"github.com/nordai-studio/studio-cms/internal/store"
)

// EditorFactory builds a workflow controller scoped to one session token.
type EditorFactory func(token string) *editor.Controller

// Handlers carries the dependencies of every route.
type Handlers struct {
	cfg       *config.Config
	gate      *auth.Gate
	cache     cache.ListCache
	uploader  *media.Uploader // nil when media storage is not configured
	validate  *validator.Validate
	newEditor EditorFactory
}

// NewHandlers wires the default editor factory: a GitHub-backed store client
// per session token.
func NewHandlers(cfg *config.Config, gate *auth.Gate, listCache cache.ListCache, uploader *media.Uploader) *Handlers {
	return &Handlers{
		cfg:      cfg,
		gate:     gate,
		cache:    listCache,
		uploader: uploader,
		validate: validator.New(),
		newEditor: func(token string) *editor.Controller {
			return editor.New(store.NewGitHub(store.GitHubConfig{
				Owner:   cfg.RepoOwner,
				Repo:    cfg.RepoName,
				Branch:  cfg.RepoBranch,
				Token:   token,
				Timeout: cfg.HTTPTimeout,
			}))
		},
	}
}

// NewHandlersWithEditor is the test seam: it accepts a prebuilt factory.
func NewHandlersWithEditor(cfg *config.Config, gate *auth.Gate, listCache cache.ListCache, factory EditorFactory) *Handlers {
	return &Handlers{
		cfg:       cfg,
		gate:      gate,
		cache:     listCache,
		validate:  validator.New(),
		newEditor: factory,
	}
}

func (h *Handlers) editorFor(c *fiber.Ctx) *editor.Controller {
	return h.newEditor(middleware.SessionFrom(c).Token)
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Login redirects the operator to the identity provider.
func (h *Handlers) Login(c *fiber.Ctx) error {
	return c.Redirect(h.gate.BeginLogin(), fiber.StatusTemporaryRedirect)
}

// AuthCallback completes the OAuth exchange and sets the session cookie.
func (h *Handlers) AuthCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code")
	}

	session, err := h.gate.CompleteLogin(c.Context(), code)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.cfg.Env != "development",
	})

	return c.Redirect("/admin", fiber.StatusFound)
}

// Logout destroys the session.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if id := c.Cookies(middleware.SessionCookie); id != "" {
		h.gate.SignOut(id)
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"status": "signed out"})
}

// Me returns the signed-in identity.
func (h *Handlers) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.SessionFrom(c).Identity)
}

// ListContent handles GET /api/v1/content/:type with optional ?lang= filter.
func (h *Handlers) ListContent(c *fiber.Ctx) error {
	t, err := content.ParseType(c.Params("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var lang content.Language
	if q := c.Query("lang"); q != "" {
		lang, err = content.ParseLanguage(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	key := fmt.Sprintf("list:%s:%s", t, lang)
	if data, ok, err := h.cache.Get(c.Context(), key); err == nil && ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	} else if err != nil {
		logger.Get().Warn().Err(err).Msg("list cache read failed")
	}

	summaries, err := h.editorFor(c).List(c.Context(), t, lang)
	if err != nil {
		return err
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	if err := h.cache.Set(c.Context(), key, data, h.cfg.ListCacheTTL); err != nil {
		logger.Get().Warn().Err(err).Msg("list cache write failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// GetContent handles GET /api/v1/content/:type/:slug.
func (h *Handlers) GetContent(c *fiber.Ctx) error {
	t, err := content.ParseType(c.Params("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.editorFor(c).Load(c.Context(), t, c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

// CreateContent handles POST /api/v1/content/:type.
func (h *Handlers) CreateContent(c *fiber.Ctx) error {
	return h.save(c, true)
}

// UpdateContent handles PUT /api/v1/content/:type/:slug.
func (h *Handlers) UpdateContent(c *fiber.Ctx) error {
	return h.save(c, false)
}

func (h *Handlers) save(c *fiber.Ctx, isNew bool) error {
	t, err := content.ParseType(c.Params("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rec, err := req.toRecord(t)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !isNew {
		rec.Slug = c.Params("slug")
		if rec.VersionToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "versionToken is required on update")
		}
	}

	token, err := h.editorFor(c).Save(c.Context(), rec, isNew)
	if err != nil {
		return err
	}

	h.invalidateListings(c)

	status := fiber.StatusOK
	if isNew {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"slug":         rec.Slug,
		"versionToken": token,
	})
}

// DeleteContent handles DELETE /api/v1/content/:type/:slug. The version token
// captured at load time comes in the X-Version-Token header.
func (h *Handlers) DeleteContent(c *fiber.Ctx) error {
	t, err := content.ParseType(c.Params("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	versionToken := c.Get("X-Version-Token")
	if versionToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "X-Version-Token header is required")
	}

	if err := h.editorFor(c).Delete(c.Context(), t, c.Params("slug"), versionToken); err != nil {
		return err
	}

	h.invalidateListings(c)
	return c.JSON(fiber.Map{"status": "deleted"})
}

// UploadMedia handles POST /api/v1/media (multipart form, "file" field).
func (h *Handlers) UploadMedia(c *fiber.Ctx) error {
	if h.uploader == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "media storage is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable file")
	}

	url, err := h.uploader.Upload(c.Context(), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

func (h *Handlers) invalidateListings(c *fiber.Ctx) {
	if err := h.cache.Invalidate(c.Context()); err != nil {
		logger.Get().Warn().Err(err).Msg("list cache invalidation failed")
	}
}
