package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nordai-studio/studio-cms/internal/auth"
	"github.com/nordai-studio/studio-cms/internal/content"
	"github.com/nordai-studio/studio-cms/internal/frontmatter"
	"github.com/nordai-studio/studio-cms/internal/logger"
	"github.com/nordai-studio/studio-cms/internal/store"
)

// ErrorHandler maps domain errors to HTTP responses. Store and auth errors
// reach the operator as-is; nothing here retries or resolves conflicts.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var missing *content.MissingFieldError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": missing.Fields,
		})
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, store.ErrUnauthorized), errors.Is(err, auth.ErrAuthenticationFailed):
		code = fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrUnauthorized):
		code = fiber.StatusForbidden
	case errors.Is(err, store.ErrVersionConflict), errors.Is(err, store.ErrAlreadyExists):
		code = fiber.StatusConflict
	case errors.Is(err, store.ErrTransient):
		code = fiber.StatusBadGateway
	case errors.Is(err, frontmatter.ErrMalformed):
		code = fiber.StatusInternalServerError
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("request failed")

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = http.StatusText(code)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
