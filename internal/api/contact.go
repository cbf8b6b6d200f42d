package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nordai-studio/studio-cms/internal/logger"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required"`
}

// Contact handles POST /api/v1/contact. Submissions are logged only; email
// delivery is a separate integration.
func (h *Handlers) Contact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}

	logger.Get().Info().
		Str("name", req.Name).
		Str("email", req.Email).
		Str("company", req.Company).
		Str("message", req.Message).
		Time("received_at", time.Now()).
		Msg("contact form submission")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Thank you for your message! We will get back to you soon.",
	})
}
