package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
)

// Root godoc
// @Summary Greeting
// @Tags root
// @Produce json
// @Success 200 {object} models.Message
// @Router / [get]
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(models.Message{Message: "Olá Mundo!"})
}

// HandleHealthCheck kiểm tra kết nối database
// @Summary Health check
// @Tags root
// @Produce json
// @Success 200
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *Handler) HandleHealthCheck(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.UserContext()); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
