package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/security"
)

// LoginHandler đổi email + mật khẩu lấy access token
// @Summary Log in with email and password
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/token [post]
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var form models.LoginForm
	if err := h.parseBody(c, &form); err != nil {
		return err
	}

	token, err := h.auth.Login(c.UserContext(), form.Username, form.Password, h.now())
	if err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusBadRequest, msgIncorrectLogin)
		}
		return err
	}

	return c.JSON(tokenResponse(token))
}

// RefreshTokenHandler cấp token mới cho token còn hạn
// @Summary Refresh an access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh_token [post]
func (h *Handler) RefreshTokenHandler(c *fiber.Ctx) error {
	token, err := h.tokens.Refresh(middleware.AccessToken(c), h.now())
	if err != nil {
		h.log.Debug().Err(err).Msg("refresh rejected")
		return fiber.NewError(fiber.StatusUnauthorized, middleware.CredentialsMessage)
	}
	return c.JSON(tokenResponse(token))
}

func tokenResponse(t security.Token) models.TokenResponse {
	return models.TokenResponse{AccessToken: t.Value, TokenType: tokenTypeBearer}
}
