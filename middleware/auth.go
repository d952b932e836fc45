package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/security"
)

// CredentialsMessage là thông báo duy nhất cho mọi lỗi xác thực token.
const CredentialsMessage = "Could not validade credentials"

const (
	currentUserKey = "current_user"
	accessTokenKey = "access_token"
)

// RequireUser xác thực access token và lưu user hiện tại vào context
func RequireUser(resolver *security.Resolver, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, CredentialsMessage)
		}

		user, err := resolver.Resolve(c.UserContext(), tokenString, now())
		if err != nil {
			if errors.Is(err, security.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, CredentialsMessage)
			}
			return err
		}

		c.Locals(currentUserKey, user)
		c.Locals(accessTokenKey, tokenString)
		return c.Next()
	}
}

// bearerToken tách "<scheme> <token>"; scheme không phân biệt hoa thường.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser trả về user do RequireUser lưu.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals(currentUserKey).(models.User)
	return user
}

// AccessToken trả về bearer token mà RequireUser đã chấp nhận.
func AccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(accessTokenKey).(string)
	return token
}
