package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/security"
)

// RegisterHandler đăng ký người dùng mới
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.UserSchema true "New user"
// @Success 201 {object} models.UserPublic
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /users/ [post]
func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	var in models.UserSchema
	if err := h.parseBody(c, &in); err != nil {
		return err
	}
	ctx := c.UserContext()

	// username được kiểm tra trước email
	if _, err := h.users.FindByUsername(ctx, in.Username); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, msgUsernameExists)
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	if _, err := h.users.FindByEmail(ctx, in.Email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, msgEmailExists)
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	digest, err := h.hashPassword(in.Password)
	if err != nil {
		return err
	}

	user := models.User{Username: in.Username, Email: in.Email, Password: digest}
	if err := h.users.Save(ctx, &user, h.now()); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return fiber.NewError(fiber.StatusConflict, msgUserConflict)
		}
		return err
	}

	h.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

// HandleAllUsers lấy danh sách users
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param skip query int false "Rows to skip" default(0)
// @Success 200 {object} models.UserList
// @Router /users/ [get]
func (h *Handler) HandleAllUsers(c *fiber.Ctx) error {
	limit, skip := defaultUsersLimit, 0
	if n, err := optionalInt(c, "limit"); err != nil {
		return err
	} else if n != nil {
		limit = *n
	}
	if n, err := optionalInt(c, "skip"); err != nil {
		return err
	} else if n != nil {
		skip = *n
	}

	users, err := h.users.List(c.UserContext(), limit, skip)
	if err != nil {
		return err
	}

	out := models.UserList{Users: make([]models.UserPublic, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, u.Public())
	}
	return c.JSON(out)
}

// HandleGetOneUser lấy một user theo ID
// @Summary Get a user
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserPublic
// @Failure 404 {object} ErrorResponse
// @Router /users/{user_id} [get]
func (h *Handler) HandleGetOneUser(c *fiber.Ctx) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(c.UserContext(), id)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgUserNotFound)
	} else if err != nil {
		return err
	}
	return c.JSON(user.Public())
}

// HandleUpdateUser thay toàn bộ thông tin của chính user đang đăng nhập
// @Summary Replace the current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param user body models.UserSchema true "User"
// @Success 200 {object} models.UserPublic
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{user_id} [put]
func (h *Handler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)
	if err := security.Authorize(id, current); err != nil {
		return fiber.NewError(fiber.StatusForbidden, msgNoPermission)
	}

	var in models.UserSchema
	if err := h.parseBody(c, &in); err != nil {
		return err
	}

	digest, err := h.hashPassword(in.Password)
	if err != nil {
		return err
	}
	current.Username = in.Username
	current.Email = in.Email
	current.Password = digest

	if err := h.users.Save(c.UserContext(), &current, h.now()); err != nil {
		switch {
		case errors.Is(err, database.ErrConflict):
			return fiber.NewError(fiber.StatusConflict, msgUserConflict)
		case errors.Is(err, database.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, msgUserNotFound)
		}
		return err
	}

	return c.JSON(current.Public())
}

// HandleDeleteUser xóa chính user đang đăng nhập cùng các todo của họ
// @Summary Delete the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Message
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{user_id} [delete]
func (h *Handler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)
	if err := security.Authorize(id, current); err != nil {
		return fiber.NewError(fiber.StatusForbidden, msgNoPermission)
	}

	if err := h.users.Delete(c.UserContext(), current.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, msgUserNotFound)
		}
		return err
	}

	h.log.Info().Int64("user_id", current.ID).Msg("user deleted")
	return c.JSON(models.Message{Message: msgUserDeleted})
}

// hashPassword băm mật khẩu; mật khẩu quá dài với bcrypt là lỗi 422.
func (h *Handler) hashPassword(plaintext string) (string, error) {
	digest, err := h.hasher.Hash(plaintext)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return "", fiber.NewError(fiber.StatusUnprocessableEntity, "password: must be at most 72 bytes")
	}
	return digest, err
}
