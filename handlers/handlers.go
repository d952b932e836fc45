package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/security"
)

const (
	msgIncorrectLogin  = "Incorrect username or passwod"
	msgNoPermission    = "Not enough permission"
	msgUserNotFound    = "User not found"
	msgTaskNotFound    = "Task not found."
	msgUsernameExists  = "Username already exists."
	msgEmailExists     = "Email already exists."
	msgUserConflict    = "Username or Email already exists"
	msgUserDeleted     = "User deleted"
	msgTaskDeleted     = "Task has been deleted sucessfully"
	msgInvalidBody     = "Invalid request body"
	tokenTypeBearer    = "Bearer"
	defaultUsersLimit  = 10
	defaultEventBuffer = 16
)

// Config gom các phụ thuộc của Handler.
type Config struct {
	DB        *database.DB
	Hasher    security.Hasher
	Tokens    *security.TokenService
	Publisher events.Publisher
	Hub       *events.Hub
	Logger    zerolog.Logger
	Clock     func() time.Time
}

// Handler chứa các route handler của API.
type Handler struct {
	db       *database.DB
	users    *database.UserRepository
	todos    *database.TodoRepository
	hasher   security.Hasher
	tokens   *security.TokenService
	auth     *security.Authenticator
	events   events.Publisher
	hub      *events.Hub
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func New(cfg Config) *Handler {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Hub == nil {
		cfg.Hub = events.NewHub(defaultEventBuffer)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = cfg.Hub
	}

	users := database.NewUserRepository(cfg.DB)
	return &Handler{
		db:       cfg.DB,
		users:    users,
		todos:    database.NewTodoRepository(cfg.DB),
		hasher:   cfg.Hasher,
		tokens:   cfg.Tokens,
		auth:     security.NewAuthenticator(users, cfg.Hasher, cfg.Tokens),
		events:   cfg.Publisher,
		hub:      cfg.Hub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      cfg.Logger,
		now:      cfg.Clock,
	}
}

// Users trả về user store để middleware xác thực dùng chung.
func (h *Handler) Users() *database.UserRepository {
	return h.users
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ErrorHandler trả mọi lỗi về dạng {"detail": "..."}.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := http.StatusText(code)

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if code == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(code).JSON(ErrorResponse{Detail: message})
	}
}

// parseBody đọc body (JSON hoặc form) vào v rồi kiểm tra các tag validate.
func (h *Handler) parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, msgInvalidBody)
	}
	return h.check(v)
}

func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fiber.NewError(fiber.StatusUnprocessableEntity, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + ": field required"
	case "email":
		return field + ": value is not a valid email address"
	case "oneof":
		return fmt.Sprintf("%s: input should be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s: failed on %s", field, fe.Tag())
}

// pathID đọc tham số id kiểu số nguyên từ path.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, name+": input should be a valid integer")
	}
	return int64(id), nil
}
