package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/handlers"
)

// SetupRoutes gắn các route; requireUser bảo vệ các route cần đăng nhập.
func SetupRoutes(app *fiber.App, h *handlers.Handler, requireUser fiber.Handler) {
	app.Get("/", h.Root)
	app.Get("/health", h.HandleHealthCheck)

	users := app.Group("/users")
	users.Post("/", h.RegisterHandler)
	users.Get("/", h.HandleAllUsers)
	users.Get("/:user_id", h.HandleGetOneUser)
	users.Put("/:user_id", requireUser, h.HandleUpdateUser)
	users.Delete("/:user_id", requireUser, h.HandleDeleteUser)

	auth := app.Group("/auth")
	auth.Post("/token", h.LoginHandler)
	auth.Post("/refresh_token", requireUser, h.RefreshTokenHandler)

	todos := app.Group("/todos", requireUser)
	todos.Post("/", h.HandleCreateTodo)
	todos.Get("/", h.HandleAllTodos)
	todos.Get("/events", h.StreamTodoEvents)
	todos.Patch("/:todo_id", h.HandleUpdateTodo)
	todos.Delete("/:todo_id", h.HandleDeleteTodo)
}
