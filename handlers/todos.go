package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/models"
)

// HandleCreateTodo tạo mới một Todo cho user hiện tại
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body models.TodoSchema true "Todo"
// @Success 201 {object} models.Todo
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /todos/ [post]
func (h *Handler) HandleCreateTodo(c *fiber.Ctx) error {
	var in models.TodoSchema
	if err := h.parseBody(c, &in); err != nil {
		return err
	}
	current := middleware.CurrentUser(c)

	todo := models.Todo{
		Title:       in.Title,
		Description: in.Description,
		State:       in.State,
		UserID:      current.ID,
	}
	if err := h.todos.Save(c.UserContext(), &todo, h.now()); err != nil {
		return err
	}

	h.publish(events.TodoCreated, todo)
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// HandleAllTodos lấy các Todo của user hiện tại, có lọc và phân trang
// @Summary List the current user's todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param title query string false "Title contains"
// @Param description query string false "Description contains"
// @Param state query string false "State" Enums(draft, todo, doing, done)
// @Param offset query int false "Rows to skip"
// @Param limit query int false "Page size"
// @Success 200 {object} models.TodoList
// @Failure 401 {object} ErrorResponse
// @Router /todos/ [get]
func (h *Handler) HandleAllTodos(c *fiber.Ctx) error {
	filter := database.TodoFilter{
		Title:       c.Query("title"),
		Description: c.Query("description"),
		State:       models.TodoState(c.Query("state")),
	}
	if filter.State != "" && !filter.State.Valid() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "state: input should be one of draft, todo, doing, done")
	}

	var err error
	if filter.Offset, err = optionalInt(c, "offset"); err != nil {
		return err
	}
	if filter.Limit, err = optionalInt(c, "limit"); err != nil {
		return err
	}

	todos, err := h.todos.List(c.UserContext(), middleware.CurrentUser(c).ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(models.TodoList{Todos: todos})
}

// HandleUpdateTodo chỉ cập nhật các trường có trong body
// @Summary Update some fields of a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo_id path int true "Todo ID"
// @Param todo body models.TodoUpdate true "Fields to change"
// @Success 200 {object} models.Todo
// @Failure 404 {object} ErrorResponse
// @Router /todos/{todo_id} [patch]
func (h *Handler) HandleUpdateTodo(c *fiber.Ctx) error {
	id, err := pathID(c, "todo_id")
	if err != nil {
		return err
	}

	var patch models.TodoUpdate
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, msgInvalidBody)
	}
	if patch.State.Set && !patch.State.Value.Valid() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "state: input should be one of draft, todo, doing, done")
	}

	ctx := c.UserContext()
	current := middleware.CurrentUser(c)

	todo, err := h.todos.FindForUser(ctx, current.ID, id)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgTaskNotFound)
	} else if err != nil {
		return err
	}

	if patch.ApplyTo(&todo) {
		if err := h.todos.Save(ctx, &todo, h.now()); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, msgTaskNotFound)
			}
			return err
		}
		h.publish(events.TodoUpdated, todo)
	}

	return c.JSON(todo)
}

// HandleDeleteTodo xóa một Todo của user hiện tại
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param todo_id path int true "Todo ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} ErrorResponse
// @Router /todos/{todo_id} [delete]
func (h *Handler) HandleDeleteTodo(c *fiber.Ctx) error {
	id, err := pathID(c, "todo_id")
	if err != nil {
		return err
	}
	current := middleware.CurrentUser(c)

	if err := h.todos.Delete(c.UserContext(), current.ID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, msgTaskNotFound)
		}
		return err
	}

	h.publish(events.TodoDeleted, models.Todo{ID: id, UserID: current.ID})
	return c.JSON(models.Message{Message: msgTaskDeleted})
}

func (h *Handler) publish(kind string, todo models.Todo) {
	ev := events.Event{
		Type:   kind,
		UserID: todo.UserID,
		TodoID: todo.ID,
		At:     h.now().UTC(),
	}
	if kind != events.TodoDeleted {
		ev.Todo = &todo
	}
	h.events.Publish(ev)
}

// optionalInt đọc query số nguyên không âm; vắng mặt thì trả nil.
func optionalInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, name+": input should be a non-negative integer")
	}
	return &n, nil
}
