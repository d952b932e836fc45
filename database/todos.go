package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/biosecret/go-todo/models"
)

// TodoFilter lọc danh sách todo. Các trường nil bị bỏ qua.
type TodoFilter struct {
	Title       string
	Description string
	State       models.TodoState
	Offset      *int
	Limit       *int
}

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = "id, title, description, state, user_id, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (models.Todo, error) {
	var (
		t       models.Todo
		updated sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.State, &t.UserID, &t.CreatedAt, &updated); err != nil {
		return models.Todo{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = nullTime(updated)
	return t, nil
}

// Save thêm mới t khi t.ID bằng 0, ngược lại cập nhật dòng thuộc t.UserID
// và ghi updated_at.
func (r *TodoRepository) Save(ctx context.Context, t *models.Todo, now time.Time) error {
	stamp := timestamp(now)

	if t.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO todos (title, description, state, user_id, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			t.Title, t.Description, t.State, t.UserID, stamp,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
		t.CreatedAt = stamp
		t.UpdatedAt = nil
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE todos SET title = $1, description = $2, state = $3, updated_at = $4 WHERE id = $5 AND user_id = $6",
		t.Title, t.Description, t.State, stamp, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	t.UpdatedAt = &stamp
	return nil
}

// FindForUser trả về todo chỉ khi nó thuộc về userID.
func (r *TodoRepository) FindForUser(ctx context.Context, userID, id int64) (models.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = $1 AND user_id = $2", id, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("select todo: %w", err)
	}
	return t, nil
}

// List trả về các todo của userID khớp với f, theo thứ tự id.
func (r *TodoRepository) List(ctx context.Context, userID int64, f TodoFilter) ([]models.Todo, error) {
	var (
		sb   strings.Builder
		args = []any{userID}
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString("SELECT " + todoColumns + " FROM todos WHERE user_id = $1")
	if f.Title != "" {
		sb.WriteString(" AND title LIKE '%' || " + arg(f.Title) + " || '%'")
	}
	if f.Description != "" {
		sb.WriteString(" AND description LIKE '%' || " + arg(f.Description) + " || '%'")
	}
	if f.State != "" {
		sb.WriteString(" AND state = " + arg(f.State))
	}
	sb.WriteString(" ORDER BY id")

	switch {
	case f.Limit != nil:
		sb.WriteString(" LIMIT " + arg(*f.Limit))
	case f.Offset != nil && r.db.Dialect == DialectSQLite:
		// sqlite không cho OFFSET đứng một mình
		sb.WriteString(" LIMIT -1")
	}
	if f.Offset != nil {
		sb.WriteString(" OFFSET " + arg(*f.Offset))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// Delete xóa todo của userID.
func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return expectOne(res)
}
