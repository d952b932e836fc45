package models

import "time"

// TodoState là trạng thái của một todo
type TodoState string

const (
	TodoStateDraft TodoState = "draft"
	TodoStateTodo  TodoState = "todo"
	TodoStateDoing TodoState = "doing"
	TodoStateDone  TodoState = "done"
)

// Valid kiểm tra s có phải trạng thái hợp lệ.
func (s TodoState) Valid() bool {
	switch s {
	case TodoStateDraft, TodoStateTodo, TodoStateDoing, TodoStateDone:
		return true
	}
	return false
}

// Todo là công việc thuộc về đúng một user.
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       TodoState  `json:"state"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TodoSchema là payload khi tạo todo.
type TodoSchema struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	State       TodoState `json:"state" validate:"required,oneof=draft todo doing done"`
}

// TodoUpdate là cập nhật từng phần; chỉ áp dụng các trường có mặt.
type TodoUpdate struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	State       Optional[TodoState] `json:"state"`
}

// Empty cho biết không có trường nào được gửi.
func (u TodoUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.State.Set
}

// ApplyTo chép các trường có mặt vào t, trả về true nếu có thay đổi.
func (u TodoUpdate) ApplyTo(t *Todo) bool {
	changed := u.Title.ApplyTo(&t.Title)
	changed = u.Description.ApplyTo(&t.Description) || changed
	changed = u.State.ApplyTo(&t.State) || changed
	return changed
}

type TodoList struct {
	Todos []Todo `json:"todos"`
}
