package models

import "time"

// User là tài khoản người dùng. Password luôn là giá trị đã băm.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Public chỉ giữ lại các trường định danh.
func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSchema là payload khi đăng ký hoặc thay thông tin user.
type UserSchema struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPublic struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserList struct {
	Users []UserPublic `json:"users"`
}

type Message struct {
	Message string `json:"message"`
}

// LoginForm theo form OAuth2 password; Username chứa email.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
