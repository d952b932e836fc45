package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biosecret/go-todo/database"
)

// ErrInvalidCredentials dùng chung cho email không tồn tại và sai mật khẩu.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Authenticator đổi email + mật khẩu lấy access token.
type Authenticator struct {
	users  UserFinder
	hasher Hasher
	tokens *TokenService
}

func NewAuthenticator(users UserFinder, hasher Hasher, tokens *TokenService) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens}
}

func (a *Authenticator) Login(ctx context.Context, email, password string, now time.Time) (Token, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("login: %w", err)
	}

	if !a.hasher.Verify(password, user.Password) {
		return Token{}, ErrInvalidCredentials
	}

	return a.tokens.Issue(user.Email, now)
}
