package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/models"
)

// ErrUnauthorized gom mọi lỗi xác thực token thành một lỗi duy nhất,
// để client không biết được token sai hay user không còn tồn tại.
var ErrUnauthorized = errors.New("could not validate credentials")

// UserFinder tìm user theo email (subject của token).
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Resolver tìm user mà bearer token được cấp cho.
type Resolver struct {
	tokens *TokenService
	users  UserFinder
	log    zerolog.Logger
}

func NewResolver(tokens *TokenService, users UserFinder, log zerolog.Logger) *Resolver {
	return &Resolver{tokens: tokens, users: users, log: log}
}

// Resolve trả ErrUnauthorized cho mọi token sai hoặc user không tồn tại.
// Chỉ lỗi store khác "not found" mới được trả nguyên.
func (r *Resolver) Resolve(ctx context.Context, tokenString string, now time.Time) (models.User, error) {
	subject, err := r.tokens.Validate(tokenString, now)
	if err != nil {
		r.log.Debug().Err(err).Msg("rejected bearer token")
		return models.User{}, ErrUnauthorized
	}

	user, err := r.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			r.log.Debug().Str("subject", subject).Msg("token subject has no user")
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, fmt.Errorf("resolve user: %w", err)
	}

	return user, nil
}
