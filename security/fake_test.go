package security

import (
	"context"
	"errors"
	"time"

	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/models"
)

var t0 = time.Date(2024, 7, 3, 22, 40, 0, 0, time.UTC)

type fakeUsers struct {
	byEmail map[string]models.User
	err     error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return u, nil
}

var errStoreDown = errors.New("connection refused")

func testTokens(ttl time.Duration) *TokenService {
	s, err := NewTokenService(TokenConfig{
		SecretKey: []byte("test-secret"),
		Algorithm: "HS256",
		TTL:       ttl,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// flipBase64 returns a base64url character different from b.
func flipBase64(b byte) byte {
	if b == 'A' {
		return 'B'
	}
	return 'A'
}
