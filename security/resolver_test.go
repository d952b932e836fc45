package security

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-todo/models"
)

func TestResolve(t *testing.T) {
	tokens := testTokens(30 * time.Minute)
	alice := models.User{ID: 1, Username: "alice", Email: "alice@x.com"}
	r := NewResolver(tokens, newFakeUsers(alice), zerolog.Nop())

	tok, err := tokens.Issue(alice.Email, t0)
	require.NoError(t, err)

	user, err := r.Resolve(context.Background(), tok.Value, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alice, user)
}

func TestResolveCollapsesFailures(t *testing.T) {
	tokens := testTokens(30 * time.Minute)
	alice := models.User{ID: 1, Username: "alice", Email: "alice@x.com"}
	r := NewResolver(tokens, newFakeUsers(alice), zerolog.Nop())

	valid, err := tokens.Issue(alice.Email, t0)
	require.NoError(t, err)
	ghost, err := tokens.Issue("email@invalido.com", t0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{"missing token", "", t0},
		{"garbage token", "token-invalido", t0},
		{"bad signature", valid.Value[:len(valid.Value)-4] + "AAAA", t0},
		{"expired token", valid.Value, t0.Add(31 * time.Minute)},
		{"unknown user", ghost.Value, t0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.token, tt.now)
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, ErrUnauthorized, err)
		})
	}
}

func TestResolveSurfacesStoreFailure(t *testing.T) {
	tokens := testTokens(30 * time.Minute)
	users := newFakeUsers()
	users.err = errStoreDown
	r := NewResolver(tokens, users, zerolog.Nop())

	tok, err := tokens.Issue("alice@x.com", t0)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), tok.Value, t0)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
