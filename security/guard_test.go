package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biosecret/go-todo/models"
)

func TestAuthorize(t *testing.T) {
	for _, userID := range []int64{0, 1, 2, 42} {
		for _, ownerID := range []int64{0, 1, 2, 42} {
			err := Authorize(ownerID, models.User{ID: userID})
			if userID == ownerID {
				assert.NoError(t, err, "user %d owner %d", userID, ownerID)
			} else {
				assert.ErrorIs(t, err, ErrPermissionDenied, "user %d owner %d", userID, ownerID)
			}
		}
	}
}
