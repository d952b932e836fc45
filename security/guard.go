package security

import (
	"errors"

	"github.com/biosecret/go-todo/models"
)

var ErrPermissionDenied = errors.New("not enough permission")

// Authorize chỉ cho phép chủ sở hữu thao tác trên tài nguyên của mình.
func Authorize(ownerID int64, current models.User) error {
	if current.ID != ownerID {
		return ErrPermissionDenied
	}
	return nil
}
