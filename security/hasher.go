package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// Hasher băm mật khẩu một chiều và kiểm tra mật khẩu với giá trị đã băm.
// Verify không bao giờ trả lỗi: sai mật khẩu hoặc digest lạ đều là false.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// ErrPasswordTooLong: bcrypt chỉ nhận tối đa 72 byte.
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func (h BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(plaintext string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}
	digest, err := argon2id.CreateHash(plaintext, params)
	if err != nil {
		return "", fmt.Errorf("argon2id: %w", err)
	}
	return digest, nil
}

func (h Argon2idHasher) Verify(plaintext, digest string) bool {
	match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
	return err == nil && match
}

// multiHasher hashes with the configured algorithm but accepts digests of
// every supported one, picked by prefix.
type multiHasher struct {
	primary  Hasher
	bcrypt   Hasher
	argon2id Hasher
}

// NewHasher trả về Hasher theo tên thuật toán (bcrypt hoặc argon2id).
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	h := &multiHasher{
		bcrypt:   BcryptHasher{Cost: bcryptCost},
		argon2id: Argon2idHasher{Params: argon2id.DefaultParams},
	}
	switch strings.ToLower(algorithm) {
	case HasherBcrypt:
		h.primary = h.bcrypt
	case HasherArgon2id:
		h.primary = h.argon2id
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
	return h, nil
}

func (h *multiHasher) Hash(plaintext string) (string, error) {
	return h.primary.Hash(plaintext)
}

func (h *multiHasher) Verify(plaintext, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return h.argon2id.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2"):
		return h.bcrypt.Verify(plaintext, digest)
	}
	return false
}
