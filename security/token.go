package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrSubjectMissing        = errors.New("token subject missing")
)

// TokenConfig được nạp một lần khi khởi động và không đổi sau đó.
type TokenConfig struct {
	SecretKey []byte
	Algorithm string
	TTL       time.Duration
}

// Token là access token đã ký cùng subject và thời điểm hết hạn.
type Token struct {
	Value     string
	Subject   string
	ExpiresAt time.Time
}

// TokenService cấp và kiểm tra JWT ký HMAC, không lưu trạng thái.
type TokenService struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService kiểm tra cấu hình và tạo TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("token secret key is empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	return &TokenService{
		key:    cfg.SecretKey,
		method: method,
		ttl:    cfg.TTL,
	}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue tạo token cho subject, hết hạn sau ttl kể từ now.
// exp là NumericDate nguyên giây nên được làm tròn lên, không bao giờ sớm hơn now+ttl.
func (s *TokenService) Issue(subject string, now time.Time) (Token, error) {
	return s.issue(subject, now, s.expiry(now))
}

func (s *TokenService) issue(subject string, now, expiresAt time.Time) (Token, error) {
	if subject == "" {
		return Token{}, ErrSubjectMissing
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{
		Value:     signed,
		Subject:   subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// expiry làm tròn now+ttl lên giây kế tiếp.
func (s *TokenService) expiry(now time.Time) time.Time {
	exp := now.Add(s.ttl)
	if whole := exp.Truncate(time.Second); !whole.Equal(exp) {
		return whole.Add(time.Second)
	}
	return exp
}

// Validate trả về subject nếu token hợp lệ tại thời điểm now.
func (s *TokenService) Validate(tokenString string, now time.Time) (string, error) {
	claims, err := s.parse(tokenString, now)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Refresh cấp token mới cho subject của một token còn hạn. Hạn mới luôn
// muộn hơn hạn cũ, kể cả khi refresh trong cùng giây với lúc cấp.
func (s *TokenService) Refresh(tokenString string, now time.Time) (Token, error) {
	claims, err := s.parse(tokenString, now)
	if err != nil {
		return Token{}, err
	}

	exp := s.expiry(now)
	if prev := claims.ExpiresAt.Time; !exp.After(prev) {
		exp = prev.Add(time.Second)
	}
	return s.issue(claims.Subject, now, exp)
}

func (s *TokenService) parse(tokenString string, now time.Time) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return nil, ErrSubjectMissing
	}
	return claims, nil
}
