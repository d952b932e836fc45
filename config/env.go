package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/biosecret/go-todo/security"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Settings là cấu hình của cả process, đọc một lần khi khởi động.
type Settings struct {
	Env                      string `env:"ENV" env-default:"dev"`
	Port                     string `env:"PORT" env-default:"3000"`
	DatabaseURL              string `env:"DATABASE_URL" env-required:"true"`
	SecretKey                string `env:"SECRET_KEY" env-required:"true"`
	Algorithm                string `env:"ALGORITHM" env-required:"true"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" env-required:"true"`
	PasswordHasher           string `env:"PASSWORD_HASHER" env-default:"bcrypt"`
	BcryptCost               int    `env:"BCRYPT_COST" env-default:"10"`
	MQTTURL                  string `env:"MQTT_URL"`
	CORSAllowOrigins         string `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
	LogLevel                 string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadENV nạp biến môi trường từ file .env nếu có
func LoadENV() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load đọc Settings từ biến môi trường và kiểm tra tính hợp lệ.
func Load() (*Settings, error) {
	s := new(Settings)
	if err := cleanenv.ReadEnv(s); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	var errs []error

	switch s.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown ENV %q", s.Env))
	}
	if s.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if s.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", s.AccessTokenExpireMinutes))
	}
	if _, err := security.NewTokenService(s.TokenConfig()); err != nil {
		errs = append(errs, err)
	}
	if _, err := security.NewHasher(s.PasswordHasher, s.BcryptCost); err != nil {
		errs = append(errs, err)
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	return errors.Join(errs...)
}

// TokenConfig trả về cấu hình bất biến cho TokenService.
func (s *Settings) TokenConfig() security.TokenConfig {
	return security.TokenConfig{
		SecretKey: []byte(s.SecretKey),
		Algorithm: strings.ToUpper(s.Algorithm),
		TTL:       time.Duration(s.AccessTokenExpireMinutes) * time.Minute,
	}
}
