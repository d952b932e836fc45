package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/router"
	"github.com/biosecret/go-todo/security"
)

type options struct {
	now       func() time.Time
	publisher events.Publisher
	hub       *events.Hub
}

type Option func(*options)

// WithClock thay đồng hồ dùng cho token và timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPublisher thêm một publisher nhận mọi todo event ngoài hub trong process.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithHub dùng hub có sẵn để caller có thể đóng các stream SSE.
func WithHub(hub *events.Hub) Option {
	return func(o *options) { o.hub = hub }
}

// New dựng ứng dụng Fiber với đầy đủ middleware và route.
func New(settings *config.Settings, db *database.DB, log zerolog.Logger, opts ...Option) (*fiber.App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	hasher, err := security.NewHasher(settings.PasswordHasher, settings.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := security.NewTokenService(settings.TokenConfig())
	if err != nil {
		return nil, err
	}

	hub := o.hub
	if hub == nil {
		hub = events.NewHub(16)
	}
	var publisher events.Publisher = hub
	if o.publisher != nil {
		publisher = events.Fanout{hub, o.publisher}
	}

	h := handlers.New(handlers.Config{
		DB:        db,
		Hasher:    hasher,
		Tokens:    tokens,
		Publisher: publisher,
		Hub:       hub,
		Logger:    log,
		Clock:     o.now,
	})
	resolver := security.NewResolver(tokens, h.Users(), log)

	app := fiber.New(fiber.Config{
		AppName:      "go-todo",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: settings.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Đính kèm middleware để xử lý lỗi và ghi log
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		Output: log,
	}))

	router.SetupRoutes(app, h, middleware.RequireUser(resolver, o.now))
	config.AddSwaggerRoutes(app)

	return app, nil
}

// SetupAndRunApp khởi động ứng dụng Fiber
func SetupAndRunApp() error {
	// Load biến môi trường từ file .env
	if err := config.LoadENV(); err != nil {
		return err
	}
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := NewLogger(settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, settings.DatabaseURL)
	if err != nil {
		return err
	}
	// Đảm bảo kết nối với cơ sở dữ liệu được đóng sau khi ứng dụng kết thúc
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()
	log.Info().Str("dialect", string(db.Dialect)).Msg("connected to database")

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	hub := events.NewHub(16)
	opts := []Option{WithHub(hub)}
	if settings.MQTTURL != "" {
		mq, err := events.ConnectMQTT(settings.MQTTURL, log)
		if err != nil {
			return err
		}
		defer mq.Close()
		opts = append(opts, WithPublisher(mq))
	}

	app, err := New(settings, db, log, opts...)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		errc <- app.Listen(":" + settings.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		// stream SSE giữ kết nối mở, phải đóng trước khi chờ request xong
		hub.Close()
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
