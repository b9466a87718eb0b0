package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"portfolio/database/postgres"
	authHandler "portfolio/internal/api/auth/handler"
	authRepository "portfolio/internal/api/auth/repository"
	authService "portfolio/internal/api/auth/service"
	blogsHandler "portfolio/internal/api/blog/handler"
	blogsRepository "portfolio/internal/api/blog/repository"
	blogsService "portfolio/internal/api/blog/service"
	contactHandler "portfolio/internal/api/contact/handler"
	contactRepository "portfolio/internal/api/contact/repository"
	contactService "portfolio/internal/api/contact/service"
	cvHandler "portfolio/internal/api/cv/handler"
	cvRepository "portfolio/internal/api/cv/repository"
	cvService "portfolio/internal/api/cv/service"
	dashboardHandler "portfolio/internal/api/dashboard/handler"
	dashboardRepository "portfolio/internal/api/dashboard/repository"
	dashboardService "portfolio/internal/api/dashboard/service"
	"portfolio/internal/api/portfolio"
	portfolioHandler "portfolio/internal/api/portfolio/handler"
	portfolioService "portfolio/internal/api/portfolio/service"
	"portfolio/internal/middleware"
	"portfolio/pkg/bcrypt"
	"portfolio/pkg/redis"
	"portfolio/pkg/s3"
	"portfolio/pkg/session"
	"portfolio/pkg/smtp"
	"portfolio/pkg/upload"
	"portfolio/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	hub         *session.Hub
	smtpMailer  smtp.ItfSmtp
	s3Client    s3.ItfS3
	uploader    *upload.Uploader
	stopRelay   context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to postgres and, unless DB_AUTO_MIGRATE is off, applies pending migrations.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db

		if !postgres.AutoMigrate() {
			return nil
		}
		if err := postgres.Migrate(context.Background(), db, goose.DialectPostgres, s.log); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSessionHub(hub *session.Hub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.redisServer == nil || s.hub == nil {
			return fmt.Errorf("redis and session hub must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.redisServer, s.hub)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		s.uploader = upload.New(client, s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.redisServer, s.hub, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	if email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && password != "" {
		if err := authServices.EnsureAdmin(context.Background(), email, password); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	// Blog
	blogsRepo := blogsRepository.New(s.db, s.log)
	blogsServices := blogsService.NewBlogsService(s.log, blogsRepo, s.uploader, envOr("S3_BLOG_IMAGES_BUCKET", "blog-images"), s.utils)
	blogsHandlers := blogsHandler.New(s.log, s.validator, s.middleware, blogsServices)

	// CV
	cvRepo := cvRepository.New(s.db, s.log)
	var cvOpts []cvService.Option
	if strings.EqualFold(envOr("S3_CV_FILES_PRIVATE", "false"), "true") {
		ttl, err := time.ParseDuration(envOr("S3_PRESIGN_TTL", "15m"))
		if err != nil {
			return fmt.Errorf("invalid S3_PRESIGN_TTL: %w", err)
		}
		cvOpts = append(cvOpts, cvService.WithPresignedLinks(ttl))
	}
	cvServices := cvService.New(s.log, cvRepo, s.s3Client, s.uploader, envOr("S3_CV_FILES_BUCKET", "cv-files"), s.utils, cvOpts...)
	cvHandlers := cvHandler.New(s.log, s.validator, s.middleware, cvServices)

	// Contact inbox
	contactRepo := contactRepository.New(s.db, s.log)
	contactServices := contactService.New(s.log, contactRepo, s.smtpMailer, os.Getenv("CONTACT_NOTIFY_EMAIL"), s.utils)
	contactHandlers := contactHandler.New(s.log, s.validator, s.middleware, contactServices)

	// Dashboard
	dashboardRepo := dashboardRepository.New(s.db, s.log)
	dashboardServices := dashboardService.New(s.log, dashboardRepo)
	dashboardHandlers := dashboardHandler.New(s.log, s.middleware, dashboardServices)

	// Portfolio content
	content, err := portfolio.DefaultContent()
	if err != nil {
		return fmt.Errorf("failed to load portfolio content: %w", err)
	}
	portfolioHandlers := portfolioHandler.New(s.log, s.middleware, portfolioService.New(content))

	s.handlers = append(s.handlers, authHandlers, blogsHandlers, cvHandlers, contactHandlers, dashboardHandlers, portfolioHandlers)
	return nil
}

func (s *Server) Run() error {
	s.engine.Use(recover.New())
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: envOr("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	s.setupHealthCheck()

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
	s.engine.Use(notFound)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopRelay = cancel
	go s.relaySessionEvents(ctx)

	port := envOr("APP_PORT", "3000")
	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown drains in-flight requests, then releases the session relay and backing clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.stopRelay != nil {
		s.stopRelay()
	}
	s.middleware.Close()

	if s.redisServer != nil {
		if cerr := s.redisServer.Close(); cerr != nil {
			s.log.Warnf("Failed to close redis: %v", cerr)
		}
	}
	if cerr := s.db.Close(); cerr != nil {
		s.log.Warnf("Failed to close database: %v", cerr)
	}

	return err
}

// relaySessionEvents feeds sign-in and sign-out events published by other
// instances into the local hub.
func (s *Server) relaySessionEvents(ctx context.Context) {
	raw, closeSub := s.redisServer.Subscribe(ctx, session.Channel)
	defer func() {
		if err := closeSub(); err != nil {
			s.log.Warnf("Failed to close session subscription: %v", err)
		}
	}()

	events := make(chan session.Event)
	go func() {
		defer close(events)
		for payload := range raw {
			e, err := session.Decode(payload)
			if err != nil {
				s.log.WithFields(logrus.Fields{
					"error": err.Error(),
				}).Warn("Dropping malformed session event")
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	s.hub.Relay(ctx, events)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
