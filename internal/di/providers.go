package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/immobarok/mailbox-backend/internal/app"
	"github.com/immobarok/mailbox-backend/internal/config"
	"github.com/immobarok/mailbox-backend/internal/database"
	"github.com/immobarok/mailbox-backend/internal/http/handler"
	"github.com/immobarok/mailbox-backend/internal/http/middleware"
	"github.com/immobarok/mailbox-backend/internal/http/router"
	"github.com/immobarok/mailbox-backend/internal/observability"
	"github.com/immobarok/mailbox-backend/internal/repository"
	"github.com/immobarok/mailbox-backend/internal/security"
	"github.com/immobarok/mailbox-backend/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RuntimeInfraSet = wire.NewSet(provideOpenDB)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewPostRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
	provideTokenIssuer,
)

var ServiceSet = wire.NewSet(
	provideMailer,
	provideAuthService,
	provideUserService,
	providePostService,
	provideStorageService,
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewPostHandler,
	provideLimiter,
	provideLimiterMode,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret)
}

func provideTokenIssuer(cfg *config.Config) *security.VerificationTokenIssuer {
	return security.NewVerificationTokenIssuer(cfg.VerificationTTL)
}

// provideMailer picks SMTP when a host is configured, otherwise the dev
// logger mailer.
func provideMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.SMTPHost != "" {
		return service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.VerifyEmailBase)
	}
	return service.NewDevMailer(logger, cfg.VerifyEmailBase)
}

func provideAuthService(
	users repository.UserRepository,
	tokens *security.VerificationTokenIssuer,
	jwtMgr *security.JWTManager,
	mailer service.Mailer,
	logger *slog.Logger,
	cfg *config.Config,
) service.AuthServiceInterface {
	return service.NewAuthService(users, tokens, jwtMgr, mailer, logger, cfg.JWTAccessTTL)
}

func provideUserService(users repository.UserRepository) service.UserServiceInterface {
	return service.NewUserService(users)
}

func providePostService(posts repository.PostRepository) service.PostServiceInterface {
	return service.NewPostService(posts)
}

func provideStorageService(cfg *config.Config, logger *slog.Logger) (service.StorageService, error) {
	return service.NewMinIOStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, logger)
}

// provideLimiter prefers the shared redis window when enabled.
func provideLimiter(cfg *config.Config) (middleware.Limiter, error) {
	if cfg.RedisRateLimiting {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return middleware.NewRedisFixedWindowLimiter(redis.NewClient(opts)), nil
	}
	return middleware.NewLocalFixedWindowLimiter(), nil
}

// A redis outage fails open so the backend outage does not take auth down;
// the in-process limiter cannot error, so it fails closed.
func provideLimiterMode(cfg *config.Config) middleware.FailureMode {
	if cfg.RedisRateLimiting {
		return middleware.FailOpen
	}
	return middleware.FailClosed
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	jwtMgr *security.JWTManager,
	limiter middleware.Limiter,
	limiterMode middleware.FailureMode,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		PostHandler:      postHandler,
		JWTManager:       jwtMgr,
		Limiter:          limiter,
		LimiterMode:      limiterMode,
		AuthRateLimitRPM: cfg.AuthRateLimitRPM,
		APIRateLimitRPM:  cfg.APIRateLimitRPM,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// MigrationRunner applies the schema migration and exits; used by the
// `migrate` subcommand.
type MigrationRunner struct {
	db *gorm.DB
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

func (m *MigrationRunner) Run() error {
	return database.Migrate(m.db)
}
