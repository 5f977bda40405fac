package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-esg-platform/internal/config"
	"go-esg-platform/internal/credential"
	"go-esg-platform/internal/database"
	"go-esg-platform/internal/handler"
	"go-esg-platform/internal/middleware"
	"go-esg-platform/internal/repository"
	"go-esg-platform/internal/revocation"
	"go-esg-platform/internal/router"
	"go-esg-platform/internal/service"
	"go-esg-platform/pkg/token"
)

type App struct {
	server       *http.Server
	handler      http.Handler
	cleanupFuncs []func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires every component for cfg. Accounts and audit entries
// live in PostgreSQL when DATABASE_URL is set and in memory otherwise.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	var (
		accounts  repository.AccountRepository
		auditRepo repository.AuditStore
		db        *database.DB
	)

	if cfg.MemoryMode() {
		slog.Warn("DATABASE_URL not set; accounts are kept in memory and lost on restart")
		accounts = repository.NewMemoryAccountRepository()
		auditRepo = repository.NewMemoryAuditRepository()
	} else {
		slog.Info("connecting to PostgreSQL")
		var err error
		db, err = database.New(ctx, cfg.DatabaseURL, database.Options{
			MaxConns:       cfg.DBMaxConns,
			MinConns:       cfg.DBMinConns,
			ConnectRetries: 5,
			RetryDelay:     2 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

		if err := db.EnsureSchema(ctx, repository.SchemaTables()); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		accounts = repository.NewPostgresAccountRepository(db.Pool)
		auditRepo = repository.NewAuditRepository(db.Pool)
		slog.Info("database ready")
	}

	denylist, err := a.openDenylist(ctx, cfg, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	codec, err := token.NewCodec([]byte(cfg.JWTSecret), cfg.JWTTTL, cfg.JWTIssuer)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	credentials := credential.NewStore(accounts, cfg.BcryptCost)
	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(credentials, accounts, codec, denylist, auditService)
	accountService := service.NewAccountService(credentials, accounts, denylist, auditService)

	if _, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	var health func(r *http.Request) error
	if db != nil {
		health = func(r *http.Request) error { return db.Health(r.Context()) }
	}

	a.handler = router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Account: handler.NewAccountHandler(accountService),
		Admin:   handler.NewAdminHandler(authService),
		Audit:   handler.NewAuditHandler(auditService),
		Health:  health,
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           a.handler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	slog.Info("application ready",
		"memory_mode", cfg.MemoryMode(),
		"revocation_store", cfg.RevocationStore,
		"token_ttl", cfg.JWTTTL,
	)
	return a, nil
}

func (a *App) openDenylist(ctx context.Context, cfg *config.Config, db *database.DB) (revocation.Denylist, error) {
	switch cfg.RevocationStore {
	case config.RevocationMemory:
		d := revocation.NewMemoryDenylist()
		a.startCleanup(d, cfg.RevocationCleanup)
		return d, nil

	case config.RevocationRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.cleanupFuncs = append(a.cleanupFuncs, func() { _ = client.Close() })
		slog.Info("token revocation backed by redis", "addr", cfg.RedisAddr)
		return revocation.NewRedisDenylist(client), nil

	case config.RevocationPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres revocation store requires DATABASE_URL")
		}
		tokens := repository.NewTokenRepository(db.Pool)
		a.startCleanup(tokens, cfg.RevocationCleanup)
		return tokens, nil

	default:
		slog.Info("token revocation disabled; tokens stay valid until they expire")
		return revocation.Noop{}, nil
	}
}

func (a *App) startCleanup(store interface {
	CleanExpired(ctx context.Context) (int64, error)
}, interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	go revocation.StartCleanupTicker(ctx, store, interval)
	a.cleanupFuncs = append(a.cleanupFuncs, cancel)
}

// Handler exposes the routed handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.Close()

	slog.Info("server stopped")
	return nil
}
