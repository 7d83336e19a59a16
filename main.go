package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/audit"
	"github.com/folio-engine/folio-engine/pkg/auth"
	"github.com/folio-engine/folio-engine/pkg/config"
	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/document"
	"github.com/folio-engine/folio-engine/pkg/github"
	"github.com/folio-engine/folio-engine/pkg/handlers"
	"github.com/folio-engine/folio-engine/pkg/logging"
	"github.com/folio-engine/folio-engine/pkg/mcp"
	"github.com/folio-engine/folio-engine/pkg/mcp/tools"
	"github.com/folio-engine/folio-engine/pkg/metrics"
	"github.com/folio-engine/folio-engine/pkg/middleware"
	"github.com/folio-engine/folio-engine/pkg/repositories"
	"github.com/folio-engine/folio-engine/pkg/retry"
	"github.com/folio-engine/folio-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connStr := cfg.Database.ConnectionString()
	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Addr()),
		zap.String("auth_mode", cfg.Auth.Mode),
		zap.String("status_policy", cfg.StatusPolicy),
		zap.String("database", logging.SanitizeConnectionString(connStr)))

	if cfg.RunMigrations {
		if err := migrate(connStr, cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
		ConnectRetry:   retry.StartupConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	securityAuditor := audit.NewSecurityAuditor(logger)

	// Repositories
	itemRepo := repositories.NewPortfolioItemRepository(securityAuditor)
	eventRepo := repositories.NewEventRepository()
	profileRepo := repositories.NewProfileRepository(securityAuditor)
	showcaseRepo := repositories.NewShowcaseRepository(securityAuditor)
	modeRepo := repositories.NewModeRepository(securityAuditor)
	analyticsRepo := repositories.NewAnalyticsRepository(securityAuditor)
	contactRepo := repositories.NewContactRepository()

	// Services
	policy, err := services.NewTransitionPolicy(cfg.StatusPolicy)
	if err != nil {
		return err
	}
	composer := document.NewComposer(document.Branding{
		OwnerName:    cfg.Branding.OwnerName,
		OwnerTitle:   cfg.Branding.OwnerTitle,
		OwnerEmail:   cfg.Branding.OwnerEmail,
		OwnerSummary: cfg.Branding.OwnerSummary,
	})
	recorder := services.NewEventRecorder(eventRepo, logger)
	portfolioService := services.NewPortfolioService(itemRepo, eventRepo, recorder, policy, logger)
	shareService := services.NewShareService(itemRepo, recorder, logger)
	exportService := services.NewExportService(itemRepo, composer, logger)
	profileService := services.NewProfileService(profileRepo, logger)
	showcaseService := services.NewShowcaseService(showcaseRepo, logger)
	modeService := services.NewModeService(modeRepo, showcaseRepo, logger)
	analyticsService := services.NewAnalyticsService(analyticsRepo, logger)
	contactService := services.NewContactService(contactRepo, logger)

	authMiddleware, err := newAuthMiddleware(ctx, cfg, securityAuditor, logger)
	if err != nil {
		return err
	}

	// MCP
	scopes := database.NewScopeProvider(db)
	mcpAudit := mcp.NewAuditLogger(scopes, recorder, logger)
	mcpServer := mcp.NewServer(handlers.ServiceName, cfg.Version, mcpAudit.Hooks(), logger)
	mcpServer.RegisterTools(mcp.ToolDeps{
		Service: handlers.ServiceName,
		Version: cfg.Version,
		Portfolio: &tools.PortfolioToolDeps{
			Scopes:    scopes,
			Portfolio: portfolioService,
			Logger:    logger.Named("mcp-tools"),
		},
		GitHub: &tools.GitHubToolDeps{
			Client: github.NewClient(cfg.GitHub, logger),
			Logger: logger.Named("mcp-tools"),
		},
	})

	// Routes
	mux := http.NewServeMux()
	scope := handlers.RouteMiddleware(database.WithScope(db, logger))

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewPortfolioHandler(portfolioService, logger).RegisterRoutes(mux, scope, authMiddleware)
	handlers.NewShareHandler(shareService, logger).RegisterRoutes(mux, scope)
	handlers.NewExportHandler(exportService, logger).RegisterRoutes(mux, scope)
	handlers.NewProfileHandler(profileService, logger).RegisterRoutes(mux, scope, authMiddleware)
	handlers.NewShowcaseHandler(showcaseService, logger).RegisterRoutes(mux, scope)
	handlers.NewModesHandler(modeService, logger).RegisterRoutes(mux, scope)
	handlers.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(mux, scope, authMiddleware)
	handlers.NewContactHandler(contactService, logger).RegisterRoutes(mux, scope, authMiddleware)
	handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux, authMiddleware)

	registry := metrics.NewRegistry(logger)
	mux.HandleFunc("GET /metrics", registry.Handler())

	// Metrics wraps the mux directly so it sees the matched pattern.
	var handler http.Handler = registry.Middleware(mux)
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	handler = middleware.RequestContext(handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting folio-engine",
			zap.String("addr", cfg.Addr()),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := mcpAudit.Drain(shutdownCtx); err != nil {
		logger.Warn("Pending MCP events were not recorded before shutdown", zap.Error(err))
	}
	return nil
}

func migrate(connStr, path string, logger *zap.Logger) error {
	sqlDB, err := database.OpenSQL(connStr)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, path, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func newAuthMiddleware(ctx context.Context, cfg *config.Config, recorder auth.DenialRecorder, logger *zap.Logger) (*auth.Middleware, error) {
	if cfg.Auth.Mode != config.AuthModeJWT {
		logger.Warn("Auth mode is open: every capability is granted without a token")
		return auth.NewMiddleware(auth.NewOpenAuthorizer(), recorder, logger), nil
	}

	validator, err := auth.NewJWTValidator(ctx, auth.ValidatorConfig{
		Secret:   cfg.Auth.JWTSecret,
		JWKSURL:  cfg.Auth.JWKSURL,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}
	return auth.NewMiddleware(auth.NewTokenAuthorizer(validator, cfg.Auth.PublicCapabilities, logger), recorder, logger), nil
}
