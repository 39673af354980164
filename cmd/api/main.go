package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heralf/legal-leads/cmd/mainconfig"
	"github.com/heralf/legal-leads/internal/api/router"
	appconfig "github.com/heralf/legal-leads/internal/config"
	"github.com/heralf/legal-leads/internal/leads"
	"github.com/heralf/legal-leads/internal/notify"
	"github.com/heralf/legal-leads/internal/observability/metrics"
	"github.com/heralf/legal-leads/internal/observability/tracing"
	"github.com/heralf/legal-leads/internal/whatsapp"
	"github.com/heralf/legal-leads/pkg/logging"
)

func main() {
	// Local development convenience; production relies on real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting legal-leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, "leads-api", cfg.OTELExporterEndpoint, cfg.Env)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	repo, notifier := buildDependencies(ctx, cfg, logger)

	leadMetrics := metrics.NewLeadMetrics(nil)
	leadsHandler := leads.NewHandler(repo, notifier, leadMetrics, logger)
	whatsappHandler := whatsapp.NewHandler(cfg.WhatsAppVerifyToken, logger)

	r := router.New(&router.Config{
		Logger:          logger,
		LeadsHandler:    leadsHandler,
		WhatsAppHandler: whatsappHandler,
		MetricsHandler:  promhttp.Handler(),
		AllowedOrigin:   cfg.AllowedOrigin,
		AdminAuthSecret: cfg.AdminJWTSecret,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server stopped")
}

// buildDependencies wires the persistence and notification backends from
// configuration. With USE_MEMORY_STORE the server runs fully in memory,
// which is what local development and CI use; DATABASE_URL selects the
// self-hosted Postgres store instead of DynamoDB.
func buildDependencies(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, leads.Notifier) {
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory lead store, data will not survive restarts")
		return leads.NewInMemoryRepository(), buildNotifier(cfg, nil, logger)
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		logger.Info("using postgres lead store")
		return leads.NewPostgresRepository(pool), buildNotifier(cfg, nil, logger)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	repo := leads.NewDynamoRepository(dynamoClient, cfg.LeadsTable, logger)

	sesClient := sesv2.NewFromConfig(awsCfg)
	return repo, buildNotifier(cfg, sesClient, logger)
}

func buildNotifier(cfg *appconfig.Config, sesClient *sesv2.Client, logger *logging.Logger) leads.Notifier {
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		if s := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			sender = s
		}
	default: // auto: prefer SendGrid when a key is present, else SES
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			sender = s
		} else if s := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); s != nil {
			sender = s
		}
	}
	if sender == nil {
		logger.Warn("no email provider configured, lead notifications disabled")
	}
	return notify.NewService(sender, cfg.NotifyEmail, logger)
}
