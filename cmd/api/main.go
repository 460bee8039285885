package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/evergreenclinic/clinic-platform/internal/api/router"
	"github.com/evergreenclinic/clinic-platform/internal/appointments"
	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	appconfig "github.com/evergreenclinic/clinic-platform/internal/config"
	"github.com/evergreenclinic/clinic-platform/internal/conversation"
	"github.com/evergreenclinic/clinic-platform/internal/observability/metrics"
	"github.com/evergreenclinic/clinic-platform/internal/patients"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	var (
		clinicRepo       *clinic.Repository
		appointmentsRepo *appointments.Repository
		patientsRepo     *patients.Repository
		transcripts      *conversation.TranscriptStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()

		clinicRepo = clinic.NewRepository(pool)
		appointmentsRepo = appointments.NewRepository(pool)
		patientsRepo = patients.NewRepository(pool)

		// The transcript store runs on database/sql; migrations share it too.
		sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open transcript database", "error", err.Error())
			os.Exit(1)
		}
		defer func() { _ = sqlDB.Close() }()
		transcripts = conversation.NewTranscriptStore(sqlDB)
	} else {
		logger.Warn("DATABASE_URL not set, running without persistence")
	}

	var historyStore *conversation.HistoryStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		historyStore = conversation.NewHistoryStore(redisClient)
	}

	providers := buildProviders(ctx, cfg, logger)
	chatMetrics := metrics.NewChatMetrics(nil)

	gateway := conversation.NewGateway(providers, logger,
		conversation.WithTimeout(cfg.ProviderTimeout),
		conversation.WithSampling(cfg.ChatTemperature, cfg.ChatMaxTokens),
		conversation.WithMetrics(chatMetrics),
	)

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Warn("invalid clinic timezone, falling back to UTC", "tz", cfg.ClinicTimezone)
		loc = time.UTC
	}

	orchestratorCfg := conversation.OrchestratorConfig{
		Gateway:     gateway,
		Transcripts: transcripts,
		Events:      conversation.NewEventLogger(logger),
		Metrics:     chatMetrics,
		Logger:      logger,
		ClinicName:  cfg.ClinicName,
		ClinicPhone: cfg.ClinicPhone,
	}
	if clinicRepo != nil {
		orchestratorCfg.Catalog = clinicRepo
		orchestratorCfg.Resolver = conversation.NewServiceResolver(clinicRepo, logger)
	}
	if appointmentsRepo != nil {
		bookingService := appointments.NewService(appointmentsRepo, logger)
		orchestratorCfg.Executor = conversation.NewBookingExecutor(bookingService, loc, logger)
	}
	orchestrator := conversation.NewOrchestrator(orchestratorCfg)

	routerCfg := &router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(orchestrator, historyStore, transcripts, logger),
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	if clinicRepo != nil {
		routerCfg.ClinicHandler = clinic.NewHandler(clinicRepo, logger)
	}
	if appointmentsRepo != nil {
		routerCfg.AppointmentsHandler = appointments.NewHandler(appointments.NewService(appointmentsRepo, logger), logger)
	}
	if patientsRepo != nil {
		routerCfg.PatientsHandler = patients.NewHandler(patientsRepo, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
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
		logger.Error("server forced to shutdown", "error", err.Error())
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildProviders wires the model failover chain in the configured order.
// Providers without credentials are skipped so a partial deployment still
// serves what it can.
func buildProviders(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) []conversation.LLMClient {
	var providers []conversation.LLMClient
	for _, name := range cfg.ProviderOrder {
		switch name {
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				logger.Warn("openai provider configured but OPENAI_API_KEY is empty, skipping")
				continue
			}
			providers = append(providers, conversation.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				logger.Warn("gemini provider configured but GEMINI_API_KEY is empty, skipping")
				continue
			}
			client, err := conversation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				logger.Error("failed to create gemini client", "error", err.Error())
				continue
			}
			providers = append(providers, client)
		default:
			logger.Warn("unknown model provider in MODEL_PROVIDER_ORDER, skipping", "provider", name)
		}
	}
	return providers
}
