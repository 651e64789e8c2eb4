package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"

	"kakitori/internal/api"
	"kakitori/internal/config"
	"kakitori/internal/handler"
	"kakitori/internal/middleware"
	"kakitori/internal/provider/azure"
	"kakitori/internal/provider/jisho"
	"kakitori/internal/repository/postgres"
	"kakitori/internal/service"
	"kakitori/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Kakitori",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("speech_configured", cfg.SpeechConfigured()),
		zap.Bool("translator_configured", cfg.TranslatorConfigured()),
		zap.Bool("bot_enabled", cfg.BotEnabled()),
	)

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	wordRepo := postgres.NewWordRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Initialize providers
	dictionary := jisho.NewClient(cfg.Lookup.BaseURL, cfg.ProviderTimeout, logger)
	translator := azure.NewTranslator(cfg.Translator, cfg.ProviderTimeout)
	speech := azure.NewSpeech(cfg.Speech, cfg.ProviderTimeout)

	// Initialize services
	lookupService := service.NewLookupService(dictionary, translator, service.LookupOptions{
		Limit:         cfg.Lookup.Limit,
		ExtendedLimit: cfg.Lookup.ExtendedLimit,
		CacheTTL:      cfg.Lookup.CacheTTL,
	}, logger)
	synthesisService := service.NewSynthesisService(speech, cfg.Speech.Voices, logger)
	wordService := service.NewWordService(wordRepo, lookupService, synthesisService, logger)
	sessionService := service.NewSessionService(sessionRepo, cfg.PracticeWordCount, logger)
	statusService := service.NewStatusService(wordRepo, lookupService, synthesisService, logger)

	// HTTP API
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Words:    api.NewWordHandler(wordService, logger),
		Practice: api.NewPracticeHandler(sessionService, logger),
		Status:   api.NewStatusHandler(statusService, logger),
		Logger:   logger,
	})
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	// Telegram practice bot
	if cfg.BotEnabled() {
		bot, err := tele.NewBot(tele.Settings{
			Token:  cfg.BotToken,
			Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		})
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		bot.Use(middleware.TelebotLogger(logger))

		h := handler.NewHandler(bot, wordService, sessionService, logger)
		h.RegisterHandlers()

		g.Go(func() error {
			logger.Info("Bot started successfully")
			bot.Start()
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			bot.Stop()
			logger.Info("Bot stopped")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Service stopped with error", zap.Error(err))
		return
	}

	logger.Info("Kakitori stopped gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations applies the embedded schema migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
