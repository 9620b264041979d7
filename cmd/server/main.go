package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertylens/config"
	"propertylens/internal/api"
	"propertylens/internal/database"
	"propertylens/internal/models"
	"propertylens/internal/processor"
	"propertylens/internal/queue"
	"propertylens/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(logger, cfg)

	logger.Infof("Using database at: %s", cfg.Storage.DatabasePath)
	db, err := database.NewDatabase(cfg.Storage.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	seedPreferences(db, cfg, logger)
	seedTelegramConfig(db, cfg, logger)

	// Analyses are queued and written in batches
	analysisQueue := queue.NewAnalysisQueue(cfg.BatchProcessing.QueueBufferSize, logger)
	batchProcessor := processor.NewBatchProcessor(db.GetDB(), analysisQueue, cfg, logger)
	batchProcessor.Start()

	retention := scheduler.NewScheduler(db, cfg.Retention.MaxAge, cfg.Retention.Interval, logger)
	retention.Start()

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(db, analysisQueue, cfg, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}

	retention.Stop()

	// Stop writes whatever is still queued
	batchProcessor.Stop()
	logger.Info("Server stopped")
}

func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// seedPreferences stores the preference file as the initial profile when
// nothing has been saved yet.
func seedPreferences(db *database.Database, cfg *config.Config, logger *logrus.Logger) {
	if cfg.PreferencesFile == "" {
		return
	}

	stored, err := db.HasPreferences()
	if err != nil {
		logger.WithError(err).Error("Failed to check stored preferences")
		return
	}
	if stored {
		return
	}

	prefs, err := config.LoadPreferences(cfg.PreferencesFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load preferences file, keeping defaults")
		return
	}
	if err := db.SavePreferences(prefs); err != nil {
		logger.WithError(err).Error("Failed to save initial preferences")
		return
	}
	logger.WithField("file", cfg.PreferencesFile).Info("Loaded initial preferences")
}

// seedTelegramConfig copies the environment credentials into the database
// when no configuration has been saved through the API.
func seedTelegramConfig(db *database.Database, cfg *config.Config, logger *logrus.Logger) {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		return
	}

	existing, err := db.GetTelegramConfig()
	if err != nil {
		logger.WithError(err).Error("Failed to get Telegram config")
		return
	}
	if existing != nil {
		return
	}

	err = db.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: cfg.Telegram.Enabled,
		BotToken:  cfg.Telegram.BotToken,
		ChatID:    cfg.Telegram.ChatID,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to save Telegram config from environment")
		return
	}
	logger.Info("Telegram configuration loaded from environment")
}
