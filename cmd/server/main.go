package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yusufkoc/hr-intake/internal/application/service"
	"github.com/yusufkoc/hr-intake/internal/config"
	"github.com/yusufkoc/hr-intake/internal/email"
	"github.com/yusufkoc/hr-intake/internal/infrastructure/persistence/repository"
	"github.com/yusufkoc/hr-intake/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/yusufkoc/hr-intake/internal/interfaces/http"
	"github.com/yusufkoc/hr-intake/pkg/database"
	"github.com/yusufkoc/hr-intake/pkg/utils"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting HR intake approval service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	appRepo := repository.NewApplicationRepository(db.DB, logger)
	noteRepo := repository.NewNoteRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	notifRepo := repository.NewNotificationRepository(db.DB, logger)

	serviceLogger := &zapLoggerAdapter{logger: logger}

	authService := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:       cfg.Auth.JWTSecret,
		TokenTTL:        cfg.Auth.TokenTTL,
		DefaultPassword: cfg.Auth.DefaultPassword,
	}, serviceLogger)

	if err := authService.EnsureDefaultUsers(context.Background()); err != nil {
		logger.Fatal("Failed to seed default users", zap.Error(err))
	}

	var notifier service.Notifier
	if cfg.SMTP.Host != "" {
		sender := email.NewSender(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
		notifier = service.NewNotificationService(notifRepo, sender, cfg.SMTP.HRMailbox, serviceLogger)
	} else {
		logger.Info("SMTP not configured, decision notifications disabled")
	}

	intakeService := service.NewIntakeService(appRepo, noteRepo, txManager, serviceLogger)
	approvalService := service.NewApprovalService(appRepo, noteRepo, userRepo, txManager, notifier, serviceLogger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, intakeService, approvalService, authService, userRepo, serviceLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// zapLoggerAdapter adapts *zap.Logger to the key-value Logger
// interface the services expect.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toZapFields(keysAndValues)...)
}

func (a *zapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, toZapFields(keysAndValues)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toZapFields(keysAndValues)...)
}

func toZapFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
