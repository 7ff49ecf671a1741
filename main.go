package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carson-networks/bank-server/api"
	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/config"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/operator"
	"github.com/carson-networks/bank-server/internal/service"
	"github.com/carson-networks/bank-server/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.SetupLogging()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Fatal("logging.SetLevel")
		return
	}
	logger.Info("bank-server starting")

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	if envConfig.AutoMigrate {
		m, err := storage.NewMigrator(dbStorage.DB)
		if err != nil {
			logger.WithError(err).Fatal("storage.NewMigrator")
			return
		}
		if err := storage.MigrateUp(m, logger); err != nil {
			logger.WithError(err).Fatal("storage.MigrateUp")
			return
		}
	}

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, envConfig.OperatorQueueSize)
	delegator.Start()
	defer delegator.Stop()

	tokens := auth.NewTokenIssuer(envConfig.JWTSecret, envConfig.TokenTTL)
	svc := service.NewService(dbStorage.Reader, delegator, tokens, service.Options{
		MaxAccountNumberAttempts: envConfig.MaxAccountNumberAttempts,
	})

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Storage: dbStorage,
		Service: svc,
		Tokens:  tokens,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("api.Rest.Serve")
	}
	logger.Info("bank-server stopped")
}
