package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	commoncfg "owl-care/owl-common/config"
	"owl-care/owl-common/logger"
	"owl-care/owl-greeter/internal/config"
	"owl-care/owl-greeter/internal/service"

	"go.uber.org/zap"
)

func main() {
	if err := commoncfg.LoadDotEnv(); err != nil {
		panic(fmt.Sprintf("Failed to load .env: %v", err))
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "owl-greeter")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	greeterService, err := service.NewGreeterService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create greeter service", zap.Error(err))
	}
	defer greeterService.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceErrChan := make(chan error, 1)
	go func() {
		serviceErrChan <- greeterService.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		if err := <-serviceErrChan; err != nil {
			log.Error("Shutdown error", zap.Error(err))
		}
	case err := <-serviceErrChan:
		if err != nil {
			log.Error("Service error", zap.Error(err))
		}
	}

	log.Info("Greeter service stopped")
}
