package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwlam-hk/interview-scheduler/internal/app"
	"github.com/jwlam-hk/interview-scheduler/internal/config"
	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/service"
)

type server struct {
	ctx    context.Context
	logger *logger.Logger
	infra  *config.Config
	app    *app.App
}

func main() {
	srv := &server{
		ctx:    context.Background(),
		logger: logger.New(),
	}

	if err := srv.run(); err != nil {
		srv.logger.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func (s *server) run() error {
	if err := s.initialize(); err != nil {
		return err
	}
	return s.serve()
}

func (s *server) initialize() error {
	configPath := getEnvOrDefault("CONFIG_PATH", "./data/scheduler.toml")
	featureCfg, err := service.LoadFeatureConfig(configPath)
	if err != nil {
		s.logger.Error("Failed to load feature config", logger.Error(err), logger.Path(configPath))
		return err
	}

	envPath := ".env"
	infraCfg, err := config.LoadWithFile(envPath)
	if err != nil {
		s.logger.Error("Failed to load infrastructure config", logger.Error(err), logger.Path(envPath))
		return err
	}
	s.infra = infraCfg

	s.app = app.New(infraCfg, &featureCfg.Scheduler, s.logger)
	if err := s.app.Initialize(s.ctx); err != nil {
		s.logger.Error("Failed to initialize application", logger.Error(err))
		return err
	}

	return nil
}

func (s *server) serve() error {
	router, err := s.app.Router()
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              s.infra.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", logger.Action("startup"), logger.Status("listening"), logger.F("ADDR", s.infra.ListenAddr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", logger.Action("shutdown"), logger.Status("draining"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server stopped", logger.Action("shutdown"), logger.Status("stopped"))
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
