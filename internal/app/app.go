package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwlam-hk/interview-scheduler/internal/config"
	"github.com/jwlam-hk/interview-scheduler/internal/handler"
	"github.com/jwlam-hk/interview-scheduler/internal/logger"
	"github.com/jwlam-hk/interview-scheduler/internal/service"
	"github.com/jwlam-hk/interview-scheduler/internal/session"
	"github.com/jwlam-hk/interview-scheduler/internal/store"
)

type App struct {
	config   *config.Config
	features *service.SchedulerConfig
	logger   *logger.Logger
	store    store.Store
	sessions *session.Manager
	handler  *handler.APIHandler
}

func New(cfg *config.Config, features *service.SchedulerConfig, log *logger.Logger) *App {
	if log == nil {
		log = logger.New()
	}
	return &App{
		config:   cfg,
		features: features,
		logger:   log,
	}
}

// Initialize connects to the Google Sheets backend and wires the API handler.
func (a *App) Initialize(ctx context.Context) error {
	creds, err := a.config.LoadCredentials()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	st, err := store.NewSheetsStore(ctx, creds, a.config.SpreadsheetID, a.features.Worksheet)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	a.wire(st)
	a.logger.Info("connected to spreadsheet",
		logger.Sheet(a.features.Worksheet))
	return nil
}

// InitializeWithStore wires the application against an already-built store.
func (a *App) InitializeWithStore(st store.Store) {
	a.wire(st)
}

func (a *App) wire(st store.Store) {
	a.store = st
	a.sessions = session.NewManager(st, a.logger)
	a.handler = handler.NewAPIHandler(a.sessions, a.features, a.logger)
}

// Router returns the HTTP handler for the API. Initialize must run first.
func (a *App) Router() (http.Handler, error) {
	if a.handler == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	mux := http.NewServeMux()
	a.handler.Register(mux)
	return mux, nil
}
