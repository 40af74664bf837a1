package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwlam-hk/interview-scheduler/internal/app"
	"github.com/jwlam-hk/interview-scheduler/internal/config"
	"github.com/jwlam-hk/interview-scheduler/internal/service"
)

// TestApp_FullFlow tests the complete application flow against a real
// spreadsheet, so it's skipped by default
func TestApp_FullFlow(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	// Load real config from environment
	cfg, err := config.Load()
	require.NoError(t, err)

	fc, err := service.LoadFeatureConfig(os.Getenv("CONFIG_PATH"))
	require.NoError(t, err)
	if ws := os.Getenv("SHEETS_WORKSHEET"); ws != "" {
		fc.Scheduler.Worksheet = ws
	}

	application := app.New(cfg, &fc.Scheduler, nil)

	err = application.Initialize(t.Context())
	require.NoError(t, err)

	router, err := application.Router()
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bookings")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Session-ID"))

	var body struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.SessionID)
}
