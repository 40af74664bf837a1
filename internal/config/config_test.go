package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Base valid environment
	validEnv := map[string]string{
		"SHEETS_SPREADSHEET_ID":   "1AbCdEfGh",
		"SHEETS_CREDENTIALS_PATH": "/tmp/sa.json",
	}

	t.Run("valid config", func(t *testing.T) {
		for k, v := range validEnv {
			t.Setenv(k, v)
		}
		t.Setenv("LISTEN_ADDR", ":9090")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "1AbCdEfGh", cfg.SpreadsheetID)
		assert.Equal(t, "/tmp/sa.json", cfg.CredentialsPath)
		assert.Equal(t, ":9090", cfg.ListenAddr)
	})

	t.Run("listen addr defaults when empty", func(t *testing.T) {
		for k, v := range validEnv {
			t.Setenv(k, v)
		}
		t.Setenv("LISTEN_ADDR", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddr)
	})

	// Table-driven test for missing variables
	missingVarTests := []struct {
		name    string
		unset   string // The env var to leave unset
		wantErr string
	}{
		{
			name:    "missing SHEETS_SPREADSHEET_ID",
			unset:   "SHEETS_SPREADSHEET_ID",
			wantErr: "SHEETS_SPREADSHEET_ID is required",
		},
		{
			name:    "missing SHEETS_CREDENTIALS_PATH",
			unset:   "SHEETS_CREDENTIALS_PATH",
			wantErr: "SHEETS_CREDENTIALS_PATH is required",
		},
	}

	for _, tt := range missingVarTests {
		t.Run(tt.name, func(t *testing.T) {
			// Set all valid envs first
			for k, v := range validEnv {
				t.Setenv(k, v)
			}
			// Then unset the one for this test case
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadWithFile(t *testing.T) {
	t.Run("reads env file", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		content := "SHEETS_SPREADSHEET_ID=from_file\nSHEETS_CREDENTIALS_PATH=/tmp/sa.json\n"
		require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
		// godotenv never overrides variables that exist, even empty ones
		for _, k := range []string{"SHEETS_SPREADSHEET_ID", "SHEETS_CREDENTIALS_PATH"} {
			t.Setenv(k, "placeholder")
			require.NoError(t, os.Unsetenv(k))
		}

		cfg, err := LoadWithFile(envFile)
		require.NoError(t, err)
		assert.Equal(t, "from_file", cfg.SpreadsheetID)
	})

	t.Run("missing env file is tolerated", func(t *testing.T) {
		t.Setenv("SHEETS_SPREADSHEET_ID", "from_env")
		t.Setenv("SHEETS_CREDENTIALS_PATH", "/tmp/sa.json")

		cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.SpreadsheetID)
	})
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))

	cfg := &Config{CredentialsPath: path}
	data, err := cfg.LoadCredentials()
	require.NoError(t, err)
	assert.Contains(t, string(data), "service_account")

	cfg.CredentialsPath = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.LoadCredentials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read service account file")
}
