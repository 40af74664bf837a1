// Command-line diagnostic: dumps the shared spreadsheet contents as a table.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jwlam-hk/interview-scheduler/internal/config"
	"github.com/jwlam-hk/interview-scheduler/internal/service"
	"github.com/jwlam-hk/interview-scheduler/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithFile(".env")
	if err != nil {
		panic(err)
	}

	featureCfg, err := service.LoadFeatureConfig(getEnvOrDefault("CONFIG_PATH", "./data/scheduler.toml"))
	if err != nil {
		panic(err)
	}

	creds, err := cfg.LoadCredentials()
	if err != nil {
		panic(err)
	}

	st, err := store.NewSheetsStore(ctx, creds, cfg.SpreadsheetID, featureCfg.Scheduler.Worksheet)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Connected to spreadsheet: %s (%s)\n", cfg.SpreadsheetID, featureCfg.Scheduler.Worksheet)

	snap, err := st.Load(ctx)
	if err != nil {
		panic(err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	printBookings(tw, snap)
	if err := tw.Flush(); err != nil {
		panic(err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
