// sheets-check verifies the Google service account credentials can reach the
// configured spreadsheet. Run it once after provisioning before starting
// bafci-worker.
package main

import (
	"context"
	"os"
	"time"

	"bafci/internal/cli"
	gsheet "bafci/internal/export/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is not set, nothing to check")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gsheet.New(ctx,
		cfg.GoogleSpreadsheetID, cfg.GoogleSheetName,
		cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	title, err := client.Verify(ctx)
	if err != nil {
		logger.Error("Spreadsheet check failed", "error", err,
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
		os.Exit(1)
	}

	logger.Info("Spreadsheet reachable",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"title", title,
		"sheet", cfg.GoogleSheetName)
}
