package main

import (
	"encoding/json"
	"fmt"
	"os"

	"deeplynx-stats/client/deeplynx"
	"deeplynx-stats/config"
	"deeplynx-stats/services"
	"deeplynx-stats/storage"
	"deeplynx-stats/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Deep Lynx Product/Lot Statistics starting ===")
	logger.Info("Config — host: %s | container: %s | filters: hasShape=%d HasComp=%s | example key: %t",
		cfg.DeepLynxURL, cfg.ContainerID, cfg.ShapeFilter, cfg.CompFilter, cfg.IncludeExampleKey)

	if cfg.ContainerID == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		logger.Error("DEEP_LYNX_CONTAINER_ID, DEEP_LYNX_API_KEY and DEEP_LYNX_API_SECRET must be set")
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure the database is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	client := deeplynx.New(cfg, logger)

	productResult, err := client.QueryProducts()
	if err != nil {
		logger.Error("Product query failed: %v", err)
		os.Exit(1)
	}

	extractor := services.NewKeyExtractor(logger, cfg.IncludeExampleKey, cfg.ExampleLotKey)
	keys := extractor.Extract(productResult)

	lotResults := client.QueryLots(keys)

	composer := services.NewComposer(logger)
	report, err := composer.Compose(productResult, lotResults)
	if err != nil {
		logger.Error("Report composition failed: %v", err)
		os.Exit(1)
	}

	if err := csvWriter.WriteLots(report.LotDetails); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Lot details saved to %s", cfg.CSVOutputPath)
	}

	if err := pgWriter.Write(report); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Report stored in PostgreSQL (tables: report_runs, lot_details)")
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal report: %v", err)
		os.Exit(1)
	}
	fmt.Printf("\nProcessed Results:\n%s\n", out)

	composer.Print(report)

	runs := ""
	if n, err := pgWriter.RunCount(); err == nil {
		runs = fmt.Sprintf(" | stored runs: %d", n)
	}
	fmt.Printf("  Done. Lot CSV → %s | Report → PostgreSQL (report_runs table)%s\n\n",
		cfg.CSVOutputPath, runs)
}
