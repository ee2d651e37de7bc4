package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/itsaril/Data-Collection-SIS-2/config"
	"github.com/itsaril/Data-Collection-SIS-2/scraper/ebay"
	"github.com/itsaril/Data-Collection-SIS-2/services"
	"github.com/itsaril/Data-Collection-SIS-2/storage"
	"github.com/itsaril/Data-Collection-SIS-2/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== eBay Extraction Pipeline starting ===")
	logger.Info("Config — query: %q | max items: %d | items/page: ~%d | enrich: %v | db: %s",
		cfg.SearchQuery, cfg.MaxItems, cfg.ItemsPerPage, cfg.Enrich, cfg.DBDriver)

	source := ebay.NewFileSource(cfg.PagesDir, logger)
	pages, err := source.ListingPages(cfg.MaxItems, cfg.ItemsPerPage)
	if err != nil {
		logger.Error("Failed to load listing pages: %v", err)
		logger.Error("Run the fetcher first so %s holds page_N.html snapshots", cfg.PagesDir)
		os.Exit(1)
	}

	pipeline := services.NewPipeline(
		ebay.NewListingExtractor(logger),
		ebay.NewDetailExtractor(logger),
		cfg.MaxConcurrency,
		logger,
	)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()
	pipeline.SetRawSink(csvWriter)

	products, err := pipeline.Run(pages)
	if err != nil {
		if errors.Is(err, services.ErrEmptyBatch) {
			logger.Error("No valid records in %d pages — the markup structure likely changed", len(pages))
		} else {
			logger.Error("Pipeline failed: %v", err)
		}
		os.Exit(1)
	}

	if cfg.Enrich {
		products = pipeline.Enrich(products, source)
	}

	reporter := services.NewReporter(logger)
	report := reporter.Generate(pipeline.Report(), products)
	reporter.Print(report)

	jsonWriter, err := storage.NewJSONWriter(cfg.JSONOutputPath)
	if err != nil {
		logger.Error("Failed to create JSON writer: %v", err)
		os.Exit(1)
	}
	if err := jsonWriter.Write(products, cfg.SearchQuery); err != nil {
		logger.Error("JSON write failed: %v", err)
	} else {
		logger.Info("Snapshot saved to %s", cfg.JSONOutputPath)
	}

	dbWriter, err := openDatabase(cfg, logger)
	if err != nil {
		logger.Error("Failed to open %s storage: %v", cfg.DBDriver, err)
		os.Exit(1)
	}
	defer dbWriter.Close()

	if err := dbWriter.Write(products, cfg.SearchQuery); err != nil {
		logger.Error("Database write failed: %v", err)
		os.Exit(1)
	}

	if total, err := dbWriter.Count(); err == nil {
		logger.Info("Records in database: %d", total)
	}

	fmt.Printf("  Done. %d records → %s + %s storage\n\n",
		len(products), cfg.JSONOutputPath, cfg.DBDriver)
}

func openDatabase(cfg *config.Config, logger *utils.Logger) (*storage.SQLWriter, error) {
	switch cfg.DBDriver {
	case "postgres":
		return storage.NewPostgresWriter(cfg.DSN(), logger)
	default:
		return storage.NewSQLiteWriter(cfg.SQLitePath, logger)
	}
}
