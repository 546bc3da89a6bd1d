package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mmartins/centsible/internal/anomaly"
	anomalyStore "github.com/mmartins/centsible/internal/anomaly/store"
	"github.com/mmartins/centsible/internal/categorize"
	"github.com/mmartins/centsible/internal/config"
	"github.com/mmartins/centsible/internal/database"
	centsibleHttp "github.com/mmartins/centsible/internal/http"
	alertsHandler "github.com/mmartins/centsible/internal/http/alerts"
	categorizeHandler "github.com/mmartins/centsible/internal/http/categorize"
	importHandler "github.com/mmartins/centsible/internal/http/importcsv"
	reportHandler "github.com/mmartins/centsible/internal/http/report"
	txHandler "github.com/mmartins/centsible/internal/http/transaction"
	"github.com/mmartins/centsible/internal/importer"
	"github.com/mmartins/centsible/internal/receipt"
	"github.com/mmartins/centsible/internal/report"
	reportStore "github.com/mmartins/centsible/internal/report/store"
	"github.com/mmartins/centsible/internal/rule"
	ruleStore "github.com/mmartins/centsible/internal/rule/store"
	"github.com/mmartins/centsible/internal/transaction"
	txStore "github.com/mmartins/centsible/internal/transaction/store"
	"github.com/mmartins/centsible/internal/vendors"
	vendorStore "github.com/mmartins/centsible/internal/vendors/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	classifier, err := categorize.NewGeminiClassifier(ctx,
		cfg.Classifier.APIKey, cfg.Classifier.Model, cfg.Classifier.Timeout)
	if err != nil {
		slog.Error("failed to create classifier", "error", err)
		os.Exit(1)
	}

	var (
		normalizer         = vendor.NewNormalizer(vendorStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), normalizer)
		ruleEngine         = rule.NewEngine(ruleStore.New(db))
		categorizeService  = categorize.NewService(
			ruleEngine,
			classifier,
			categorize.RetryPolicy{MaxRetries: cfg.Classifier.MaxRetries},
			categorize.Thresholds{
				LowConfidence:     decimal.NewFromFloat(cfg.Categorize.LowConfidence),
				ReviewAmountCents: cfg.Categorize.ReviewAmountCents,
			},
		)
		detector = anomaly.NewDetector(anomalyStore.New(db), anomaly.Config{
			NewVendorCents:      cfg.Anomaly.NewVendorCents,
			MissingReceiptCents: cfg.Anomaly.MissingReceiptCents,
			MissingReceiptLimit: cfg.Anomaly.MissingReceiptLimit,
			LowConfidence:       decimal.NewFromFloat(cfg.Categorize.LowConfidence),
		})
		reportService  = report.NewService(reportStore.New(db))
		importService  = importer.NewService()
		receiptLocator = receipt.NewLocator(cfg.Receipt.DriveFolderID)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, receiptLocator)
		categorizeH  = categorizeHandler.NewHandler(categorizeService, transactionService)
		alertsH      = alertsHandler.NewHandler(detector, cfg.Anomaly.LookbackDays)
		reportsH     = reportHandler.NewHandler(reportService)
		importH      = importHandler.NewHandler(importService, transactionService)
	)

	router := centsibleHttp.New(centsibleHttp.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.AllowedOriginList(),
		DB:             db,
	}, transactionH, categorizeH, alertsH, reportsH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
