package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mmartins/centsible/internal/config"
	"github.com/mmartins/centsible/internal/database"
	ruleStore "github.com/mmartins/centsible/internal/rule/store"
	"github.com/mmartins/centsible/internal/seed"
	vendorStore "github.com/mmartins/centsible/internal/vendors/store"
)

func main() {
	path := flag.String("file", "seed.json", "path to the seed file")
	flag.Parse()

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

	f, err := os.Open(*path)
	if err != nil {
		slog.Error("failed to open seed file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	data, err := seed.Load(f)
	if err != nil {
		slog.Error("failed to parse seed file", "file", *path, "error", err)
		os.Exit(1)
	}

	svc := seed.NewService(vendorStore.New(db), ruleStore.New(db))

	res, err := svc.Apply(context.Background(), data)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seeding finished", "vendors", res.Vendors, "rules", res.Rules)
}
