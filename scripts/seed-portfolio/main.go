// seed-portfolio loads portfolio items from a YAML fixture into the store.
// Items are upserted by repo, so running it twice is safe.
//
// Usage: go run ./scripts/seed-portfolio [-dry-run] [-file path]
//
// Database connection: uses the same DB_* environment variables as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/audit"
	"github.com/folio-engine/folio-engine/pkg/config"
	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/logging"
	"github.com/folio-engine/folio-engine/pkg/repositories"
	"github.com/folio-engine/folio-engine/pkg/seed"
)

func main() {
	file := flag.String("file", "scripts/seed-portfolio/portfolio.yaml", "YAML fixture to load")
	dryRun := flag.Bool("dry-run", false, "Validate the fixture without writing")
	flag.Parse()

	items, err := seed.LoadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid fixture: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("DRY RUN - %d items in %s are valid\n", len(items), *file)
		for _, item := range items {
			fmt.Printf("  %-40s %s\n", item.Repo, item.Status)
		}
		return
	}

	cfg, err := config.Load("seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{URL: cfg.Database.ConnectionString()})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	repo := repositories.NewPortfolioItemRepository(audit.NewSecurityAuditor(logger))
	n, err := seed.Apply(ctx, database.NewScopeProvider(db), repo, items, logger)
	if err != nil {
		logger.Error("Seeding stopped", zap.Int("seeded", n), zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Seeded %d portfolio items\n", n)
}
