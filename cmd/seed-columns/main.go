// seed-columns backfills default column selections for every user and
// client-user that has no entry for one or more modules. Existing entries are
// never touched, so the command can be rerun safely.
//
// Usage:
//
//	MONGO_URI=... MONGO_DB=... go run ./cmd/seed-columns [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
	"github.com/traderisk/risk-backoffice/internal/core/service"
	"github.com/traderisk/risk-backoffice/internal/infrastructure/db/mongo"
	"github.com/traderisk/risk-backoffice/internal/pkg/config"
	"github.com/traderisk/risk-backoffice/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "count owners without writing")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "seed-columns",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "seed-columns",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	prefs := mongo.NewPreferenceRepository(db)
	columns := service.NewColumnService(registry.Default(), prefs, log)

	for _, t := range []domain.CallerType{domain.CallerUser, domain.CallerClientUser} {
		owners, err := prefs.Owners(ctx, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list %s owners: %v\n", t, err)
			os.Exit(1)
		}
		if *dryRun {
			fmt.Printf("%s: %d owners (dry run)\n", t, len(owners))
			continue
		}

		var seeded, entries int
		for _, owner := range owners {
			added, err := columns.SeedDefaults(ctx, owner)
			if err != nil {
				log.Error().Err(err).Str("owner", owner.ID).Str("type", string(t)).Msg("seed failed")
				continue
			}
			if added > 0 {
				seeded++
				entries += added
			}
		}
		fmt.Printf("%s: %d owners, %d updated, %d module entries added\n", t, len(owners), seeded, entries)
	}
}
