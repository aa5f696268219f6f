// Command sync performs a full catalog pull from the upstream API into
// the store. Run it to warm a fresh database before first traffic or to
// refresh reference data on a schedule.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tcgcollectr/internal/catalog"
	"tcgcollectr/internal/config"
	"tcgcollectr/internal/logging"
	"tcgcollectr/internal/platform/tcgdex"
	"tcgcollectr/internal/store"
)

const userAgent = "tcgcollectr-sync/1.0"

func main() {
	var (
		withCards = flag.Bool("cards", false, "Also fetch and store the card list of every set")
		timeout   = flag.Duration("timeout", 15*time.Minute, "Overall deadline for the sync")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pools, err := store.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	defer pools.Close()

	dex := tcgdex.NewClient(cfg.TCGdex.BaseURL, userAgent,
		cfg.TCGdex.Timeout, cfg.TCGdex.RequestsPerS, cfg.TCGdex.Burst)
	catalogStore := catalog.NewPostgresStore(pools.Read, pools.Service)

	start := time.Now()

	sets, err := dex.FetchSets(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("fetch sets")
	}
	if err := catalogStore.BulkUpsertSets(ctx, sets); err != nil {
		logger.Fatal().Err(err).Msg("store sets")
	}
	logger.Info().Int("sets", len(sets)).Msg("sets synced")

	failed := 0
	if *withCards {
		total := 0
		for _, s := range sets {
			cards, err := dex.FetchSetCards(ctx, s.ID)
			if err != nil {
				logger.Error().Err(err).Str("set_id", s.ID).Msg("fetch set cards")
				failed++
				continue
			}
			if err := catalogStore.BulkUpsertCards(ctx, cards); err != nil {
				logger.Error().Err(err).Str("set_id", s.ID).Msg("store set cards")
				failed++
				continue
			}
			total += len(cards)
		}
		logger.Info().Int("cards", total).Int("failed_sets", failed).Msg("cards synced")
	}

	logger.Info().Dur("took", time.Since(start)).Msg("catalog sync complete")
	if failed > 0 {
		os.Exit(1)
	}
}
