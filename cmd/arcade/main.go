// Package main is the entry point for the token economy engine daemon.
// It wires the pricing curve, daily shop, claim gate, draw pot and lootbox
// services onto PostgreSQL and runs the post-midnight draw resolver.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stock-arcade/internal/config"
	"stock-arcade/internal/economy"
	"stock-arcade/internal/lootbox"
	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/pkg/db"
	"stock-arcade/internal/pkg/pricecache"
	"stock-arcade/internal/repository"
	"stock-arcade/internal/service"
	"stock-arcade/internal/shop"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Weight tables are static reference data; a malformed table must stop
	// the process here rather than bias draws silently.
	if err := shop.ValidateTables(); err != nil {
		log.Fatal().Err(err).Msg("Invalid shop weight tables")
	}
	if err := lootbox.ValidateDefinitions(); err != nil {
		log.Fatal().Err(err).Msg("Invalid lootbox definitions")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories used by the daemon. The claim, shop and
	// lootbox services are library surface for the request handlers; the
	// daemon itself only reports the quote and settles the daily draw.
	userRepo := repository.NewUserRepository(dbPool.Pool)
	drawRepo := repository.NewDrawRepository(dbPool.Pool)

	// Initialize services
	clk := clock.Real{}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	curve := economy.NewCurve(&economy.Config{
		MaxTokenValue: cfg.Economy.MaxTokenValue,
		MinTokenValue: cfg.Economy.MinTokenValue,
		DecayK:        cfg.Economy.DecayK,
		MinInterest:   cfg.Economy.MinInterest,
		MaxInterest:   cfg.Economy.MaxInterest,
	})
	quoteCache := pricecache.New(cfg.Economy.QuoteCacheTTL, clk)

	economyService := service.NewEconomyService(userRepo, curve, quoteCache)
	drawService := service.NewDrawService(drawRepo, clk, rng)

	if quote, err := economyService.Quote(ctx); err == nil {
		log.Info().
			Float64("token_value_usd", quote.TokenValueUSD).
			Float64("interest_rate", quote.InterestRate).
			Msg("Current token quote")
	}

	// Resolve yesterday's pot shortly after each UTC midnight. Resolve is
	// idempotent per day, so a missed or duplicated tick is harmless.
	go runDrawResolver(ctx, drawService, clk, cfg.Draw.ResolveDelay)

	log.Info().Msg("Token economy engine started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	log.Info().Msg("Engine stopped gracefully")
}

// runDrawResolver settles the previous day's draw pot after each UTC
// midnight, delayed by resolveDelay to absorb clock skew between instances.
func runDrawResolver(ctx context.Context, drawService *service.DrawService, clk clock.Clock, resolveDelay time.Duration) {
	for {
		next := clock.NextMidnight(clk.Now()).Add(resolveDelay)
		wait := next.Sub(clk.Now())

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		result, err := drawService.ResolvePrevious(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve daily draw")
			continue
		}
		if result.Resolved {
			log.Info().
				Str("day", result.Day).
				Int64("winner_id", result.WinnerID).
				Int64("payout", result.Payout).
				Msg("Daily draw resolved")
		}
	}
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			balance DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: ledger table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			amount DOUBLE PRECISION NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_user_time ON ledger(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: ledger table created")

	// Migration 3: daily claims. The composite primary key is the claim
	// gate's uniqueness constraint.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS daily_claims (
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			claim_day VARCHAR(10) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			claimed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, claim_day)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: daily_claims table created")

	// Migration 4: draw entries
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draw_entries (
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			draw_day VARCHAR(10) NOT NULL,
			staked_tokens BIGINT NOT NULL CHECK (staked_tokens > 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, draw_day)
		);
		CREATE INDEX IF NOT EXISTS idx_draw_entries_day ON draw_entries(draw_day);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: draw_entries table created")

	// Migration 5: holdings and lootbox inventory
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS holdings (
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			stock_id VARCHAR(32) NOT NULL,
			quantity BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, stock_id)
		);
		CREATE TABLE IF NOT EXISTS lootbox_inventory (
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			box_id VARCHAR(32) NOT NULL,
			quantity BIGINT NOT NULL CHECK (quantity >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, box_id)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: holdings and lootbox_inventory tables created")

	// Migration 6: activities feed
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			kind VARCHAR(32) NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_activities_user_time ON activities(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: activities table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
