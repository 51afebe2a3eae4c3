// Package main is the entry point for the Blobby casino bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"blobby-bot/internal/bot"
	"blobby-bot/internal/config"
	"blobby-bot/internal/game"
	"blobby-bot/internal/game/coinflip"
	"blobby-bot/internal/game/dice"
	"blobby-bot/internal/game/slot"
	"blobby-bot/internal/pkg/db"
	"blobby-bot/internal/service"
	"blobby-bot/internal/stats"
	"blobby-bot/internal/store"
	"blobby-bot/internal/vip"
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

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the blob store backend
	blobStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob store")
	}
	defer blobStore.Close()

	// Initialize core services
	statsService := stats.NewService(blobStore, time.Local)
	vipService := vip.NewService(blobStore, time.Local)
	walletService := service.NewWalletService(blobStore)

	// Initialize game registry and register games
	gameRegistry := game.NewRegistry()

	flipGame := coinflip.New(&coinflip.Config{
		MaxBet:   cfg.Games.CoinFlip.MaxBet,
		Cooldown: cfg.Games.CoinFlip.CooldownSeconds,
	})
	if err := gameRegistry.Register(flipGame); err != nil {
		log.Fatal().Err(err).Msg("Failed to register coin flip game")
	}

	diceGame := dice.New(&dice.Config{
		MaxBet:   cfg.Games.Dice.MaxBet,
		Cooldown: cfg.Games.Dice.CooldownSeconds,
	})
	if err := gameRegistry.Register(diceGame); err != nil {
		log.Fatal().Err(err).Msg("Failed to register dice game")
	}

	slotGame := slot.New(&slot.Config{
		MaxBet:   cfg.Games.Slot.MaxBet,
		Cooldown: cfg.Games.Slot.CooldownSeconds,
	})
	if err := gameRegistry.Register(slotGame); err != nil {
		log.Fatal().Err(err).Msg("Failed to register slot game")
	}

	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	// Initialize orchestration services
	casinoService := service.NewCasinoService(
		walletService,
		statsService,
		vipService,
		gameRegistry,
		cfg.Economy.JackpotContributionRate,
	)

	shopService := service.NewShopService(
		blobStore,
		walletService,
		vipService,
		time.Duration(cfg.Economy.OfferDurationMinutes)*time.Minute,
	)

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:        cfg,
		WalletService: walletService,
		CasinoService: casinoService,
		ShopService:   shopService,
		StatsService:  statsService,
		VIPService:    vipService,
	}

	// Initialize bot
	blobbyBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		blobbyBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	blobbyBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// newStore builds the configured blob store backend.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "file", "":
		return store.NewFileStore(cfg.Storage.File.Dir)

	case "postgres":
		pool, err := db.NewPool(ctx, &cfg.Storage.Database)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(ctx, pool.Pool)

	case "redis":
		return store.NewRedisStore(ctx, cfg.Storage.Redis.Addr, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
