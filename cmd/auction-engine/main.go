package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"auction-engine/internal/adapters/notifier"
	"auction-engine/internal/adapters/redis"
	"auction-engine/internal/adapters/scheduler"
	"auction-engine/internal/adapters/store"
	"auction-engine/internal/app"
	"auction-engine/internal/config"
	"auction-engine/internal/ports/outbound"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting auction engine...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the durable record containers
	repoFactory, err := store.NewRepositoryFactory(store.RepositoryFactoryParams{
		Fs:     afero.NewOsFs(),
		Dir:    cfg.Store.DataDir,
		Logger: log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record containers")
	}
	auctionRepo := repoFactory.GetAuctionRepository()
	bidRepo := repoFactory.GetBidRepository()
	accountRepo := repoFactory.GetAccountRepository()

	log.Info().Str("data_dir", cfg.Store.DataDir).Msg("Record containers initialized")

	// Session registry for notification fanout; populated on login and
	// drained on logout by the transport collaborator.
	sessions := notifier.NewSessionRegistry(notifier.SessionRegistryParams{
		Buffer: cfg.Notifier.Buffer,
		Logger: log.Logger,
	})

	sink, closeSink := buildSink(cfg, sessions)
	log.Info().Str("kind", cfg.Notifier.Kind).Msg("Notification sink initialized")

	// Create auction scheduler
	auctionScheduler := scheduler.NewAuctionScheduler(scheduler.AuctionSchedulerParams{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		AccountRepo: accountRepo,
		Sink:        sink,
		Logger:      log.Logger,
	})

	// Re-arm lifecycle tasks for auctions that were pending or open when
	// the previous process stopped
	if err := auctionScheduler.Resume(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to resume auction schedules")
	}

	// Create business services
	auctionService := app.NewAuctionService(app.AuctionServiceParams{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		AccountRepo: accountRepo,
		Scheduler:   auctionScheduler,
		Logger:      log.Logger,
	})
	bidService := app.NewBidService(app.BidServiceParams{
		BidRepo:     bidRepo,
		AuctionRepo: auctionRepo,
		AccountRepo: accountRepo,
		Sink:        sink,
		Logger:      log.Logger,
	})
	accountService := app.NewAccountService(app.AccountServiceParams{
		AccountRepo: accountRepo,
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		Logger:      log.Logger,
	})

	engine := &app.Engine{
		Auctions: auctionService,
		Bids:     bidService,
		Accounts: accountService,
		Sessions: sessions,
	}

	auctions, err := engine.Auctions.ListAuctions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read the auction container")
	}
	log.Info().Int("auction_count", len(auctions)).Msg("Engine ready for the command layer")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Running lifecycle tasks are abandoned, not joined; they stop at
	// their next suspension point.
	auctionScheduler.Stop()
	closeSink()

	log.Info().Msg("Shutdown completed")
}

// buildSink selects the notification sink from configuration
func buildSink(cfg *config.Config, sessions *notifier.SessionRegistry) (outbound.NotificationSink, func()) {
	if cfg.Notifier.Kind == config.NotifierKindRedis {
		redisClient := redis.NewClient(cfg)
		if err := redis.PingRedis(redisClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis connection established")

		sink := notifier.NewRedisNotifier(notifier.RedisNotifierParams{
			RedisClient: redisClient,
			Logger:      log.Logger,
		})
		return sink, func() {
			if err := sink.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Redis notifier")
			}
		}
	}

	sink := notifier.NewChannelNotifier(notifier.ChannelNotifierParams{
		Registry:    sessions,
		MaxWorkers:  cfg.Notifier.MaxWorkers,
		MaxCapacity: cfg.Notifier.MaxCapacity,
		Logger:      log.Logger,
	})
	return sink, sink.Close
}

func initLogging(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.Logging.Format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.DefaultContextLogger = &log.Logger
}
