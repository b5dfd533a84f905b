package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/whotypes/dndspawner/internal/audit"
	"github.com/whotypes/dndspawner/internal/config"
	"github.com/whotypes/dndspawner/internal/discord"
	"github.com/whotypes/dndspawner/internal/extensions"
	"github.com/whotypes/dndspawner/internal/logging"
	"github.com/whotypes/dndspawner/internal/status"
)

func main() {
	log := logging.New(os.Stdout, zerolog.InfoLevel, logging.DefaultSource)

	cfg, err := config.Load()
	if err != nil {
		logging.Critical(&log).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logging.Critical(&log).Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	log = logging.New(os.Stdout, level, logging.DefaultSource)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	store := newAuditStore(cfg, log)
	defer store.Close()

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logging.Critical(&log).Err(err).Msg("Failed to create Discord session")
		os.Exit(1)
	}

	client := discord.NewClient(log, extensions.Registry(), store, discord.Options{
		Prefix:       cfg.BotPrefix,
		Owners:       cfg.OwnerIDs,
		SyncCommands: cfg.SyncSlashCommands,
	})
	defer client.Close()

	dg.AddHandler(client.OnReady)
	dg.AddHandler(client.HandleMessage)
	dg.AddHandler(client.HandleInteraction)

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if err := dg.Open(); err != nil {
		logging.Critical(&log).Err(err).Msg("Failed to open Discord connection")
		os.Exit(1)
	}
	defer dg.Close()

	var srv *status.Server
	if cfg.StatusAddr != "" {
		srv = status.NewServer(cfg.StatusAddr, client.StatusProvider(), store, log)
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("Status API disabled")
			srv = nil
		}
	}

	log.Info().Msgf("Bot is now running with prefix '%s'. Press CTRL-C to exit.", cfg.BotPrefix)
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case sig := <-sc:
		log.Info().Str("signal", sig.String()).Msg("Shutting down bot...")
	case <-client.Done():
		log.Info().Msg("Shutting down bot...")
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), status.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Status API forced to shutdown")
		}
	}
}

// newAuditStore prefers Firestore and falls back to memory when it is not
// configured or cannot be reached.
func newAuditStore(cfg *config.Config, log zerolog.Logger) audit.Store {
	if !cfg.AuditEnabled() {
		log.Info().Msg("Audit storage not configured; keeping command audit in memory")
		return audit.NewMemoryStore(cfg.AuditMemoryLimit)
	}
	fs, err := audit.NewFirestoreStore(context.Background(), cfg.FirestoreProjectID, cfg.FirestoreDatabaseID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Firestore audit storage; keeping command audit in memory")
		return audit.NewMemoryStore(cfg.AuditMemoryLimit)
	}
	log.Info().Str("project", cfg.FirestoreProjectID).Msg("Audit storage configured (Firestore)")
	return fs
}
