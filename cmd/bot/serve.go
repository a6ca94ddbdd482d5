package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/nature-bot/internal/config"
	"github.com/KirkDiggler/nature-bot/internal/handlers/discord"
	"github.com/KirkDiggler/nature-bot/internal/logging"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
	"github.com/KirkDiggler/nature-bot/internal/services"
	"github.com/KirkDiggler/nature-bot/internal/uuid"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve commands",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := connectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}()

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = intents

	provider := services.NewProvider(&services.ProviderConfig{
		CharacterRepository: characters.NewRedis(redisClient),
		Roles:               discord.NewRoleGranter(dg),
		UUIDGenerator:       uuid.NewGoogleUUIDGenerator(),
	})

	handler := discord.NewHandler(&discord.HandlerConfig{
		Context:         ctx,
		Session:         dg,
		ServiceProvider: provider,
	})

	// Dialogues block on gateway events, so events must stay asynchronous
	dg.SyncEvents = false
	dg.AddHandler(discord.RecoverMiddleware(dg, "interaction", handler.HandleInteraction))
	dg.AddHandler(handler.Waiter().OnMessageCreate)
	dg.AddHandler(handler.Waiter().OnReactionAdd)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	defer func() {
		if err := dg.Close(); err != nil {
			slog.Error("failed to close Discord connection", "error", err)
		}
	}()

	appID := cfg.Discord.AppID
	if appID == "" && dg.State != nil && dg.State.User != nil {
		appID = dg.State.User.ID
	}
	if err := handler.RegisterCommands(appID, cfg.Discord.GuildID); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	if cfg.Discord.GuildID == "" {
		slog.Info("registered global commands, they may take up to an hour to propagate")
	}

	slog.Info("bot is running", "app_id", appID, "guild_id", cfg.Discord.GuildID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := redisClient.Ping(gctx).Err(); err != nil && gctx.Err() == nil {
					slog.Warn("redis ping failed", "error", err)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down",
			"active_dialogues", provider.Dialogues.Len(),
			"pending_listeners", handler.Waiter().Pending())
		return nil
	})

	return g.Wait()
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
