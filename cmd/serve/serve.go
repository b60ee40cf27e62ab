// Package serve implements the serve command, which runs the full notifier
// service: scheduled scraping, alert dispatch, and the HTTP API.
package serve

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/saspirant/notifier/cmd/common"
	"github.com/saspirant/notifier/internal/api"
	"github.com/saspirant/notifier/internal/config"
	"github.com/saspirant/notifier/internal/email"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/orchestrator"
	"github.com/saspirant/notifier/internal/scraper"
	"github.com/saspirant/notifier/internal/transport"
)

const redisPingTimeout = 5 * time.Second

// Command creates the serve command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the notifier service",
		Long:  `Starts scheduled polling of all active sources and serves the HTTP API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfgFile, *debug)
		},
	}
}

func run(parent context.Context, cfgFile string, debug bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := common.NewDeps(ctx, cfgFile, debug)
	if err != nil {
		return err
	}
	defer deps.DB.Close()

	log := deps.Logger
	cfg := deps.Config

	engine, deliverer, cleanup := BuildPipeline(ctx, cfg, log)
	defer cleanup()

	orch := orchestrator.New(deps.Stores, engine, deliverer, log, cfg.Scheduler.RetryDelay)
	if err := orch.Start(ctx); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}
	defer orch.Stop()

	server := api.NewServer(cfg.Server.Address, api.NewHandler(orch, log), log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info("Notifier service started",
		"environment", cfg.App.Environment,
		"address", cfg.Server.Address)

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	if err := server.Stop(context.Background()); err != nil {
		log.Error("API server shutdown failed", "error", err)
	}
	return nil
}

// BuildPipeline wires the scraper engine and email deliverer from
// configuration. The returned cleanup releases the Redis connection and must
// be called when the pipeline is no longer needed.
func BuildPipeline(
	ctx context.Context,
	cfg *config.Config,
	log logger.Interface,
) (*scraper.Engine, *email.Service, func()) {
	engine := buildEngine(cfg, log)
	deliverer, redisClient := buildDeliverer(ctx, cfg, log)

	cleanup := func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}
	return engine, deliverer, cleanup
}

// buildEngine wires the fetch, render, and PDF layers into a scraper engine.
func buildEngine(cfg *config.Config, log logger.Interface) *scraper.Engine {
	fetcher := transport.NewClient(transport.FetcherConfig{
		MaxAttempts:    cfg.Scraper.MaxAttempts,
		RetryDelay:     cfg.Scraper.RetryDelay,
		RequestTimeout: cfg.Scraper.RequestTimeout,
		InsecureTLS:    cfg.Scraper.InsecureTLS,
	}, log)

	var renderer transport.Renderer
	if cfg.Scraper.RendererEnabled {
		renderer = transport.NewChromeRenderer(cfg.Scraper.RenderTimeout, log)
	} else {
		log.Info("Headless rendering disabled, JavaScript-heavy portals will be skipped")
	}

	return scraper.NewEngine(fetcher, renderer, transport.NewPDFExtractor(), log)
}

// buildDeliverer wires the email service. Without a SendGrid key the service
// logs instead of sending, and without Redis it runs with no daily quota.
func buildDeliverer(ctx context.Context, cfg *config.Config, log logger.Interface) (*email.Service, *redis.Client) {
	var sender email.Sender
	sgSender, err := email.NewSendGridSender(email.SendGridConfig{
		APIKey:    cfg.Email.SendGridAPIKey,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	switch {
	case err == nil:
		sender = sgSender
	case errors.Is(err, email.ErrMissingAPIKey):
		log.Warn("No SendGrid API key configured, emails will be logged instead of sent")
		sender = email.NewLogSender(log)
	default:
		log.Error("Failed to create email sender, falling back to logging", "error", err)
		sender = email.NewLogSender(log)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	var counter *email.DailyCounter
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, daily email quotas disabled", "error", err)
		redisClient.Close()
		redisClient = nil
	} else {
		counter = email.NewDailyCounter(redisClient, cfg.Email.DailyLimit, cfg.Email.DigestThreshold)
	}

	return email.NewService(sender, counter, log), redisClient
}
