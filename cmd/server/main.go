package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/internal/config"
	"github.com/stockai/advisor/internal/database"
	"github.com/stockai/advisor/internal/llm"
	"github.com/stockai/advisor/internal/modules/agents"
	"github.com/stockai/advisor/internal/modules/chat"
	"github.com/stockai/advisor/internal/modules/credentials"
	"github.com/stockai/advisor/internal/modules/market"
	"github.com/stockai/advisor/internal/modules/newsfeed"
	"github.com/stockai/advisor/internal/modules/profile"
	"github.com/stockai/advisor/internal/scheduler"
	"github.com/stockai/advisor/internal/server"
	"github.com/stockai/advisor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Stock Advisor")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Market data pipeline
	yahooClient := yahoo.NewClient(log)
	resolver := market.NewResolver(yahooClient, log)
	marketSvc := market.NewService(yahooClient, log)

	// LLM gateway shared by chat and all agents
	gateway := llm.NewGateway(log)

	// Analysis agents
	fundamental := agents.NewFundamentalAgent(marketSvc, gateway, log)
	technical := agents.NewTechnicalAgent(marketSvc, gateway, log)
	risk := agents.NewRiskAgent(marketSvc, gateway, log)
	sentiment := agents.NewSentimentAgent(gateway, log)
	news := agents.NewNewsAgent(yahooClient, log)
	advisor := agents.NewAdvisorAgent(marketSvc, gateway, log)

	chatSvc := chat.NewService(marketSvc, gateway, log)

	// Dashboard stores
	credRepo := credentials.NewRepository(db, log)
	profileRepo := profile.NewRepository(db, log)

	// Market news feed, refreshed in the background
	feed := newsfeed.NewService(log)

	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	refreshJob := newsfeed.NewRefreshJob(feed)
	if err := sched.AddJob(cfg.NewsFeedSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register news feed job")
	}

	// Warm the feed cache so the dashboard has headlines at boot
	go func() {
		if err := sched.RunNow(refreshJob); err != nil {
			log.Warn().Err(err).Msg("Initial news feed refresh failed")
		}
	}()

	// Initialize HTTP server
	srv := server.New(server.Deps{
		Log:         log,
		Config:      cfg,
		Resolver:    resolver,
		Market:      marketSvc,
		Fundamental: fundamental,
		Technical:   technical,
		Risk:        risk,
		Sentiment:   sentiment,
		News:        news,
		Advisor:     advisor,
		Chat:        chatSvc,
		Feed:        feed,
		Credentials: credRepo,
		Profile:     profileRepo,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
