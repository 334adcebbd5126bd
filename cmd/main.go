package main

import (
	"chat-relay/domain"
	"chat-relay/infrastructure/websocket"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/projection"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Optional moderation
	censor, err := buildCensor(log, config)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	// 3. Relay core
	presence := repositories.NewPresenceRepository()
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log, config.MetricInterval).
		WithProviders(
			func() (int, []string) {
				identities := presence.All()
				return len(identities), projection.ActiveRooms(identities)
			},
			func() int {
				connections, _ := registry.Counts()
				return connections
			},
		)

	policy := domain.JoinPolicy{Strict: config.StrictJoin, ReserveAdmin: config.ReserveAdminName}
	coordinator := runtime.NewCoordinator(log, presence, domain.NewFormatter(time.Now, config.TimeLayout), policy, censor)
	gateway := runtime.NewGateway(log, registry, monitoring)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, registry, coordinator, gateway, monitoring, config.CommandBufferSize).
		SampleQueues(config.MetricInterval).
		Add(monitoring)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// 5. HTTP server
	service := services.NewChatService(log, orchestrator, monitoring)
	wsServer := websocket.NewServer(log, service, websocket.Config{
		PingInterval:         config.PingInterval,
		PongWait:             config.PongWait,
		WriteWait:            config.WriteWait,
		MaxMessageSize:       config.MaxMessageSize,
		ConnectionBufferSize: config.ConnectionBufferSize,
		AllowedOrigins:       config.Origins(),
	})
	mux := http.NewServeMux()
	wsServer.RegisterRoutes(mux)
	internal.RegisterDebugRoutes(mux, log, monitoring.GetLatest, presence.All)

	httpServer := &http.Server{
		Addr:        config.Address(),
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	// 6. Run everything until a signal or the first failure
	g.Go(func() error {
		return orchestrator.Start(gctx)
	})
	g.Go(func() error {
		log.Info("Starting websocket server", "address", config.Address(),
			"environment", config.Environment, "origins", config.Origins(), "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		orchestrator.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Program stopped cleanly")
	return nil
}

// buildCensor returns nil when no word is configured, moderation is off.
func buildCensor(log *slog.Logger, config internal.Config) (runtime.Censor, error) {
	words := config.Words()
	if config.CensoredWordsDir != "" {
		data, err := runtime.NewCensoredLoader(os.DirFS(config.CensoredWordsDir)).LoadAll(".")
		if err != nil {
			return nil, err
		}
		log.Info(fmt.Sprintf("%d censored files loaded", len(data.Languages)), "languages", data.Languages)
		words = append(words, data.Words...)
	}
	if len(words) == 0 {
		return nil, nil
	}

	char, err := internal.CharacterRune(config.CensorCharacter)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(words, char, log)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%d censored words loaded", len(words)))
	return moderator, nil
}
