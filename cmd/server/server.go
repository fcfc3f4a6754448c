package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/theme-clash/internal/clients/history"
	"github.com/KirkDiggler/theme-clash/internal/engine"
	adminv1alpha1 "github.com/KirkDiggler/theme-clash/internal/handlers/admin/v1alpha1"
	"github.com/KirkDiggler/theme-clash/internal/handlers/ws"
	"github.com/KirkDiggler/theme-clash/internal/orchestrators/room"
	redisclient "github.com/KirkDiggler/theme-clash/internal/redis"
	gamestate "github.com/KirkDiggler/theme-clash/internal/repositories/game_state"
)

const (
	shutdownTimeout = 30 * time.Second
	dependencyPing  = 5 * time.Second
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the game server",
	Long:  `Start the websocket game server and the gRPC admin service.`,
	RunE:  runServer,
}

func init() {
	registerConfigFlags(serverCmd.Flags())
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags(), os.LookupEnv)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	recorder, closeRecorder, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	defer closeRecorder()

	rules, err := engine.New(&engine.Config{Roller: dice.DefaultRoller})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	hub := ws.NewHub()
	roomService, err := room.NewOrchestrator(&room.Config{
		Repository:  repo,
		Engine:      rules,
		Broadcaster: hub,
		Recorder:    recorder,
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create room orchestrator: %w", err)
	}

	wsHandler, err := ws.NewHandler(&ws.Config{Hub: hub, Service: roomService})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	adminHandler, err := adminv1alpha1.NewHandler(&adminv1alpha1.HandlerConfig{RoomService: roomService})
	if err != nil {
		return fmt.Errorf("failed to create admin handler: %w", err)
	}

	grpcSrv := newGRPCServer(adminHandler)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           wsHandler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()
	go func() {
		if err := roomService.Run(ctx); err != nil {
			errChan <- fmt.Errorf("room orchestrator stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")
	case runErr = <-errChan:
		slog.Error("server failed", "error", runErr)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		grpcSrv.Stop()
	case <-stopped:
	}

	if err := roomService.Shutdown(shutdownCtx); err != nil {
		slog.Warn("pending history calls abandoned", "error", err)
	}

	slog.Info("Server stopped")
	return runErr
}

func newGRPCServer(admin adminv1alpha1.RoomAdminServer) *grpc.Server {
	logger := grpc_logging.LoggerFunc(logFunc)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	adminv1alpha1.RegisterRoomAdminServer(srv, admin)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(adminv1alpha1.RoomAdminServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv
}

// logFunc adapts go-grpc-middleware logging to slog. The level values
// line up with slog's.
func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}

func newRepository(ctx context.Context, cfg *Config) (gamestate.Repository, func(), error) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-memory room store")
		return gamestate.NewInMemory(), func() {}, nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dependencyPing)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}

	repo, err := gamestate.NewRedisRepository(&gamestate.Config{Client: client, TTL: cfg.StateTTL})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to create room store: %w", err)
	}

	slog.Info("Using redis room store", "addr", cfg.RedisAddr, "ttl", cfg.StateTTL)
	return repo, func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}, nil
}

func newRecorder(cfg *Config) (history.Recorder, func(), error) {
	var (
		recorders []history.Recorder
		closers   []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.HistoryURL != "" {
		rec, err := history.NewHTTPRecorder(&history.HTTPConfig{URL: cfg.HistoryURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create history recorder: %w", err)
		}
		recorders = append(recorders, rec)
		slog.Info("Recording match history over HTTP", "url", cfg.HistoryURL)
	}

	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("theme-clash"))
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
		}
		closers = append(closers, func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("failed to drain nats connection", "error", err)
			}
		})

		rec, err := history.NewNATSRecorder(&history.NATSConfig{Conn: nc})
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to create nats recorder: %w", err)
		}
		recorders = append(recorders, rec)
		slog.Info("Publishing match history to NATS", "url", cfg.NATSURL)
	}

	return history.NewMulti(recorders...), closeAll, nil
}
