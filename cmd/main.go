package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/config"
	"github.com/Dosada05/tournament-engine/db"
	"github.com/Dosada05/tournament-engine/events"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/routes"
	"github.com/Dosada05/tournament-engine/scheduler"
	"github.com/Dosada05/tournament-engine/services"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/Dosada05/tournament-engine/telemetry"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()
	if cfg.Tracing.Enabled() {
		logger.Info("tracing enabled", slog.String("endpoint", cfg.Tracing.Endpoint))
	}

	var (
		dbConn *sql.DB
		repo   repositories.TournamentRepository
		checks = map[string]handlers.HealthChecker{}
	)
	if cfg.DatabaseURL != "" {
		dbConn, err = db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(ctx, dbConn, logger); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repo = repositories.NewPostgresTournamentRepository(dbConn)
		checks["postgres"] = handlers.HealthCheckFunc(dbConn.PingContext)
		logger.Info("database connection established")
	} else {
		repo = repositories.NewMemoryTournamentRepository()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	seeder, err := brackets.NewSeeder(cfg.SeedingPolicy, cfg.SeedingRandomSeed)
	if err != nil {
		return err
	}

	wsHub := brackets.NewHub(logger)
	publishers := events.Fanout{wsHub}

	if cfg.Kafka.Enabled() {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("failed to close kafka producer", slog.Any("error", err))
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		logger.Info("kafka publisher connected", slog.String("topic", cfg.Kafka.Topic))
	}

	if cfg.Redis.Enabled() {
		rdb, err := events.OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.Redis.ChannelPrefix))
		checks["redis"] = handlers.HealthCheckFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		logger.Info("redis publisher connected", slog.String("channel_prefix", cfg.Redis.ChannelPrefix))
	}

	var archiver services.BracketArchiver
	if cfg.R2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewBracketArchiver(uploader)
		logger.Info("Cloudflare R2 bracket archive enabled", slog.String("bucket", cfg.R2.BucketName))
	}

	deps := services.Deps{
		Repo:     repo,
		Notifier: publishers,
		Logger:   logger,
		Tracer:   otel.Tracer("github.com/Dosada05/tournament-engine/services"),
	}
	bracketService := services.NewBracketService(deps, seeder)
	tournamentService := services.NewTournamentService(deps, bracketService)
	participantService := services.NewParticipantService(deps)
	matchService := services.NewMatchService(deps, archiver)
	logger.Info("services initialized")

	lifecycle, err := scheduler.New(tournamentService, cfg.SchedulerInterval, logger)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routes.Options{
			Logger:         logger,
			Authenticator:  middleware.NewAuthenticator(cfg.JWTSecretKey, logger),
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		handlers.NewTournamentHandler(tournamentService, bracketService),
		handlers.NewParticipantHandler(participantService),
		handlers.NewMatchHandler(matchService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger),
		handlers.NewHealthHandler(checks, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wsHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return lifecycle.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}
