package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"

	"minibizz/planning/internal/auth"
	"minibizz/planning/internal/config"
	"minibizz/planning/internal/reminders"
	"minibizz/planning/internal/service/scheduling"
	"minibizz/planning/internal/store"
	"minibizz/planning/internal/store/filestore"
	"minibizz/planning/internal/store/memory"
	"minibizz/planning/internal/store/postgres"
	"minibizz/planning/internal/store/sqlite"
	grpcTransport "minibizz/planning/internal/transport/grpc"
	httpTransport "minibizz/planning/internal/transport/http"
)

const serviceName = "planning-server"

func main() {
	issueToken := pflag.String("issue-token", "", "print a bearer token for the given owner and exit")
	tokenTTL := pflag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by --issue-token")
	pflag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	if *issueToken != "" {
		token, err := auth.IssueToken(cfg.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			log.Error("token issue failed", slog.Any("err", err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	log.Info(
		"starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.String("timezone", cfg.Location.String()),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collections, closeStore, err := openCollections(ctx, log, cfg)
	if err != nil {
		log.Error("storage open failed", slog.Any("err", err), slog.String("storage_driver", cfg.StorageDriver))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("storage close failed", slog.Any("err", err))
		}
	}()

	svc := scheduling.NewService(
		store.NewAppointmentRepo(collections),
		store.NewBlockRepo(collections),
		store.NewDocumentRepo(collections),
		scheduling.Options{
			Location:         cfg.Location,
			Hours:            cfg.WorkingHours,
			ExpandRecurrence: cfg.ExpandRecurrence,
		},
	)

	authCfg := auth.Config{
		Secret:       cfg.JWTSecret,
		Disabled:     cfg.AuthDisabled,
		DefaultOwner: cfg.DefaultOwner,
	}

	grpcServer, _ := grpcTransport.NewServer(
		grpcTransport.NewSchedulingServer(svc, log),
		authCfg,
		grpc.ChainUnaryInterceptor(defaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout)),
	)
	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	httpServer := httpTransport.NewServer(
		httpTransport.NewHandler(svc, log),
		httpTransport.OwnerMiddleware(authCfg),
	)

	var scheduler *reminders.Scheduler
	if cfg.Reminders.Enabled {
		scheduler = reminders.NewScheduler(svc, newNotifier(log, cfg), log, reminders.Options{
			Owners:   cfg.Reminders.Owners,
			Location: cfg.Location,
		})
		if err := scheduler.Start(cfg.Reminders.Spec); err != nil {
			log.Error("reminder scheduler failed", slog.Any("err", err))
			os.Exit(1)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
		}
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
}

func openCollections(ctx context.Context, log *slog.Logger, cfg config.Config) (store.Collections, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), noop, nil

	case config.DriverFile:
		fs, err := filestore.New(afero.NewOsFs(), cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file storage", slog.String("dir", cfg.StorageDir))
		return fs, noop, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using sqlite storage", slog.String("path", cfg.SQLitePath))
		return s, s.Close, nil

	case config.DriverPostgres:
		log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
		db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		})
		if err != nil {
			args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
			log.Error("database connection failed", args...)
			return nil, nil, err
		}
		cs := postgres.NewCollectionStore(db)
		if err := cs.EnsureSchema(ctx); err != nil {
			_ = postgres.Close(db)
			return nil, nil, err
		}
		return cs, func() error { return postgres.Close(db) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func newNotifier(log *slog.Logger, cfg config.Config) reminders.Notifier {
	smtp := cfg.Reminders.SMTP
	if smtp.Host == "" {
		return reminders.NewLogNotifier(log)
	}
	return reminders.NewMailNotifier(reminders.SMTPConfig{
		Host:     smtp.Host,
		Port:     smtp.Port,
		Username: smtp.Username,
		Password: smtp.Password,
		From:     smtp.From,
		To:       smtp.To,
	}, cfg.Location)
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, e *echo.Echo, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Warn("http shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
