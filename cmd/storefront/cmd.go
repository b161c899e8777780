package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MikeMC777/catering-ecom/internal/config"
	"github.com/MikeMC777/catering-ecom/internal/database"
	"github.com/MikeMC777/catering-ecom/internal/gateway"
	"github.com/MikeMC777/catering-ecom/internal/health"
	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/metrics"
	"github.com/MikeMC777/catering-ecom/internal/order"
	"github.com/MikeMC777/catering-ecom/internal/payment"
	"github.com/MikeMC777/catering-ecom/internal/product"
	"github.com/MikeMC777/catering-ecom/internal/session"
	"github.com/MikeMC777/catering-ecom/internal/storage"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Catering storefront API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logx.New(cfg.IsProduction())
			pool, err := database.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, migrate bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logx.New(cfg.IsProduction())
	if cfg.WeakJWTSecret() {
		log.Warn("JWT_SECRET is empty or the development default; session tokens can be forged")
	}
	if cfg.Gateway.ServerKey == "" {
		log.Warn("GATEWAY_SERVER_KEY is empty; every payment notification will be rejected")
	}

	pool, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	if migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	var revoker session.Revoker = session.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		revoker = session.NewRedisRevoker(rdb)
	}

	users := user.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	gw := gateway.New(cfg.Gateway.ServerKey, cfg.Gateway.Production)

	a := &app{
		log:      log,
		users:    users,
		products: products,
		orders:   orders,
		payments: payment.NewPGRepo(pool),
		placer:   &order.Placer{Orders: orders, Products: products},
		checkout: &payment.Checkout{
			Orders:   orders,
			Users:    users,
			Products: products,
			Gateway:  gw,
			BaseURL:  cfg.AppBaseURL,
		},
		reconciler: payment.NewReconciler(payment.NewPGLedger(pool), cfg.Gateway.ServerKey),
		sessions:   session.NewManager(users, revoker, disk, cfg.JWTSecret, cfg.SessionTTL),
		disk:       disk,
		metrics:    metrics.New(),
		ping:       pool.Ping,
	}
	if local, ok := disk.(*storage.LocalDisk); ok {
		a.localRoot = local.Root()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	hs := health.NewServer(log, health.Checker(pool.Ping))
	lis, err := hs.Listen(cfg.GRPCAddr)
	if err != nil {
		return err
	}
	go hs.Watch(ctx, 15*time.Second)

	errc := make(chan error, 2)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		log.Info("grpc health server listening", "addr", cfg.GRPCAddr)
		if err := hs.Serve(lis); err != nil {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		log.Error("server failed", "error", err)
		shutdown(srv, hs, log)
		return err
	}
	shutdown(srv, hs, log)
	return nil
}

func shutdown(srv *http.Server, hs *health.Server, log *slog.Logger) {
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	hs.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
}
