package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	cartgrpc "github.com/dwikikusuma/shoping-cart/internal/cart/grpc"
	carthttp "github.com/dwikikusuma/shoping-cart/internal/cart/httpapi"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/inventoryhttp"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/kvsnapshot"
	"github.com/dwikikusuma/shoping-cart/internal/cart/notify"

	invapp "github.com/dwikikusuma/shoping-cart/internal/inventory/app"
	"github.com/dwikikusuma/shoping-cart/internal/inventory/infra/seedfile"

	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/dwikikusuma/shoping-cart/pkg/kv"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/dwikikusuma/shoping-cart/pkg/shutdown"
	"github.com/dwikikusuma/shoping-cart/pkg/tracing"
)

var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "cartd", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	stopTracing, err := tracing.Init(ctx, tracing.Options{
		Service:  "cartd",
		Version:  version,
		Endpoint: cfg.OTelEndpoint,
		Enabled:  cfg.OTelEnabled,
	})
	if err != nil {
		log.Error("tracing init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := stopTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown error", slog.Any("err", err))
		}
	}()

	storage, closeStorage := mustStorage(ctx, cfg, log)
	defer closeStorage()

	inventory := mustInventory(ctx, cfg, log)

	store := cartapp.NewStore(ctx,
		kvsnapshot.NewRepo(storage, cfg.StorageKey),
		inventory,
		cartapp.WithNotifier(notify.NewLog(log)),
		cartapp.WithLogger(log),
		cartapp.WithLookupTimeout(cfg.LookupTimeout),
	)
	log.Info("cart loaded", slog.Int("items", len(store.Cart())), slog.String("storage", cfg.Storage))

	router := httpx.NewRouter("cartd", log)
	carthttp.NewServer(store, storage).Routes(router)
	httpServer := httpx.NewServer(fmt.Sprintf(":%d", cfg.HTTPPort), router)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", grpcAddr))
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	reporter := cartgrpc.NewHealthReporter(healthSrv, storage, 10*time.Second, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error { return reporter.Run(gctx) })

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()

		if err := httpServer.Shutdown(stopCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopCtx.Done():
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.Any("err", err))
	}
	log.Info("bye")
}

func mustStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (kv.Store, func()) {
	switch cfg.Storage {
	case "memory":
		return kv.NewMemory(), func() {}
	case "file":
		f, err := kv.OpenFile(cfg.StoragePath)
		if err != nil {
			log.Error("open storage file failed", slog.Any("err", err), slog.String("path", cfg.StoragePath))
			os.Exit(1)
		}
		return f, func() {}
	case "redis":
		r := kv.NewRedis(cfg.RedisAddr, log)
		if err := r.Initialize(ctx); err != nil {
			log.Error("redis init failed", slog.Any("err", err))
			os.Exit(1)
		}
		return r, func() {
			if err := r.Close(); err != nil {
				log.Warn("redis close error", slog.Any("err", err))
			}
		}
	default:
		log.Error("unknown storage backend", slog.String("storage", cfg.Storage))
		os.Exit(1)
		return nil, nil
	}
}

func mustInventory(ctx context.Context, cfg config.Config, log *slog.Logger) cartapp.Inventory {
	if cfg.InventoryURL != "" {
		log.Info("using remote inventory", slog.String("url", cfg.InventoryURL))
		return inventoryhttp.NewClient(cfg.InventoryURL, nil)
	}

	svc, err := invapp.NewServiceFromSeed(ctx, seedfile.Loader{Path: cfg.InventorySeed})
	if err != nil {
		log.Error("inventory seed failed", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("using in-process inventory", slog.String("seed", cfg.InventorySeed))
	return adapter.NewInventoryReader(svc)
}
