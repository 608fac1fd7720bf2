package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	invapp "github.com/dwikikusuma/shoping-cart/internal/inventory/app"
	invhttp "github.com/dwikikusuma/shoping-cart/internal/inventory/httpapi"
	"github.com/dwikikusuma/shoping-cart/internal/inventory/infra/seedfile"
	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/dwikikusuma/shoping-cart/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "inventory",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	svc, err := invapp.NewServiceFromSeed(ctx, seedfile.Loader{Path: cfg.InventorySeed})
	if err != nil {
		log.Error("inventory seed failed", slog.Any("err", err))
		os.Exit(1)
	}

	router := httpx.NewRouter("inventory", log)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	invhttp.NewServer(svc).Routes(router)

	server := httpx.NewServer(fmt.Sprintf(":%d", cfg.InventoryPort), router)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", server.Addr), slog.Int("products", len(svc.ListProducts(ctx))))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
