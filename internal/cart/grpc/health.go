package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "shoping.cart.v1.CartService"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the gRPC health status of the cart service in step
// with its snapshot storage.
type HealthReporter struct {
	srv      *health.Server
	storage  Pinger
	interval time.Duration
	log      *slog.Logger
}

func NewHealthReporter(srv *health.Server, storage Pinger, interval time.Duration, log *slog.Logger) *HealthReporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthReporter{srv: srv, storage: storage, interval: interval, log: log}
}

// Check pings storage once and publishes the result.
func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.storage.Ping(ctx); err != nil {
		h.log.Warn("cart storage ping failed", slog.Any("err", err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus(ServiceName, status)
	h.srv.SetServingStatus("", status)
	return status
}

// Run checks on every tick until ctx ends, then marks everything not serving.
func (h *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.srv.Shutdown()
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
