// Package notify holds the sinks that turn rejected cart operations into
// user-facing messages.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
)

type Notification struct {
	Op        app.Op      `json:"op"`
	Outcome   app.Outcome `json:"-"`
	ProductID int         `json:"product_id"`
	Message   string      `json:"message"`
}

func FromResult(res app.Result) Notification {
	return Notification{
		Op:        res.Op,
		Outcome:   res.Outcome,
		ProductID: res.ProductID,
		Message:   res.Message(),
	}
}

// Log writes each notification as a structured warning.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(ctx context.Context, res app.Result) {
	n := FromResult(res)
	l.log.WarnContext(ctx, n.Message,
		slog.String("op", string(n.Op)),
		slog.Int("product_id", n.ProductID),
		slog.String("outcome", n.Outcome.String()),
	)
}

// Recorder keeps every notification in order until drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(ctx context.Context, res app.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, FromResult(res))
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.items
	r.items = nil
	return out
}

type Multi []app.Notifier

func (m Multi) Notify(ctx context.Context, res app.Result) {
	for _, n := range m {
		n.Notify(ctx, res)
	}
}
