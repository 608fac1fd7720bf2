package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const DefaultLookupTimeout = 5 * time.Second

var ErrProductMismatch = errors.New("catalog returned a different product")

// Store owns the authoritative cart. Mutations run one at a time per Store;
// reads return a copy of the last committed snapshot and never wait on a
// mutation's remote lookups.
type Store struct {
	snapshots SnapshotStore
	inventory Inventory
	notifier  Notifier
	log       *slog.Logger
	tracer    trace.Tracer

	lookupTimeout time.Duration
	sem           *semaphore.Weighted

	mu   sync.RWMutex
	cart domain.Cart
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithLookupTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// NewStore hydrates the cart from snapshots once. A missing or unreadable
// snapshot yields an empty cart.
func NewStore(ctx context.Context, snapshots SnapshotStore, inventory Inventory, opts ...Option) *Store {
	s := &Store{
		snapshots:     snapshots,
		inventory:     inventory,
		log:           slog.Default(),
		tracer:        otel.Tracer("cartstore"),
		lookupTimeout: DefaultLookupTimeout,
		sem:           semaphore.NewWeighted(1),
		cart:          domain.Cart{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "cartstore")

	cart, found, err := snapshots.Load(ctx)
	switch {
	case err != nil:
		s.log.Warn("cart snapshot unreadable, starting empty", slog.Any("err", err))
	case found:
		s.cart = domain.Normalize(cart)
		if len(s.cart) != len(cart) {
			s.log.Warn("dropped invalid cart entries", slog.Int("loaded", len(cart)), slog.Int("kept", len(s.cart)))
		}
	}
	return s
}

func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Clone()
}

func (s *Store) AddProduct(ctx context.Context, productID int) Result {
	ctx, span := s.tracer.Start(ctx, "AddProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	res := s.addProduct(ctx, productID)
	s.report(ctx, span, res)
	return res
}

func (s *Store) RemoveProduct(ctx context.Context, productID int) Result {
	ctx, span := s.tracer.Start(ctx, "RemoveProduct", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	res := s.removeProduct(ctx, productID)
	s.report(ctx, span, res)
	return res
}

type UpdateAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

func (s *Store) UpdateProductAmount(ctx context.Context, req UpdateAmount) Result {
	ctx, span := s.tracer.Start(ctx, "UpdateProductAmount", trace.WithAttributes(
		attribute.Int("product.id", req.ProductID),
		attribute.Int("product.amount", req.Amount),
	))
	defer span.End()

	res := s.updateProductAmount(ctx, req)
	s.report(ctx, span, res)
	return res
}

func (s *Store) addProduct(ctx context.Context, productID int) Result {
	res := Result{Op: OpAdd, ProductID: productID}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return res.fail(err)
	}
	defer s.sem.Release(1)

	current := s.Cart()
	existing, _, found := current.Find(productID)

	currentAmount := 0
	if found {
		currentAmount = existing.Amount
	}
	res.Requested = currentAmount + 1

	stock, err := s.getStock(ctx, productID)
	if err != nil {
		return res.fail(err)
	}
	res.Available = stock.Amount

	if res.Requested > stock.Amount {
		res.Outcome = StockExceeded
		return res
	}

	var next domain.Cart
	if found {
		next = current.WithAmount(productID, res.Requested)
	} else {
		product, err := s.getProduct(ctx, productID)
		if err != nil {
			return res.fail(err)
		}
		next = current.Append(domain.Item{Product: product, Amount: 1})
	}

	s.commit(ctx, next)
	res.Outcome = Committed
	return res
}

func (s *Store) removeProduct(ctx context.Context, productID int) Result {
	res := Result{Op: OpRemove, ProductID: productID}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return res.fail(err)
	}
	defer s.sem.Release(1)

	current := s.Cart()
	if _, _, found := current.Find(productID); !found {
		res.Outcome = NotFound
		return res
	}

	s.commit(ctx, current.Without(productID))
	res.Outcome = Committed
	return res
}

func (s *Store) updateProductAmount(ctx context.Context, req UpdateAmount) Result {
	res := Result{Op: OpUpdate, ProductID: req.ProductID, Requested: req.Amount}

	if req.Amount <= 0 {
		res.Outcome = Ignored
		return res
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return res.fail(err)
	}
	defer s.sem.Release(1)

	stock, err := s.getStock(ctx, req.ProductID)
	if err != nil {
		return res.fail(err)
	}
	res.Available = stock.Amount

	if req.Amount > stock.Amount {
		res.Outcome = StockExceeded
		return res
	}

	current := s.Cart()
	if _, _, found := current.Find(req.ProductID); !found {
		res.Outcome = NotFound
		return res
	}

	s.commit(ctx, current.WithAmount(req.ProductID, req.Amount))
	res.Outcome = Committed
	return res
}

// commit swaps in the new snapshot and persists it. The in-memory commit
// stands even when the save fails.
func (s *Store) commit(ctx context.Context, next domain.Cart) {
	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()

	if err := s.snapshots.Save(context.WithoutCancel(ctx), next); err != nil {
		s.log.Error("persist cart failed", slog.Any("err", err), slog.Int("items", len(next)))
	}
}

func (s *Store) getStock(ctx context.Context, productID int) (domain.Stock, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("get stock %d: %w", productID, err)
	}
	return stock, nil
}

func (s *Store) getProduct(ctx context.Context, productID int) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", productID, err)
	}
	if product.ID != productID {
		return domain.Product{}, fmt.Errorf("product %d: %w (got %d)", productID, ErrProductMismatch, product.ID)
	}
	return product, nil
}

func (s *Store) report(ctx context.Context, span trace.Span, res Result) {
	span.SetAttributes(attribute.String("cart.outcome", res.Outcome.String()))

	attrs := []any{
		slog.String("op", string(res.Op)),
		slog.Int("product_id", res.ProductID),
		slog.String("outcome", res.Outcome.String()),
	}
	if res.Err != nil {
		attrs = append(attrs, slog.Any("err", res.Err))
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	}

	if res.OK() {
		s.log.Debug("cart operation", attrs...)
		return
	}
	s.log.Warn("cart operation rejected", attrs...)

	if s.notifier != nil {
		s.notifier.Notify(ctx, res)
	}
}

func (r Result) fail(err error) Result {
	r.Outcome = Failed
	r.Err = err
	return r
}
