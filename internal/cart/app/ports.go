package app

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

type SnapshotStore interface {
	Load(ctx context.Context) (cart domain.Cart, found bool, err error)
	Save(ctx context.Context, cart domain.Cart) error
}

type Inventory interface {
	GetStock(ctx context.Context, productID int) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
}

// Notifier receives failed operation results. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, res Result)
}

type NotifierFunc func(ctx context.Context, res Result)

func (f NotifierFunc) Notify(ctx context.Context, res Result) { f(ctx, res) }
