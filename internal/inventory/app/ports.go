package app

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/inventory/domain"
)

type SeedSource interface {
	LoadSeed(ctx context.Context) (domain.Seed, error)
}
