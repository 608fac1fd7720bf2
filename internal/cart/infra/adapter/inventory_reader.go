package adapter

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	invapp "github.com/dwikikusuma/shoping-cart/internal/inventory/app"
)

// InventoryReader serves the cart's inventory port from an in-process
// inventory service.
type InventoryReader struct {
	svc *invapp.Service
}

func NewInventoryReader(svc *invapp.Service) *InventoryReader {
	return &InventoryReader{svc: svc}
}

func (r *InventoryReader) GetStock(ctx context.Context, productID int) (domain.Stock, error) {
	st, err := r.svc.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, err
	}
	return domain.Stock{ID: st.ID, Amount: st.Amount}, nil
}

func (r *InventoryReader) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
	}, nil
}
