package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dwikikusuma/shoping-cart/internal/inventory/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Service is an in-memory product catalog with per-product stock.
type Service struct {
	mu      sync.RWMutex
	records map[int]domain.Record
}

func NewService(records []domain.Record) *Service {
	s := &Service{records: make(map[int]domain.Record, len(records))}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

// NewServiceFromSeed joins products with their stock entries. A product
// without a stock entry has nothing available.
func NewServiceFromSeed(ctx context.Context, src SeedSource) (*Service, error) {
	seed, err := src.LoadSeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	stock := make(map[int]int, len(seed.Stock))
	for _, st := range seed.Stock {
		stock[st.ID] = st.Amount
	}

	records := make([]domain.Record, 0, len(seed.Products))
	for _, p := range seed.Products {
		if p.ID <= 0 || strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrInvalidInput)
		}
		records = append(records, domain.Record{Product: p, Stock: stock[p.ID]})
	}
	return NewService(records), nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return r.Product, nil
}

func (s *Service) GetStock(ctx context.Context, id int) (domain.Stock, error) {
	if id <= 0 {
		return domain.Stock{}, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return domain.Stock{}, ErrNotFound
	}
	return domain.Stock{ID: id, Amount: r.Stock}, nil
}

// ListProducts returns products ordered by id.
func (s *Service) ListProducts(ctx context.Context) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Service) SetStock(ctx context.Context, id, amount int) (domain.Stock, error) {
	if amount < 0 {
		return domain.Stock{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return domain.Stock{}, ErrNotFound
	}
	r.Stock = amount
	s.records[id] = r
	return domain.Stock{ID: id, Amount: amount}, nil
}
