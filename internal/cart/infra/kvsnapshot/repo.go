package kvsnapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/kv"
)

const DefaultKey = "@RocketShoes:cart"

var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// Repo stores the whole cart as one JSON array under a fixed key.
type Repo struct {
	store kv.Store
	key   string
}

func NewRepo(store kv.Store, key string) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{store: store, key: key}
}

func (r *Repo) Key() string { return r.key }

func (r *Repo) Load(ctx context.Context) (domain.Cart, bool, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", r.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, true, nil
}

func (r *Repo) Save(ctx context.Context, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
