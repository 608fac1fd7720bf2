package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("cart item amount must be at least 1")
	ErrDuplicateProduct = errors.New("duplicate product in cart")
)

type Product struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Item is a product placed in the cart. Its JSON form is flat: the product
// fields followed by "amount".
type Item struct {
	Product
	Amount int `json:"amount"`
}

type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// Cart is ordered by insertion and unique by product id. Methods never modify
// the receiver; updates return a new Cart.
type Cart []Item

func (c Cart) Find(productID int) (Item, int, bool) {
	for i, it := range c {
		if it.ID == productID {
			return it, i, true
		}
	}
	return Item{}, -1, false
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) WithAmount(productID, amount int) Cart {
	out := c.Clone()
	for i := range out {
		if out[i].ID == productID {
			out[i] = Item{Product: out[i].Product, Amount: amount}
			break
		}
	}
	return out
}

func (c Cart) Append(item Item) Cart {
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, item)
}

func (c Cart) Without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

func (c Cart) Validate() error {
	seen := make(map[int]struct{}, len(c))
	for _, it := range c {
		if it.Amount < 1 {
			return fmt.Errorf("product %d: %w", it.ID, ErrInvalidAmount)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("product %d: %w", it.ID, ErrDuplicateProduct)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// Normalize drops entries that would break the cart invariants: non-positive
// amounts and repeated ids (the first occurrence wins).
func Normalize(c Cart) Cart {
	out := make(Cart, 0, len(c))
	seen := make(map[int]struct{}, len(c))
	for _, it := range c {
		if it.Amount < 1 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
