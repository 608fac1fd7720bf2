package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID    int             `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// Record is one catalog product together with its available quantity.
type Record struct {
	Product
	Stock int
}

// Seed mirrors the products/stock document the inventory server is started
// from.
type Seed struct {
	Products []Product `json:"products"`
	Stock    []Stock   `json:"stock"`
}
