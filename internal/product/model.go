package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is owned by the catalog. Checkout only ever touches Stock.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Active    bool            `json:"active"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
