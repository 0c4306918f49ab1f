package domain

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CartLine is one cart entry: a product configuration (color + extras) and its
// quantity. Product fields are denormalized at time of add; extras pricing is
// never folded into ProductPrice.
type CartLine struct {
	ID                   string    `gorm:"primaryKey;size:64" json:"id"`
	UserID               string    `gorm:"size:64;index" json:"-"`
	ProductID            int       `gorm:"index" json:"product_id"`
	ProductName          string    `gorm:"size:180" json:"product_name"`
	ProductBrand         string    `gorm:"size:100" json:"product_brand"`
	ProductModel         string    `gorm:"size:140" json:"product_model"`
	ProductPrice         float64   `gorm:"type:decimal(12,2)" json:"product_price"`
	ProductOriginalPrice *float64  `gorm:"type:decimal(12,2)" json:"product_original_price,omitempty"`
	ProductImage         string    `gorm:"size:255" json:"product_image"`
	ProductCategory      string    `gorm:"size:100" json:"product_category"`
	Color                string    `gorm:"size:60" json:"color"`
	Extras               []string  `gorm:"type:jsonb;serializer:json" json:"extras"`
	Quantity             int       `gorm:"not null" json:"quantity"`
	CreatedAt            time.Time `json:"created_at"`
}

// Signature is the dedup key: product id, color, and the extras set in sorted
// order. Adding a line whose signature is already present increments the
// existing line instead of creating a duplicate.
func (l CartLine) Signature() string {
	extras := append([]string(nil), l.Extras...)
	sort.Strings(extras)
	return strconv.Itoa(l.ProductID) + "|" + l.Color + "|" + strings.Join(extras, ",")
}

func (l CartLine) Subtotal() float64 {
	return l.ProductPrice * float64(l.Quantity)
}

// CartStore is a cart persistence target already bound to its owner: a device
// slot for guests or a user id for signed-in customers.
type CartStore interface {
	List(ctx context.Context) ([]CartLine, error)
	Insert(ctx context.Context, line *CartLine) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
