package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ShippingMethod string

const (
	ShippingPickup   ShippingMethod = "pickup"
	ShippingDelivery ShippingMethod = "delivery"
)

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "placed"
)

type Order struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;index"`
	Email          string         `gorm:"size:140"`
	Status         OrderStatus    `gorm:"type:varchar(30);index"`
	Items          []OrderItem
	Subtotal       float64        `gorm:"type:decimal(12,2)"`
	ShippingMethod ShippingMethod `gorm:"type:varchar(30)"`
	ShippingCost   float64        `gorm:"type:decimal(12,2)"`
	Total          float64        `gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID int       `gorm:"index"`
	Title     string    `gorm:"size:180"`
	Color     string    `gorm:"size:60"`
	Extras    []string  `gorm:"type:jsonb;serializer:json"`
	Qty       int       `gorm:"not null"`
	UnitPrice float64   `gorm:"type:decimal(12,2)"`
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
}
