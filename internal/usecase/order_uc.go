package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/svaraband/storefront/internal/domain"
)

// DeliveryCost is the flat door-delivery fee; pickup is free.
const DeliveryCost = 819

type OrderUC struct {
	Orders domain.OrderRepo
}

// Checkout snapshots the cart lines into a placed order. Payment is outside
// this storefront; the order records what was bought and how it ships.
func (uc *OrderUC) Checkout(ctx context.Context, customer *domain.Customer, lines []domain.CartLine, method domain.ShippingMethod) (*domain.Order, error) {
	if customer == nil {
		return nil, errors.New("checkout requires a signed-in customer")
	}
	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}
	if method != domain.ShippingPickup && method != domain.ShippingDelivery {
		return nil, errors.New("unknown shipping method")
	}

	o := &domain.Order{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		Email:          customer.Email,
		Status:         domain.OrderStatusPlaced,
		ShippingMethod: method,
	}
	if method == domain.ShippingDelivery {
		o.ShippingCost = DeliveryCost
	}
	for _, l := range lines {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: l.ProductID,
			Title:     l.ProductBrand + " " + l.ProductName,
			Color:     l.Color,
			Extras:    append([]string(nil), l.Extras...),
			Qty:       l.Quantity,
			UnitPrice: l.ProductPrice,
		})
		o.Subtotal += l.Subtotal()
	}
	o.Total = o.Subtotal + o.ShippingCost

	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
