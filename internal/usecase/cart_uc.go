package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/svaraband/storefront/internal/domain"
)

type AddOptions struct {
	Color  string
	Extras []string
}

// CartUC owns the line items of one cart. The backing store is injected:
// a cookie slot for guests, the per-user remote store for signed-in
// customers. All mutations serialize on one mutex so two in-flight storage
// writes can never interleave, and every mutation is applied optimistically;
// a failed storage call is logged and otherwise swallowed, except that a
// failed insert does not keep the optimistic line.
type CartUC struct {
	mu    sync.Mutex
	store domain.CartStore
	lines []domain.CartLine
}

// NewCartUC loads the current lines from the store. A load failure (corrupt
// slot, storage error) is logged and yields an empty cart.
func NewCartUC(ctx context.Context, store domain.CartStore) *CartUC {
	uc := &CartUC{store: store}
	lines, err := store.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cart: load")
		return uc
	}
	uc.lines = lines
	return uc
}

// Add puts a product configuration in the cart. If a line with the same
// dedup signature already exists its quantity is incremented instead.
func (uc *CartUC) Add(ctx context.Context, p domain.Product, opts AddOptions) {
	color := strings.TrimSpace(opts.Color)
	if color == "" {
		color = DefaultColor
	}
	line := domain.CartLine{
		ProductID:            p.ID,
		ProductName:          p.Name,
		ProductBrand:         p.Brand,
		ProductModel:         p.Model,
		ProductPrice:         p.Price,
		ProductOriginalPrice: p.OriginalPrice,
		ProductImage:         p.Image,
		ProductCategory:      string(p.Category),
		Color:                color,
		Extras:               append([]string(nil), opts.Extras...),
		Quantity:             1,
		CreatedAt:            time.Now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.addLocked(ctx, line)
}

// addLocked inserts line or folds it into an existing line with the same
// signature. Caller holds the mutex.
func (uc *CartUC) addLocked(ctx context.Context, line domain.CartLine) {
	sig := line.Signature()
	for i := range uc.lines {
		if uc.lines[i].Signature() == sig {
			uc.setQuantityLocked(ctx, uc.lines[i].ID, uc.lines[i].Quantity+line.Quantity)
			return
		}
	}
	if err := uc.store.Insert(ctx, &line); err != nil {
		log.Error().Err(err).Int("product", line.ProductID).Msg("cart: insert")
		return
	}
	uc.lines = append(uc.lines, line)
}

// SetQuantity updates a line's quantity. A quantity of zero or less removes
// the line.
func (uc *CartUC) SetQuantity(ctx context.Context, id string, quantity int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.setQuantityLocked(ctx, id, quantity)
}

func (uc *CartUC) setQuantityLocked(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		uc.removeLocked(ctx, id)
		return
	}
	for i := range uc.lines {
		if uc.lines[i].ID == id {
			uc.lines[i].Quantity = quantity
			if err := uc.store.UpdateQuantity(ctx, id, quantity); err != nil {
				log.Error().Err(err).Str("line", id).Msg("cart: update quantity")
			}
			return
		}
	}
}

// Remove deletes a line. Unknown ids are a no-op.
func (uc *CartUC) Remove(ctx context.Context, id string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.removeLocked(ctx, id)
}

func (uc *CartUC) removeLocked(ctx context.Context, id string) {
	for i := range uc.lines {
		if uc.lines[i].ID == id {
			uc.lines = append(uc.lines[:i], uc.lines[i+1:]...)
			if err := uc.store.Delete(ctx, id); err != nil {
				log.Error().Err(err).Str("line", id).Msg("cart: delete")
			}
			return
		}
	}
}

// Clear empties the cart and its backing store.
func (uc *CartUC) Clear(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if err := uc.store.DeleteAll(ctx); err != nil {
		log.Error().Err(err).Msg("cart: clear")
	}
	uc.lines = nil
}

// MergeLocal replays lines held in a guest cart into this cart's store,
// preserving color, extras, and quantity. Ids are reassigned by the store.
// The one-shot sign-in merge: the caller clears the guest slot afterwards.
func (uc *CartUC) MergeLocal(ctx context.Context, lines []domain.CartLine) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		l.ID = ""
		l.UserID = ""
		l.CreatedAt = time.Now()
		uc.addLocked(ctx, l)
	}
}

// Total is the sum of price * quantity over all lines. Extras pricing is not part of
// the stored line price and is not included here.
func (uc *CartUC) Total() float64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	total := 0.0
	for _, l := range uc.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (uc *CartUC) ItemCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for _, l := range uc.lines {
		n += l.Quantity
	}
	return n
}

// Contains reports whether any line references the product id.
func (uc *CartUC) Contains(productID int) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, l := range uc.lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Lines returns a copy of the current line items in store order.
func (uc *CartUC) Lines() []domain.CartLine {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make([]domain.CartLine, len(uc.lines))
	copy(out, uc.lines)
	return out
}
