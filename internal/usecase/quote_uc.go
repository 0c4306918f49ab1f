package usecase

import (
	"errors"
	"fmt"
)

// Colors is the fixed selectable palette shown on the product page.
var Colors = []string{"Black", "White", "Sunburst", "Natural", "Red", "Blue"}

const DefaultColor = "Black"

type Extra struct {
	Name  string
	Price float64
}

// Extras is the fixed add-on list. Extra pricing enters a quote only; the
// stored cart line keeps the base product price and the extras names.
var Extras = []Extra{
	{Name: "Hard Case", Price: 2499},
	{Name: "Guitar Strap", Price: 499},
	{Name: "Extra Strings", Price: 299},
	{Name: "Guitar Pick Set", Price: 199},
	{Name: "Tuner", Price: 899},
}

func ExtraPrice(name string) (float64, bool) {
	for _, e := range Extras {
		if e.Name == name {
			return e.Price, true
		}
	}
	return 0, false
}

func ValidColor(name string) bool {
	for _, c := range Colors {
		if c == name {
			return true
		}
	}
	return false
}

// QuoteUC is the single place the extras total is computed. Every view that
// displays a configured price goes through Quote so the cart page and the
// product page cannot drift.
type QuoteUC struct{}

// Quote computes (basePrice + sum of extra prices) * quantity.
func (QuoteUC) Quote(basePrice float64, extras []string, quantity int) (float64, error) {
	if quantity < 1 {
		return 0, errors.New("quantity must be at least 1")
	}
	if basePrice <= 0 {
		return 0, errors.New("base price must be positive")
	}
	total := basePrice
	for _, name := range extras {
		price, ok := ExtraPrice(name)
		if !ok {
			return 0, fmt.Errorf("unknown extra %q", name)
		}
		total += price
	}
	return total * float64(quantity), nil
}
