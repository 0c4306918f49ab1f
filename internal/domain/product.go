package domain

import "fmt"

type Category string

const (
	CategoryElectricGuitar Category = "electric-guitar"
	CategoryAcousticGuitar Category = "acoustic-guitar"
	CategoryBass           Category = "bass"
	CategoryKeyboard       Category = "keyboard"
	CategoryDrums          Category = "drums"
	CategoryMicrophone     Category = "microphone"
	CategoryStudio         Category = "studio"
	CategoryPedal          Category = "pedal"
	CategoryAmplifier      Category = "amplifier"
)

var Categories = []Category{
	CategoryElectricGuitar,
	CategoryAcousticGuitar,
	CategoryBass,
	CategoryKeyboard,
	CategoryDrums,
	CategoryMicrophone,
	CategoryStudio,
	CategoryPedal,
	CategoryAmplifier,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Product is a catalog record. Records are loaded once at startup and never
// mutated afterwards.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Image         string   `json:"image"`
	Category      Category `json:"category"`
	IsNew         bool     `json:"is_new"`
	IsHot         bool     `json:"is_hot"`
}

func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product %d: non-positive id", p.ID)
	}
	if p.Name == "" {
		return fmt.Errorf("product %d: empty name", p.ID)
	}
	if p.Price <= 0 {
		return fmt.Errorf("product %d: price must be positive", p.ID)
	}
	if p.OriginalPrice != nil && *p.OriginalPrice <= p.Price {
		return fmt.Errorf("product %d: original price must exceed price", p.ID)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("product %d: rating out of range", p.ID)
	}
	if p.Reviews < 0 {
		return fmt.Errorf("product %d: negative review count", p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("product %d: unknown category %q", p.ID, p.Category)
	}
	return nil
}

// OnSale reports whether the record carries a discount.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// Discount is the discount fraction (originalPrice − price) / originalPrice,
// 0 when no original price is present.
func (p Product) Discount() float64 {
	if !p.OnSale() {
		return 0
	}
	return (*p.OriginalPrice - p.Price) / *p.OriginalPrice
}

type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortNewest     SortKey = "newest"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
	SortBestDeal   SortKey = "best_deal"
)

// FilterState is the per-request view selection over the catalog. It is never
// persisted.
type FilterState struct {
	Query     string
	Category  string
	Brands    []string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating float64
	OnSale    bool
	Sort      SortKey
}
