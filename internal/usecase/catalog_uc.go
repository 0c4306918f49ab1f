package usecase

import (
	"sort"
	"strings"

	"github.com/svaraband/storefront/internal/catalog"
	"github.com/svaraband/storefront/internal/domain"
)

// Visible derives the product subset for a filter state. It is a pure
// function: the input slice is never mutated and identical inputs yield an
// identical ordered result. Predicates are conjunctive; an unset predicate is
// skipped. Ties keep catalog order.
func Visible(products []domain.Product, f domain.FilterState) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	brands := map[string]struct{}{}
	for _, b := range f.Brands {
		if b = strings.TrimSpace(b); b != "" {
			brands[strings.ToLower(b)] = struct{}{}
		}
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != "all" && string(p.Category) != f.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Brand), query) {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[strings.ToLower(p.Brand)]; !ok {
				continue
			}
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		if f.OnSale && !p.OnSale() {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortFeatured:
		sort.SliceStable(products, func(i, j int) bool {
			return featuredRank(products[i]) < featuredRank(products[j])
		})
	case domain.SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsNew && !products[j].IsNew
		})
	case domain.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case domain.SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case domain.SortBestDeal:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Discount() > products[j].Discount()
		})
	}
}

// featuredRank: hot items lead, new items follow, everything else keeps
// catalog order.
func featuredRank(p domain.Product) int {
	switch {
	case p.IsHot:
		return 0
	case p.IsNew:
		return 1
	default:
		return 2
	}
}

type CatalogUC struct {
	Catalog *catalog.Catalog
}

func (uc *CatalogUC) List(f domain.FilterState) []domain.Product {
	return Visible(uc.Catalog.All(), f)
}

func (uc *CatalogUC) Get(id int) (domain.Product, error) {
	return uc.Catalog.ByID(id)
}

// Brands returns the distinct brand names in the catalog, sorted.
func (uc *CatalogUC) Brands() []string {
	seen := map[string]struct{}{}
	brands := []string{}
	for _, p := range uc.Catalog.All() {
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	sort.Strings(brands)
	return brands
}

func (uc *CatalogUC) Categories() []domain.Category {
	return domain.Categories
}
