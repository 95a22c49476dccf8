package query

import (
	"sort"

	"storefront-service/internal/models"
)

// Sort keys accepted by Products. Anything else falls back to SortFeatured.
const (
	SortFeatured    = "featured"
	SortPriceAsc    = "price-asc"
	SortPriceDesc   = "price-desc"
	SortRating      = "rating"
	SortBestsellers = "bestsellers"
)

// ProductFilter describes the AND-combined predicates for a product query.
// Empty slices and zero bounds mean no restriction. Tags use OR semantics
// within the set (any matching tag qualifies), which is how persona
// filters combine.
type ProductFilter struct {
	Categories []string
	Tags       []string
	MinPrice   int64
	MaxPrice   int64
	HasMax     bool
}

// BundleFilter describes the predicates for a bundle query.
type BundleFilter struct {
	Tag          string
	FeaturedOnly bool
}

// Products returns a new slice holding the products that satisfy every
// predicate of f, ordered by the given sort key. The input is never
// mutated.
func Products(products []models.Product, f ProductFilter, sortKey string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matchesProduct(p, f) {
			out = append(out, p)
		}
	}
	sortProducts(out, sortKey)
	return out
}

// Bundles returns a new slice holding the bundles that satisfy f, in input
// order.
func Bundles(bundles []models.Bundle, f BundleFilter) []models.Bundle {
	out := make([]models.Bundle, 0, len(bundles))
	for _, b := range bundles {
		if f.Tag != "" && !hasTag(b.Tags, f.Tag) {
			continue
		}
		if f.FeaturedOnly && !b.Featured {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesProduct(p models.Product, f ProductFilter) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(p.Tags, f.Tags) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.HasMax && p.Price > f.MaxPrice {
		return false
	}
	return true
}

// sortProducts orders in place. Every ordering is stable so that ties keep
// their pre-sort relative order.
func sortProducts(products []models.Product, sortKey string) {
	switch sortKey {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortBestsellers:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ReviewsCount > products[j].ReviewsCount
		})
	default:
		// Featured: badge-bearing items first, otherwise original order.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Badge != "" && products[j].Badge == ""
		})
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	return contains(tags, tag)
}

func anyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		if contains(tags, w) {
			return true
		}
	}
	return false
}
