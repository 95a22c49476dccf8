package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

//go:embed data/products.json
var productsJSON []byte

//go:embed data/bundles.json
var bundlesJSON []byte

// Store holds the immutable product and bundle collections. It is built
// once at startup and read-only afterwards, so it needs no locking.
type Store struct {
	products  []models.Product
	bundles   []models.Bundle
	productID map[string]int
	bundleID  map[string]int
}

// Load builds the store from the embedded seed data.
func Load() (*Store, error) {
	var products []models.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products data: %w", err)
	}

	var bundles []models.Bundle
	if err := json.Unmarshal(bundlesJSON, &bundles); err != nil {
		return nil, fmt.Errorf("failed to parse bundles data: %w", err)
	}

	return New(products, bundles)
}

// New builds a store from the given collections, preserving their order.
// Duplicate ids are a data-authoring bug and fail the load; a bundle item
// referencing a missing product is only logged.
func New(products []models.Product, bundles []models.Bundle) (*Store, error) {
	s := &Store{
		products:  products,
		bundles:   bundles,
		productID: make(map[string]int, len(products)),
		bundleID:  make(map[string]int, len(bundles)),
	}

	for i, p := range products {
		if _, dup := s.productID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		s.productID[p.ID] = i
	}

	for i, b := range bundles {
		if _, dup := s.bundleID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate bundle id: %s", b.ID)
		}
		s.bundleID[b.ID] = i

		for _, itemID := range b.Items {
			if _, ok := s.productID[itemID]; !ok {
				util.GetLogger().Warn("Bundle references unknown product",
					zap.String("bundle_id", b.ID),
					zap.String("item_id", itemID))
			}
		}
	}

	return s, nil
}

// ProductByID looks up a product. A miss is a normal empty result.
func (s *Store) ProductByID(id string) (models.Product, bool) {
	i, ok := s.productID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// ProductsByCategory returns products in catalog insertion order.
func (s *Store) ProductsByCategory(category string) []models.Product {
	var out []models.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ProductsByTag returns products carrying the given tag, in catalog order.
func (s *Store) ProductsByTag(tag string) []models.Product {
	var out []models.Product
	for _, p := range s.products {
		if hasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// BundleByID looks up a bundle. A miss is a normal empty result.
func (s *Store) BundleByID(id string) (models.Bundle, bool) {
	i, ok := s.bundleID[id]
	if !ok {
		return models.Bundle{}, false
	}
	return s.bundles[i], true
}

// BundleProducts resolves a bundle's item ids, silently dropping any that
// do not exist in the catalog.
func (s *Store) BundleProducts(bundle models.Bundle) []models.Product {
	out := make([]models.Product, 0, len(bundle.Items))
	for _, itemID := range bundle.Items {
		if p, ok := s.ProductByID(itemID); ok {
			out = append(out, p)
		}
	}
	return out
}

// BundleSavings returns compareAtPrice minus price. The data invariant
// keeps it non-negative; no clamping happens here.
func (s *Store) BundleSavings(bundle models.Bundle) int64 {
	return bundle.CompareAtPrice - bundle.Price
}

// FeaturedBundles returns bundles flagged as featured, in catalog order.
func (s *Store) FeaturedBundles() []models.Bundle {
	var out []models.Bundle
	for _, b := range s.bundles {
		if b.Featured {
			out = append(out, b)
		}
	}
	return out
}

// Products returns a copy of the full product collection.
func (s *Store) Products() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Bundles returns a copy of the full bundle collection.
func (s *Store) Bundles() []models.Bundle {
	out := make([]models.Bundle, len(s.bundles))
	copy(out, s.bundles)
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
