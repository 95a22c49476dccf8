package service

import (
	"context"
	"strconv"
	"strings"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/query"
	"storefront-service/internal/util"
)

// CatalogService answers read-only catalog queries
type CatalogService struct {
	store *catalog.Store
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *catalog.Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListProductsRequest carries the raw query parameters of a product list
// request. All fields are optional; malformed MaxPrice means no price
// filter rather than an error.
type ListProductsRequest struct {
	Category string
	Tag      string
	Sort     string
	MaxPrice string
}

// ListBundlesRequest carries the raw query parameters of a bundle list
// request. Featured restricts to featured bundles only for the literal
// value "true".
type ListBundlesRequest struct {
	Tag      string
	Featured string
}

// BundleDetail is a bundle with its resolved products and derived savings.
type BundleDetail struct {
	Bundle   models.Bundle    `json:"bundle"`
	Products []models.Product `json:"products"`
	Savings  int64            `json:"savings"`
}

// ListProducts returns the filtered, sorted product collection.
func (s *CatalogService) ListProducts(ctx context.Context, req ListProductsRequest) []models.Product {
	_, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	filter := query.ProductFilter{}
	if req.Category != "" {
		filter.Categories = []string{req.Category}
	}
	if req.Tag != "" {
		filter.Tags = []string{req.Tag}
	}
	if req.MaxPrice != "" {
		if max, err := strconv.ParseInt(strings.TrimSpace(req.MaxPrice), 10, 64); err == nil {
			filter.MaxPrice = max
			filter.HasMax = true
		}
	}

	out := query.Products(s.store.Products(), filter, req.Sort)

	util.CatalogQueriesTotal.WithLabelValues("products").Inc()
	util.CatalogQueryResults.WithLabelValues("products").Observe(float64(len(out)))
	return out
}

// GetProduct looks up one product. A miss is a normal empty result.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, bool) {
	_, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	return s.store.ProductByID(id)
}

// ListBundles returns the filtered bundle collection in catalog order.
func (s *CatalogService) ListBundles(ctx context.Context, req ListBundlesRequest) []models.Bundle {
	_, span := util.StartSpan(ctx, "CatalogService.ListBundles")
	defer span.End()

	filter := query.BundleFilter{
		Tag:          req.Tag,
		FeaturedOnly: req.Featured == "true",
	}

	out := query.Bundles(s.store.Bundles(), filter)

	util.CatalogQueriesTotal.WithLabelValues("bundles").Inc()
	util.CatalogQueryResults.WithLabelValues("bundles").Observe(float64(len(out)))
	return out
}

// GetBundle looks up one bundle with its resolved products and savings.
// Item ids that no longer resolve are omitted from Products.
func (s *CatalogService) GetBundle(ctx context.Context, id string) (BundleDetail, bool) {
	_, span := util.StartSpan(ctx, "CatalogService.GetBundle")
	defer span.End()

	bundle, ok := s.store.BundleByID(id)
	if !ok {
		return BundleDetail{}, false
	}

	return BundleDetail{
		Bundle:   bundle,
		Products: s.store.BundleProducts(bundle),
		Savings:  s.store.BundleSavings(bundle),
	}, true
}
