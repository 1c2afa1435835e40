// Package catalog implements the product/category query side of the
// console: combining free-text search with a category filter into the
// backend query shape that can serve it, and keeping an index of full
// product records for other components to merge against.
package catalog

import (
	"context"
	"sync"

	"partsdesk/api"
	"partsdesk/models"
)

type Querier struct {
	client *api.Client

	mu    sync.RWMutex
	index map[string]models.Product
}

func NewQuerier(client *api.Client) *Querier {
	return &Querier{
		client: client,
		index:  make(map[string]models.Product),
	}
}

// Query resolves a search term and/or category filter to the matching
// product list:
//   - neither set: the full listing
//   - category only: the dedicated category endpoint
//   - search only: full-text search
//   - both: full-text search, then the category filter applied here,
//     because the search endpoint takes no category parameter
//
// A 404 from any shape means zero results, not an error. Any other
// failure falls back to the unfiltered full listing instead of surfacing
// a blocking error.
func (q *Querier) Query(ctx context.Context, search, categoryID string) ([]models.Product, error) {
	products, err := q.fetch(ctx, search, categoryID)
	if err != nil {
		if api.IsNotFound(err) {
			return []models.Product{}, nil
		}
		return q.fullListing(ctx)
	}

	if search != "" && categoryID != "" {
		products = filterByCategory(products, categoryID)
	}
	q.remember(products)
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (q *Querier) fetch(ctx context.Context, search, categoryID string) ([]models.Product, error) {
	switch {
	case search == "" && categoryID == "":
		return q.client.Products(ctx, 0)
	case search == "":
		return q.client.ProductsByCategory(ctx, categoryID)
	default:
		return q.client.SearchProducts(ctx, search)
	}
}

func (q *Querier) fullListing(ctx context.Context) ([]models.Product, error) {
	products, err := q.client.Products(ctx, 0)
	if err != nil {
		if api.IsNotFound(err) {
			return []models.Product{}, nil
		}
		return nil, err
	}
	q.remember(products)
	return products, nil
}

// Lookup returns the full record last seen for a product id, for merging
// compatibility stubs with price/stock/attribute data.
func (q *Querier) Lookup(id string) (models.Product, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	p, ok := q.index[id]
	return p, ok
}

func (q *Querier) remember(products []models.Product) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range products {
		if p.ID != "" {
			q.index[p.ID] = p
		}
	}
}

func filterByCategory(products []models.Product, categoryID string) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category.ID == categoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
