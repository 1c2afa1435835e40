package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"partsdesk/models"
)

// Categories fetches the full category list.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.get(ctx, "/categories/all", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	var created models.Category
	err := c.do(ctx, http.MethodPost, "/categories/create", cat, &created)
	return created, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, cat models.Category) (models.Category, error) {
	var updated models.Category
	err := c.do(ctx, http.MethodPut, "/categories/update/"+url.PathEscape(id), cat, &updated)
	return updated, err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/delete/"+url.PathEscape(id), nil, nil)
}

// Products fetches the unfiltered listing. page <= 0 requests the whole
// catalog; otherwise the backend's page parameter is passed through.
func (c *Client) Products(ctx context.Context, page int) ([]models.Product, error) {
	path := "/products/all"
	if page > 0 {
		path += "?page=" + strconv.Itoa(page)
	}
	var prods []models.Product
	if err := c.get(ctx, path, &prods); err != nil {
		return nil, err
	}
	return prods, nil
}

// SearchProducts runs a full-text search. The endpoint takes no category
// parameter; combined filtering happens client-side in catalog.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var prods []models.Product
	if err := c.get(ctx, "/products/search?q="+url.QueryEscape(query), &prods); err != nil {
		return nil, err
	}
	return prods, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	var prods []models.Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(categoryID), &prods); err != nil {
		return nil, err
	}
	return prods, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := c.do(ctx, http.MethodPost, "/products/create", p, &created)
	return created, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	var updated models.Product
	err := c.do(ctx, http.MethodPut, "/products/update/"+url.PathEscape(id), p, &updated)
	return updated, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/delete/"+url.PathEscape(id), nil, nil)
}

// ReduceStock subtracts quantity from a product's stock on the backend.
// The body carries the amount to subtract, not the new absolute value.
func (c *Client) ReduceStock(ctx context.Context, id string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, "/products/update-stock/"+url.PathEscape(id), body, nil)
}

// SequentialCompatibility resolves products compatible with the whole
// current selection; pairwise matching is done server-side.
func (c *Client) SequentialCompatibility(ctx context.Context, selected []string) ([]models.Product, error) {
	body := map[string][]string{"selectedProducts": selected}
	var out struct {
		CompatibleProducts []models.Product `json:"compatibleProducts"`
	}
	if err := c.do(ctx, http.MethodPost, "/products/compatibility/sequential", body, &out); err != nil {
		return nil, err
	}
	return out.CompatibleProducts, nil
}

// CompatibleWith fetches products compatible with one product.
func (c *Client) CompatibleWith(ctx context.Context, id string) ([]models.Product, error) {
	var prods []models.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id)+"/compatible", &prods); err != nil {
		return nil, err
	}
	return prods, nil
}
