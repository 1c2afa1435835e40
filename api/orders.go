package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"partsdesk/models"
)

// OrderPage is one page of the order listing.
type OrderPage struct {
	Orders     []models.Order
	TotalPages int
}

// Orders fetches a page of orders/quotations, optionally filtered by a
// search term. The listing envelope arrives as either {orders, totalPages}
// or {data, totalPages} depending on backend deployment.
func (c *Client) Orders(ctx context.Context, page int, search string) (OrderPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		query.Set("search", search)
	}
	path := "/orders/get"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	raw, err := c.doRaw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return OrderPage{}, err
	}

	var envelope struct {
		Orders     json.RawMessage `json:"orders"`
		Data       json.RawMessage `json:"data"`
		TotalPages int             `json:"totalPages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return OrderPage{}, err
	}

	list := envelope.Orders
	if len(list) == 0 {
		list = envelope.Data
	}
	result := OrderPage{TotalPages: envelope.TotalPages}
	if len(list) > 0 {
		if err := json.Unmarshal(list, &result.Orders); err != nil {
			return OrderPage{}, err
		}
	}
	return result, nil
}

// CreateOrder persists an order or quotation; the backend assigns the id.
func (c *Client) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	var created models.Order
	err := c.do(ctx, http.MethodPost, "/orders/create", order, &created)
	return created, err
}

func (c *Client) UpdateOrder(ctx context.Context, id string, order models.Order) (models.Order, error) {
	var updated models.Order
	err := c.do(ctx, http.MethodPut, "/orders/update/"+url.PathEscape(id), order, &updated)
	return updated, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil)
}

// ConvertQuotation promotes a quotation into a binding order.
func (c *Client) ConvertQuotation(ctx context.Context, id string) (models.Order, error) {
	var converted models.Order
	err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/convert", nil, &converted)
	return converted, err
}

// CSV exports are generated server-side and streamed through unchanged.

func (c *Client) ExportProductsCSV(ctx context.Context) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/products/export/csv")
}

func (c *Client) ExportOrdersCSV(ctx context.Context) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/orders/export/csv")
}

func (c *Client) ExportQuotationsCSV(ctx context.Context) (io.ReadCloser, string, error) {
	return c.stream(ctx, "/orders/quotations/export/csv")
}

// CategoryAttributes returns the attribute definitions for a category,
// passed through as raw JSON.
func (c *Client) CategoryAttributes(ctx context.Context, categoryID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/attributes/category/"+url.PathEscape(categoryID)+"/attributes", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ExtractAttributes forwards a spec-sheet image to the backend extractor
// as multipart form data and returns the extracted attributes raw.
func (c *Client) ExtractAttributes(ctx context.Context, filename string, image io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/attributes/extract-from-image", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return json.RawMessage(unwrap(raw, "data")), nil
}
