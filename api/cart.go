package api

import (
	"context"
	"net/http"
	"net/url"

	"partsdesk/models"
)

// cartPayload matches the backend cart wire shape. Every mutating call
// returns the full current cart so the caller can replace its mirror
// wholesale instead of patching deltas.
type cartPayload struct {
	Items []struct {
		Product  models.Product `json:"product"`
		Quantity int            `json:"quantity"`
	} `json:"items"`
}

func (p cartPayload) lines() []models.CartLine {
	lines := make([]models.CartLine, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, models.CartLine{
			Product:       item.Product,
			OrderQuantity: item.Quantity,
		})
	}
	return lines
}

// Cart fetches the current remote cart.
func (c *Client) Cart(ctx context.Context) ([]models.CartLine, error) {
	var payload cartPayload
	if err := c.get(ctx, "/cart/", &payload); err != nil {
		return nil, err
	}
	return payload.lines(), nil
}

// AddCartItem adds or merges a line and returns the resulting cart.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) ([]models.CartLine, error) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	var payload cartPayload
	if err := c.do(ctx, http.MethodPost, "/cart/items", body, &payload); err != nil {
		return nil, err
	}
	return payload.lines(), nil
}

// UpdateCartItem sets a line's quantity and returns the resulting cart.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) ([]models.CartLine, error) {
	body := map[string]int{"quantity": quantity}
	var payload cartPayload
	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productID), body, &payload); err != nil {
		return nil, err
	}
	return payload.lines(), nil
}

// RemoveCartItem deletes a line and returns the resulting cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) ([]models.CartLine, error) {
	var payload cartPayload
	if err := c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil, &payload); err != nil {
		return nil, err
	}
	return payload.lines(), nil
}

// ClearCart empties the remote cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}
