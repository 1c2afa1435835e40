package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product status values as the backend reports them.
const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusOutOfStock = "Out of Stock"
)

// Order type discriminants. Orders and quotations share one persisted
// record shape on the backend, distinguished only by this field.
const (
	TypeOrder     = "Order"
	TypeQuotation = "Quotation"
)

// Quotation status values.
const (
	QuotationPending   = "pending"
	QuotationConfirmed = "confirmed"
)

// CategoryRef is a category reference that the backend serializes either
// as a bare id string or as an embedded category object. It is resolved
// into this one shape at the API boundary so nothing downstream has to
// branch on the wire form.
type CategoryRef struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		c.ID = id
		c.Name = ""
		c.Description = ""
		return nil
	}

	var obj struct {
		ID          string `json:"id"`
		AltID       string `json:"_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.ID = obj.ID
	if c.ID == "" {
		c.ID = obj.AltID
	}
	c.Name = obj.Name
	c.Description = obj.Description
	return nil
}

// ProductRef is the product side of the same duck-typed problem: order
// line items carry either a bare product id or an embedded product stub.
type ProductRef struct {
	ID       string      `json:"id"`
	Name     string      `json:"name,omitempty"`
	Category CategoryRef `json:"category,omitempty"`
}

func (p *ProductRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		p.ID = id
		p.Name = ""
		p.Category = CategoryRef{}
		return nil
	}

	var obj struct {
		ID       string      `json:"id"`
		AltID    string      `json:"_id"`
		Name     string      `json:"name"`
		Category CategoryRef `json:"category"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.ID = obj.ID
	if p.ID == "" {
		p.ID = obj.AltID
	}
	p.Name = obj.Name
	p.Category = obj.Category
	return nil
}

// Category is a product grouping managed through the console's CRUD screens.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog entry. Quantity always reflects the last value
// fetched from the backend; the console never decrements it locally as
// an authoritative value.
type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand,omitempty"`
	ModelNumber string            `json:"modelNumber,omitempty"`
	Category    CategoryRef       `json:"category"`
	SellingRate decimal.Decimal   `json:"sellingRate"`
	Quantity    int               `json:"quantity"`
	Status      string            `json:"status,omitempty"`
	Warranty    string            `json:"warranty,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// CartLine is one entry of the cart mirror: a product plus the quantity
// being ordered. The cart is keyed by product id, one line per product.
type CartLine struct {
	Product       Product `json:"product"`
	OrderQuantity int     `json:"orderQuantity"`
}

// Subtotal returns sellingRate × orderQuantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.SellingRate.Mul(decimal.NewFromInt(int64(l.OrderQuantity)))
}

// CustomerInfo is the buyer block of an order or quotation.
type CustomerInfo struct {
	Name    string `json:"customerName"`
	Email   string `json:"customerEmail"`
	Phone   string `json:"customerPhone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is a persisted line item with the unit price captured at
// submission time. The captured price is authoritative; totals are never
// re-derived from current product prices.
type OrderItem struct {
	Product  ProductRef      `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is a persisted order or quotation, per the Type discriminant.
// Customer fields are embedded so the wire shape stays flat:
// {customerName, customerEmail, customerPhone, address, items, totalAmount, type}.
type Order struct {
	ID string `json:"id,omitempty"`
	CustomerInfo
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Type        string          `json:"type"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
