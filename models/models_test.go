package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRefDecodesBareID(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`"cat-42"`), &ref))
	assert.Equal(t, "cat-42", ref.ID)
	assert.Empty(t, ref.Name)
}

func TestCategoryRefDecodesEmbeddedObject(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":"cat-1","name":"CPU","description":"processors"}`), &ref))
	assert.Equal(t, "cat-1", ref.ID)
	assert.Equal(t, "CPU", ref.Name)
	assert.Equal(t, "processors", ref.Description)
}

func TestCategoryRefFallsBackToUnderscoreID(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"cat-9","name":"RAM"}`), &ref))
	assert.Equal(t, "cat-9", ref.ID)
}

func TestProductRefDecodesBothShapes(t *testing.T) {
	var fromString ProductRef
	require.NoError(t, json.Unmarshal([]byte(`"p-7"`), &fromString))
	assert.Equal(t, "p-7", fromString.ID)

	var fromObject ProductRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p-8","name":"Ryzen 5","category":"cat-1"}`), &fromObject))
	assert.Equal(t, "p-8", fromObject.ID)
	assert.Equal(t, "Ryzen 5", fromObject.Name)
	assert.Equal(t, "cat-1", fromObject.Category.ID)
}

func TestOrderWireShapeIsFlat(t *testing.T) {
	order := Order{
		CustomerInfo: CustomerInfo{Name: "Asha", Email: "asha@test.com"},
		Items: []OrderItem{{
			Product:  ProductRef{ID: "P1"},
			Quantity: 2,
			Price:    decimal.NewFromInt(500),
		}},
		TotalAmount: decimal.NewFromInt(1000),
		Type:        TypeOrder,
	}

	raw, err := json.Marshal(order)
	require.NoError(t, err)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Contains(t, wire, "customerName")
	assert.Contains(t, wire, "customerEmail")
	assert.Contains(t, wire, "totalAmount")
	assert.Contains(t, wire, "type")
	assert.NotContains(t, wire, "customer")
}

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{
		Product:       Product{SellingRate: decimal.RequireFromString("499.99")},
		OrderQuantity: 3,
	}
	assert.Equal(t, "1499.97", line.Subtotal().StringFixed(2))
}
