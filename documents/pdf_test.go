package documents

import (
	"testing"

	"partsdesk/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	order := models.Order{
		ID:           "ord-7",
		CustomerInfo: models.CustomerInfo{Name: "Asha", Email: "asha@test.com", Phone: "9876543210"},
		Items: []models.OrderItem{
			{Product: models.ProductRef{ID: "p1", Name: "Ryzen 5 7600"}, Quantity: 1, Price: decimal.RequireFromString("220.00")},
			{Product: models.ProductRef{ID: "p2"}, Quantity: 2, Price: decimal.RequireFromString("80.00")},
		},
		TotalAmount: decimal.RequireFromString("380.00"),
		Type:        models.TypeOrder,
	}

	raw, err := Render(order)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestRenderQuotationTitle(t *testing.T) {
	order := models.Order{
		ID:           "quo-1",
		CustomerInfo: models.CustomerInfo{Name: "Asha", Email: "asha@test.com"},
		Items: []models.OrderItem{
			{Product: models.ProductRef{ID: "p1", Name: "B650 Board"}, Quantity: 1, Price: decimal.RequireFromString("180.00")},
		},
		TotalAmount: decimal.RequireFromString("180.00"),
		Type:        models.TypeQuotation,
		Status:      models.QuotationPending,
	}

	raw, err := Render(order)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
