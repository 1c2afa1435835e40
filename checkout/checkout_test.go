package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"partsdesk/api"
	"partsdesk/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockCall struct {
	ProductID string
	Quantity  int
}

// fakeOrders records the order payload and every stock decrement.
type fakeOrders struct {
	mu          sync.Mutex
	orderBodies []map[string]interface{}
	stockCalls  []stockCall
	failStock   map[string]bool // productID -> fail decrement
	failOrder   int             // status to answer order creation with, 0 = success
}

func (f *fakeOrders) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/orders/create":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			f.orderBodies = append(f.orderBodies, body)
			if f.failOrder != 0 {
				w.WriteHeader(f.failOrder)
				w.Write([]byte(`{"error":"quantity exceeds stock"}`))
				return
			}
			body["id"] = "ord-1"
			json.NewEncoder(w).Encode(body)
		case strings.HasPrefix(r.URL.Path, "/products/update-stock/"):
			id := strings.TrimPrefix(r.URL.Path, "/products/update-stock/")
			var body struct {
				Quantity int `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			f.stockCalls = append(f.stockCalls, stockCall{ProductID: id, Quantity: body.Quantity})
			if f.failStock[id] {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"stock update failed"}`))
				return
			}
			w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}
}

func newPipeline(t *testing.T, backend *fakeOrders) *Pipeline {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewPipeline(api.NewClient(server.URL, 2*time.Second))
}

func cartLine(id string, price int64, qty int) models.CartLine {
	return models.CartLine{
		Product: models.Product{
			ID:          id,
			Name:        "Part " + id,
			SellingRate: decimal.NewFromInt(price),
			Category:    models.CategoryRef{ID: "cat-" + id},
		},
		OrderQuantity: qty,
	}
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{Name: "Asha", Email: "asha@test.com"}
}

func TestSubmitComputesTotalAndReconcilesStock(t *testing.T) {
	backend := &fakeOrders{}
	pipeline := newPipeline(t, backend)

	result, err := pipeline.Submit(context.Background(), Submission{
		Customer: validCustomer(),
		Lines:    []models.CartLine{cartLine("P1", 500, 2)},
		Type:     models.TypeOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, Done, result.State)
	assert.NotEmpty(t, result.CorrelationID)
	assert.Empty(t, result.ReconciliationErrors)

	require.Len(t, backend.orderBodies, 1)
	body := backend.orderBodies[0]
	assert.Equal(t, "Asha", body["customerName"])
	assert.Equal(t, "1000", body["totalAmount"])
	assert.Equal(t, "Order", body["type"])

	require.Len(t, backend.stockCalls, 1)
	assert.Equal(t, stockCall{ProductID: "P1", Quantity: 2}, backend.stockCalls[0])
}

func TestInvalidEmailBlocksBeforeAnyNetworkCall(t *testing.T) {
	backend := &fakeOrders{}
	pipeline := newPipeline(t, backend)

	result, err := pipeline.Submit(context.Background(), Submission{
		Customer: models.CustomerInfo{Name: "Asha", Email: "not-an-email"},
		Lines:    []models.CartLine{cartLine("P1", 500, 2)},
		Type:     models.TypeOrder,
	})
	require.Error(t, err)
	assert.Equal(t, Composing, result.State)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, backend.orderBodies, "no network call on validation failure")
	assert.Empty(t, backend.stockCalls)
}

func TestShortPhoneBlocksSubmission(t *testing.T) {
	pipeline := newPipeline(t, &fakeOrders{})

	_, err := pipeline.Submit(context.Background(), Submission{
		Customer: models.CustomerInfo{Name: "Asha", Email: "asha@test.com", Phone: "12345"},
		Lines:    []models.CartLine{cartLine("P1", 500, 1)},
		Type:     models.TypeOrder,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "10 digits")
}

func TestEmptyCartBlocksSubmission(t *testing.T) {
	pipeline := newPipeline(t, &fakeOrders{})

	_, err := pipeline.Submit(context.Background(), Submission{
		Customer: validCustomer(),
		Type:     models.TypeOrder,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestReconciliationAttemptedForEveryLineDespiteFailures(t *testing.T) {
	backend := &fakeOrders{failStock: map[string]bool{"P1": true}}
	pipeline := newPipeline(t, backend)

	result, err := pipeline.Submit(context.Background(), Submission{
		Customer: validCustomer(),
		Lines: []models.CartLine{
			cartLine("P1", 500, 2),
			cartLine("P2", 1200, 1),
			cartLine("P3", 300, 4),
		},
		Type: models.TypeOrder,
	})
	require.NoError(t, err, "order creation succeeds even when reconciliation fails")
	assert.Equal(t, Done, result.State)

	require.Len(t, backend.stockCalls, 3, "every line gets an attempt")
	assert.Equal(t, "P1", backend.stockCalls[0].ProductID)
	assert.Equal(t, "P2", backend.stockCalls[1].ProductID)
	assert.Equal(t, "P3", backend.stockCalls[2].ProductID)

	require.Len(t, result.ReconciliationErrors, 1)
	assert.Contains(t, result.ReconciliationErrors[0], "P1")
}

func TestQuotationSkipsStockReconciliation(t *testing.T) {
	backend := &fakeOrders{}
	pipeline := newPipeline(t, backend)

	result, err := pipeline.Submit(context.Background(), Submission{
		Customer: validCustomer(),
		Lines:    []models.CartLine{cartLine("P1", 500, 2)},
		Type:     models.TypeQuotation,
	})
	require.NoError(t, err)
	assert.Empty(t, backend.stockCalls)
	assert.Equal(t, models.QuotationPending, backend.orderBodies[0]["status"])
	_ = result
}

func TestSubmissionFailureReturnsToComposing(t *testing.T) {
	backend := &fakeOrders{failOrder: http.StatusBadRequest}
	pipeline := newPipeline(t, backend)

	result, err := pipeline.Submit(context.Background(), Submission{
		Customer: validCustomer(),
		Lines:    []models.CartLine{cartLine("P1", 500, 2)},
		Type:     models.TypeOrder,
	})
	require.Error(t, err)
	assert.Equal(t, Composing, result.State)
	assert.Empty(t, backend.stockCalls)
}

func TestClassify(t *testing.T) {
	status, msg := Classify(&ValidationError{Problems: []string{"customer name is required"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "customer name")

	status, msg = Classify(&api.Error{Status: http.StatusBadRequest, Message: "quantity exceeds stock"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msg, "quantity exceeds stock")

	status, msg = Classify(&api.Error{Status: http.StatusInternalServerError, Message: "boom"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, msg, "try again later")

	status, msg = Classify(context.DeadlineExceeded)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, msg, "connection")
}
