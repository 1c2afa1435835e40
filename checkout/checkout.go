// Package checkout runs the order submission pipeline: validate the
// customer block and cart contents, persist the order or quotation, then
// reconcile stock per line item. Validation failure always returns the
// pipeline to Composing; nothing here is fatal to the session.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"partsdesk/api"
	"partsdesk/models"
	"partsdesk/utils"

	"github.com/shopspring/decimal"
)

// State of a submission. Transitions run
// Composing → Validating → Submitting → StockReconciling → Done,
// with Validating falling back to Composing on any failed check.
type State int

const (
	Composing State = iota
	Validating
	Submitting
	StockReconciling
	Done
)

func (s State) String() string {
	switch s {
	case Composing:
		return "Composing"
	case Validating:
		return "Validating"
	case Submitting:
		return "Submitting"
	case StockReconciling:
		return "StockReconciling"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// ValidationError carries every failed pre-flight check. It is raised
// before any network call is made.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Submission is a completed cart plus customer info, ready to persist.
type Submission struct {
	Customer models.CustomerInfo
	Lines    []models.CartLine
	Type     string // models.TypeOrder or models.TypeQuotation
}

// Result reports the submitted order, the terminal pipeline state, and
// any best-effort stock reconciliation failures (informational only).
type Result struct {
	Order                models.Order
	State                State
	CorrelationID        string
	ReconciliationErrors []string
}

type Pipeline struct {
	client *api.Client
}

func NewPipeline(client *api.Client) *Pipeline {
	return &Pipeline{client: client}
}

// Validate runs every pre-flight check. All must pass before any network
// submission happens.
func Validate(sub Submission) error {
	var problems []string

	if strings.TrimSpace(sub.Customer.Name) == "" {
		problems = append(problems, "customer name is required")
	}
	if strings.TrimSpace(sub.Customer.Email) == "" {
		problems = append(problems, "customer email is required")
	} else if !utils.ValidEmail(sub.Customer.Email) {
		problems = append(problems, "customer email is not a valid address")
	}
	if sub.Customer.Phone != "" && !utils.ValidPhone(sub.Customer.Phone) {
		problems = append(problems, "customer phone must be exactly 10 digits")
	}
	if sub.Type != models.TypeOrder && sub.Type != models.TypeQuotation {
		problems = append(problems, "type must be Order or Quotation")
	}
	if len(sub.Lines) == 0 {
		problems = append(problems, "at least one line item is required")
	}
	for i, line := range sub.Lines {
		if line.Product.ID == "" {
			problems = append(problems, fmt.Sprintf("line %d has no resolvable product id", i+1))
		}
		if line.OrderQuantity <= 0 {
			problems = append(problems, fmt.Sprintf("line %d quantity must be positive", i+1))
		}
		if !line.Product.SellingRate.IsPositive() {
			problems = append(problems, fmt.Sprintf("line %d unit price must be positive", i+1))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Submit runs the full pipeline. The total amount is computed here, from
// the unit prices captured into the lines, and never re-derived later.
// Orders (not quotations) then get per-line stock reconciliation:
// sequential and best-effort. A failed line is logged and neither rolls
// back the order nor blocks the remaining lines.
func (p *Pipeline) Submit(ctx context.Context, sub Submission) (Result, error) {
	if err := Validate(sub); err != nil {
		return Result{State: Composing}, err
	}

	items := make([]models.OrderItem, 0, len(sub.Lines))
	total := decimal.Zero
	for _, line := range sub.Lines {
		items = append(items, models.OrderItem{
			Product: models.ProductRef{
				ID:       line.Product.ID,
				Name:     line.Product.Name,
				Category: line.Product.Category,
			},
			Quantity: line.OrderQuantity,
			Price:    line.Product.SellingRate,
		})
		total = total.Add(line.Subtotal())
	}

	order := models.Order{
		CustomerInfo: sub.Customer,
		Items:        items,
		TotalAmount:  total,
		Type:         sub.Type,
	}
	if sub.Type == models.TypeQuotation {
		order.Status = models.QuotationPending
	}

	correlationID := utils.GetUUID()
	created, err := p.client.CreateOrder(ctx, order)
	if err != nil {
		return Result{State: Composing, CorrelationID: correlationID}, err
	}

	result := Result{Order: created, State: Done, CorrelationID: correlationID}
	if sub.Type == models.TypeOrder {
		result.ReconciliationErrors = p.reconcileStock(ctx, correlationID, items)
	}
	return result, nil
}

// reconcileStock issues one atomic decrement per line, strictly in order:
// each line fully resolves before the next starts, bounding concurrent
// writes to a product's stock from this submission. The backend decrement
// is treated as the atomic contract; there is no re-read fallback.
func (p *Pipeline) reconcileStock(ctx context.Context, correlationID string, items []models.OrderItem) []string {
	var failures []string
	for _, item := range items {
		if err := p.client.ReduceStock(ctx, item.Product.ID, item.Quantity); err != nil {
			log.Printf("stock reconciliation failed [%s] product=%s qty=%d: %v",
				correlationID, item.Product.ID, item.Quantity, err)
			failures = append(failures, fmt.Sprintf("product %s: %v", item.Product.ID, err))
		}
	}
	return failures
}

// Classify maps a submission failure to a response status and the notice
// the console should show. There is no automatic retry on any class.
func Classify(err error) (int, string) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}

	switch status := api.StatusOf(err); {
	case status == http.StatusBadRequest:
		return http.StatusBadRequest, err.Error()
	case status >= 500:
		return http.StatusBadGateway, "Server error, please try again later"
	case status != 0:
		return status, err.Error()
	default:
		return http.StatusBadGateway, "Cannot reach the server; check your connection"
	}
}
