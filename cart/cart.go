// Package cart mirrors the single remote cart for rendering. The backend
// is the source of truth: every mutation writes through, and the local
// mirror is replaced wholesale with the cart the server returns, never
// patched with deltas, and never mutated optimistically beforehand.
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"partsdesk/api"
	"partsdesk/models"

	"github.com/shopspring/decimal"
)

// ErrConfirmationRequired reports that an add would stack quantity onto a
// line already in the cart and the caller has not confirmed it.
var ErrConfirmationRequired = errors.New("product already in cart; confirmation required to merge quantities")

// Decider resolves the duplicate-add suspend point. It is injected so the
// add operation is testable without a real confirmation dialog: return
// true to merge, false to leave cart state untouched.
type Decider func(ctx context.Context, existing models.CartLine, addQuantity int) (bool, error)

// Confirm is the explicit-bypass decider.
func Confirm(context.Context, models.CartLine, int) (bool, error) { return true, nil }

type Manager struct {
	client *api.Client

	mu       sync.RWMutex
	mirror   []models.CartLine
	onChange func(lines []models.CartLine)
}

func NewManager(client *api.Client) *Manager {
	return &Manager{client: client}
}

// OnChange registers a hook invoked with the new cart lines whenever the
// cart's product-id set changes after a successful mutation. Compatibility
// suggestions hang off this.
func (m *Manager) OnChange(fn func(lines []models.CartLine)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Load fetches the remote cart and resets the mirror to it.
func (m *Manager) Load(ctx context.Context) error {
	lines, err := m.client.Cart(ctx)
	if err != nil {
		return err
	}
	m.replace(lines)
	return nil
}

// Add puts quantity of a product into the cart. If the product is already
// mirrored and quantity is a positive increment, decide is consulted
// before any remote call; declining leaves local and remote state
// unchanged. A non-positive quantity behaves as removal and needs no
// confirmation.
func (m *Manager) Add(ctx context.Context, productID string, quantity int, decide Decider) error {
	if quantity <= 0 {
		return m.Remove(ctx, productID)
	}

	if existing, ok := m.find(productID); ok {
		if decide == nil {
			return ErrConfirmationRequired
		}
		proceed, err := decide(ctx, existing, quantity)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}

	lines, err := m.client.AddCartItem(ctx, productID, quantity)
	if err != nil {
		return err
	}
	m.replace(lines)
	return nil
}

// Remove deletes the line for productID.
func (m *Manager) Remove(ctx context.Context, productID string) error {
	lines, err := m.client.RemoveCartItem(ctx, productID)
	if err != nil {
		return err
	}
	m.replace(lines)
	return nil
}

// SetQuantity updates a line's quantity; zero or less removes the line.
func (m *Manager) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return m.Remove(ctx, productID)
	}
	lines, err := m.client.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		return err
	}
	m.replace(lines)
	return nil
}

// Clear empties the remote cart and the mirror.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.client.ClearCart(ctx); err != nil {
		return err
	}
	m.replace([]models.CartLine{})
	return nil
}

// Lines returns a copy of the mirror.
func (m *Manager) Lines() []models.CartLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines := make([]models.CartLine, len(m.mirror))
	copy(lines, m.mirror)
	return lines
}

// Total is Σ(sellingRate × orderQuantity) over the mirror.
func (m *Manager) Total() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, line := range m.mirror {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ProductIDs returns the mirrored product ids in sorted order.
func (m *Manager) ProductIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return productIDs(m.mirror)
}

func (m *Manager) find(productID string) (models.CartLine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, line := range m.mirror {
		if line.Product.ID == productID {
			return line, true
		}
	}
	return models.CartLine{}, false
}

func (m *Manager) replace(lines []models.CartLine) {
	m.mu.Lock()
	before := productIDs(m.mirror)
	m.mirror = lines
	after := productIDs(m.mirror)
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil && !equalIDs(before, after) {
		snapshot := make([]models.CartLine, len(lines))
		copy(snapshot, lines)
		hook(snapshot)
	}
}

func productIDs(lines []models.CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Product.ID)
	}
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
