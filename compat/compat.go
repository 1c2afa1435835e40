// Package compat produces the "compatible products" suggestions shown
// next to the cart. Pairwise compatibility is resolved server-side; this
// package merges the returned stubs with full catalog records, drops
// categories already represented in the cart, and groups for display.
package compat

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"partsdesk/api"
	"partsdesk/catalog"
	"partsdesk/models"
)

// Specification attribute keys used by the direct CPU/motherboard match.
const (
	AttrSocketType     = "socketType"
	AttrChipsetSupport = "chipsetSupport"
	AttrRAMType        = "ramType"
)

// Group is one display bucket of suggestions.
type Group struct {
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

// Index resolves a product id to its full catalog record.
type Index interface {
	Lookup(id string) (models.Product, bool)
}

type Advisor struct {
	client   *api.Client
	index    Index
	debounce *catalog.Debouncer

	mu         sync.RWMutex
	lastKey    string
	lastGroups []Group
}

func NewAdvisor(client *api.Client, index Index, window time.Duration) *Advisor {
	return &Advisor{
		client:   client,
		index:    index,
		debounce: catalog.NewDebouncer(window),
	}
}

// Suggest computes grouped suggestions for the given cart lines. An empty
// cart yields an empty list without a network call. Results are cached by
// the cart's product-id set, so repeated renders of an unchanged cart
// reuse the last answer.
func (a *Advisor) Suggest(ctx context.Context, lines []models.CartLine) ([]Group, error) {
	if len(lines) == 0 {
		return []Group{}, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Product.ID)
	}
	key := cacheKey(ids)

	a.mu.RLock()
	if key == a.lastKey && a.lastGroups != nil {
		groups := a.lastGroups
		a.mu.RUnlock()
		return groups, nil
	}
	a.mu.RUnlock()

	stubs, err := a.client.SequentialCompatibility(ctx, ids)
	if err != nil {
		return nil, err
	}

	inCart := cartCategories(lines)
	grouped := make(map[string][]models.Product)
	var order []string
	for _, stub := range stubs {
		product := a.enrich(stub)
		if product.Category.ID != "" && inCart[product.Category.ID] {
			continue
		}
		name := product.Category.Name
		if name == "" {
			name = product.Category.ID
		}
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], product)
	}

	groups := make([]Group, 0, len(order))
	for _, name := range order {
		groups = append(groups, Group{Category: name, Products: grouped[name]})
	}

	a.mu.Lock()
	a.lastKey = key
	a.lastGroups = groups
	a.mu.Unlock()
	return groups, nil
}

// Precompute schedules a debounced background Suggest so that a burst of
// cart changes triggers one compatibility fetch, not one per change.
func (a *Advisor) Precompute(lines []models.CartLine) {
	a.debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := a.Suggest(ctx, lines); err != nil {
			// best-effort warmup; the request path recomputes on demand
			return
		}
	})
}

// Stop cancels any pending precompute.
func (a *Advisor) Stop() {
	a.debounce.Stop()
}

// enrich merges a suggestion stub with the full catalog record when one
// is known, so price, stock, brand, category, and attributes render.
func (a *Advisor) enrich(stub models.Product) models.Product {
	full, ok := a.index.Lookup(stub.ID)
	if !ok {
		return stub
	}
	if stub.Name != "" {
		full.Name = stub.Name
	}
	return full
}

// MatchesBoard is the direct CPU-to-motherboard check: all three of
// socket type, chipset support, and RAM type must match exactly. A CPU
// missing any of the three yields no match rather than a partial one.
func MatchesBoard(cpu, board models.Product) bool {
	for _, key := range []string{AttrSocketType, AttrChipsetSupport, AttrRAMType} {
		cpuVal, cpuOK := cpu.Attributes[key]
		boardVal, boardOK := board.Attributes[key]
		if !cpuOK || !boardOK || cpuVal == "" || boardVal == "" || cpuVal != boardVal {
			return false
		}
	}
	return true
}

// CompatibleBoards filters candidate motherboards for a CPU by the
// attribute-triple rule.
func CompatibleBoards(cpu models.Product, boards []models.Product) []models.Product {
	matched := make([]models.Product, 0, len(boards))
	for _, board := range boards {
		if MatchesBoard(cpu, board) {
			matched = append(matched, board)
		}
	}
	return matched
}

func cartCategories(lines []models.CartLine) map[string]bool {
	categories := make(map[string]bool, len(lines))
	for _, line := range lines {
		if id := line.Product.Category.ID; id != "" {
			categories[id] = true
		}
	}
	return categories
}

func cacheKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
