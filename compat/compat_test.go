package compat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"partsdesk/api"
	"partsdesk/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIndex map[string]models.Product

func (s staticIndex) Lookup(id string) (models.Product, bool) {
	p, ok := s[id]
	return p, ok
}

func line(id, categoryID, categoryName string) models.CartLine {
	return models.CartLine{
		Product: models.Product{
			ID:       id,
			Category: models.CategoryRef{ID: categoryID, Name: categoryName},
		},
		OrderQuantity: 1,
	}
}

func newAdvisor(t *testing.T, index Index, handler http.HandlerFunc) (*Advisor, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	advisor := NewAdvisor(api.NewClient(server.URL, 2*time.Second), index, 10*time.Millisecond)
	t.Cleanup(advisor.Stop)
	return advisor, &calls
}

func TestEmptyCartYieldsNoSuggestionsAndNoNetworkCall(t *testing.T) {
	advisor, calls := newAdvisor(t, staticIndex{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called for an empty cart")
	})

	groups, err := advisor.Suggest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSuggestionsExcludeCategoriesAlreadyInCart(t *testing.T) {
	// cart holds a motherboard; response spans RAM, Motherboard, PSU
	response := `{"compatibleProducts":[
		{"id":"r1","name":"DDR4 Kit","category":{"id":"ram","name":"RAM"}},
		{"id":"m2","name":"X570 Board","category":{"id":"mb","name":"Motherboard"}},
		{"id":"psu1","name":"650W PSU","category":{"id":"psu","name":"PSU"}}
	]}`
	advisor, _ := newAdvisor(t, staticIndex{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	})

	groups, err := advisor.Suggest(context.Background(), []models.CartLine{line("m1", "mb", "Motherboard")})
	require.NoError(t, err)

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Category)
	}
	assert.ElementsMatch(t, []string{"RAM", "PSU"}, names)
	for _, g := range groups {
		for _, p := range g.Products {
			assert.NotEqual(t, "mb", p.Category.ID)
		}
	}
}

func TestSuggestionsMergeStubsWithCatalogRecords(t *testing.T) {
	index := staticIndex{
		"r1": {
			ID:          "r1",
			Name:        "Corsair Vengeance 16GB",
			Brand:       "Corsair",
			SellingRate: decimal.NewFromInt(4500),
			Quantity:    7,
			Category:    models.CategoryRef{ID: "ram", Name: "RAM"},
			Attributes:  map[string]string{AttrRAMType: "DDR4"},
		},
	}
	advisor, _ := newAdvisor(t, index, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compatibleProducts":[{"id":"r1","name":"Corsair Vengeance 16GB","category":"ram"}]}`))
	})

	groups, err := advisor.Suggest(context.Background(), []models.CartLine{line("c1", "cpu", "CPU")})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Products, 1)

	merged := groups[0].Products[0]
	assert.Equal(t, "Corsair", merged.Brand)
	assert.Equal(t, 7, merged.Quantity)
	assert.Equal(t, "4500", merged.SellingRate.String())
	assert.Equal(t, "RAM", merged.Category.Name)
}

func TestSuggestReusesCacheForUnchangedIDSet(t *testing.T) {
	advisor, calls := newAdvisor(t, staticIndex{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compatibleProducts":[]}`))
	})

	lines := []models.CartLine{line("c1", "cpu", "CPU")}
	_, err := advisor.Suggest(context.Background(), lines)
	require.NoError(t, err)
	_, err = advisor.Suggest(context.Background(), lines)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func cpu(attrs map[string]string) models.Product {
	return models.Product{ID: "cpu1", Attributes: attrs}
}

func board(attrs map[string]string) models.Product {
	return models.Product{ID: "mb1", Attributes: attrs}
}

func TestMatchesBoardRequiresAllThreeAttributes(t *testing.T) {
	full := map[string]string{
		AttrSocketType:     "AM4",
		AttrChipsetSupport: "B550",
		AttrRAMType:        "DDR4",
	}

	assert.True(t, MatchesBoard(cpu(full), board(full)))

	partial := map[string]string{
		AttrSocketType:     "AM4",
		AttrChipsetSupport: "B550",
		AttrRAMType:        "DDR5",
	}
	assert.False(t, MatchesBoard(cpu(full), board(partial)))
}

func TestMatchesBoardMissingAttributeMeansNoMatch(t *testing.T) {
	full := map[string]string{
		AttrSocketType:     "AM4",
		AttrChipsetSupport: "B550",
		AttrRAMType:        "DDR4",
	}
	missing := map[string]string{
		AttrSocketType:     "AM4",
		AttrChipsetSupport: "B550",
	}

	// a CPU with any attribute missing yields zero matches, not partial ones
	assert.False(t, MatchesBoard(cpu(missing), board(full)))
	assert.Empty(t, CompatibleBoards(cpu(missing), []models.Product{board(full)}))
}

func TestPrecomputeDebouncesBackendCalls(t *testing.T) {
	advisor, calls := newAdvisor(t, staticIndex{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"compatibleProducts":[]}`))
	})

	lines := []models.CartLine{line("c1", "cpu", "CPU")}
	for i := 0; i < 4; i++ {
		advisor.Precompute(lines)
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(calls) == 1
	}, time.Second, 10*time.Millisecond)
}
