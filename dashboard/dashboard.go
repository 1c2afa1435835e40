// Package dashboard computes the console's landing-page aggregates from
// freshly fetched backend data, behind a short-lived injected cache.
package dashboard

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"partsdesk/api"
	"partsdesk/models"
	"partsdesk/rdx"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
)

const statsKey = "partsdesk:dashboard:stats"

// Products at or below this stock level count as low stock.
const lowStockThreshold = 5

type Stats struct {
	TotalProducts     int             `json:"totalProducts"`
	LowStockProducts  int             `json:"lowStockProducts"`
	OutOfStock        int             `json:"outOfStock"`
	TotalCategories   int             `json:"totalCategories"`
	TotalOrders       int             `json:"totalOrders"`
	TotalQuotations   int             `json:"totalQuotations"`
	PendingQuotations int             `json:"pendingQuotations"`
	Revenue           decimal.Decimal `json:"revenue"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

type Service struct {
	client *api.Client
	cache  *rdx.Cache
}

func NewService(client *api.Client, cache *rdx.Cache) *Service {
	return &Service{client: client, cache: cache}
}

// Stats returns the aggregates, served from cache within its TTL. A cache
// failure falls through to live computation; it never blocks the page.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		var cached Stats
		hit, err := s.cache.Get(ctx, statsKey, &cached)
		if err != nil {
			log.Println("dashboard cache read error:", err)
		} else if hit {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return Stats{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsKey, stats); err != nil {
			log.Println("dashboard cache write error:", err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot; order and catalog mutations call
// this so the next dashboard render recomputes.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, statsKey); err != nil {
		log.Println("dashboard cache invalidate error:", err)
	}
}

// compute fetches products, categories, and orders concurrently and joins
// before aggregating.
func (s *Service) compute(ctx context.Context) (Stats, error) {
	var (
		wg         sync.WaitGroup
		products   []models.Product
		categories []models.Category
		orderPage  api.OrderPage

		productsErr, categoriesErr, ordersErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		products, productsErr = s.client.Products(ctx, 0)
	}()
	go func() {
		defer wg.Done()
		categories, categoriesErr = s.client.Categories(ctx)
	}()
	go func() {
		defer wg.Done()
		orderPage, ordersErr = s.client.Orders(ctx, 0, "")
	}()
	wg.Wait()

	for _, err := range []error{productsErr, categoriesErr, ordersErr} {
		if err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
		Revenue:         decimal.Zero,
		GeneratedAt:     time.Now().UTC(),
	}
	for _, p := range products {
		switch {
		case p.Quantity == 0 || p.Status == models.StatusOutOfStock:
			stats.OutOfStock++
		case p.Quantity <= lowStockThreshold:
			stats.LowStockProducts++
		}
	}
	for _, o := range orderPage.Orders {
		switch o.Type {
		case models.TypeQuotation:
			stats.TotalQuotations++
			if o.Status == models.QuotationPending {
				stats.PendingQuotations++
			}
		default:
			stats.TotalOrders++
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		}
	}
	return stats, nil
}

type Handler struct {
	Service *Service
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Service.Stats(ctx)
	if err != nil {
		log.Println("GetDashboard error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
