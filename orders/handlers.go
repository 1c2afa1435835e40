// Package orders serves the order/quotation screens: the paged listing,
// creation through the checkout pipeline, edits, deletion, and the
// quotation-to-order conversion.
package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"partsdesk/api"
	"partsdesk/cart"
	"partsdesk/checkout"
	"partsdesk/models"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Client     *api.Client
	Pipeline   *checkout.Pipeline
	Cart       *cart.Manager
	Invalidate func(ctx context.Context)
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Invalidate != nil {
		h.Invalidate(ctx)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)
	page, err := h.Client.Orders(ctx, opts.Page, opts.Search)
	if err != nil {
		log.Println("List orders backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	if page.Orders == nil {
		page.Orders = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders":     page.Orders,
		"totalPages": page.TotalPages,
	})
}

// Create runs the submission pipeline over the current cart. The cart is
// re-synced from the backend first so the submitted lines match the
// server's view, and cleared after a successful submission.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var body struct {
		models.CustomerInfo
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("Create order decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Type == "" {
		body.Type = models.TypeOrder
	}

	if err := h.Cart.Load(ctx); err != nil {
		log.Println("Create order cart sync error:", err)
		utils.RespondBackendError(w, err)
		return
	}

	result, err := h.Pipeline.Submit(ctx, checkout.Submission{
		Customer: body.CustomerInfo,
		Lines:    h.Cart.Lines(),
		Type:     body.Type,
	})
	if err != nil {
		status, message := checkout.Classify(err)
		log.Printf("Create order failed [%s]: %v", result.CorrelationID, err)
		utils.RespondWithError(w, status, message)
		return
	}

	// server clears the cart on submission; clearing here keeps the
	// mirror honest even when it does not
	if err := h.Cart.Clear(ctx); err != nil {
		log.Printf("Create order cart clear failed [%s]: %v", result.CorrelationID, err)
	}
	h.invalidate(ctx)

	response := utils.M{
		"order":         result.Order,
		"correlationId": result.CorrelationID,
	}
	if len(result.ReconciliationErrors) > 0 {
		// logged already; informational only, the order stands
		response["stockWarnings"] = result.ReconciliationErrors
	}
	utils.RespondWithJSON(w, http.StatusCreated, response)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		log.Println("Update order decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	updated, err := h.Client.UpdateOrder(ctx, ps.ByName("id"), order)
	if err != nil {
		log.Println("Update order backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Client.DeleteOrder(ctx, ps.ByName("id")); err != nil {
		log.Println("Delete order backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Convert promotes a pending quotation into a binding order. Kept as a
// one-way action rather than a general status machine.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	converted, err := h.Client.ConvertQuotation(ctx, ps.ByName("id"))
	if err != nil {
		log.Println("Convert quotation backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, converted)
}
