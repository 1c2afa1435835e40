package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"partsdesk/compat"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the cart mirror and its suggestion feed. Mutations are
// write-through: a failed backend call leaves the mirror untouched and
// surfaces as a non-blocking error response.
type Handler struct {
	Manager *Manager
	Advisor *compat.Advisor
}

func (h *Handler) cartView() utils.M {
	return utils.M{
		"items":       h.Manager.Lines(),
		"totalAmount": h.Manager.Total(),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Manager.Load(ctx); err != nil {
		log.Println("GetCart load error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.cartView())
}

// AddItem adds a product to the cart. Adding a product that is already
// present answers 409 until the client repeats the call with
// ?confirm=true, so quantities never stack silently.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddItem decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	var decide Decider
	if r.URL.Query().Get("confirm") == "true" {
		decide = Confirm
	}

	if err := h.Manager.Add(ctx, body.ProductID, body.Quantity, decide); err != nil {
		if err == ErrConfirmationRequired {
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"error":                err.Error(),
				"confirmationRequired": true,
			})
			return
		}
		log.Println("AddItem error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("UpdateItem decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := h.Manager.SetQuantity(ctx, ps.ByName("id"), body.Quantity); err != nil {
		log.Println("UpdateItem error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Manager.Remove(ctx, ps.ByName("id")); err != nil {
		log.Println("RemoveItem error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.cartView())
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Manager.Clear(ctx); err != nil {
		log.Println("Clear error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.cartView())
}

// Suggestions returns compatibility suggestions for the current cart,
// grouped by category. An empty result is informational, not an error.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	groups, err := h.Advisor.Suggest(ctx, h.Manager.Lines())
	if err != nil {
		log.Println("Suggestions error:", err)
		utils.RespondBackendError(w, err)
		return
	}

	response := utils.M{"groups": groups}
	if len(groups) == 0 {
		response["notice"] = "No compatible products found for the current selection"
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
