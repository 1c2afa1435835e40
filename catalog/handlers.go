package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"partsdesk/api"
	"partsdesk/models"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves the console's product and category screens by proxying
// CRUD to the backend and routing list requests through the Querier.
type Handler struct {
	Client     *api.Client
	Querier    *Querier
	Invalidate func(ctx context.Context)
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Invalidate != nil {
		h.Invalidate(ctx)
	}
}

// ListProducts handles ?search= and ?category= in any combination.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	search := strings.TrimSpace(q.Get("search"))
	category := strings.TrimSpace(q.Get("category"))

	products, err := h.Querier.Query(ctx, search, category)
	if err != nil {
		log.Println("ListProducts query error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}

	created, err := h.Client.CreateProduct(ctx, product)
	if err != nil {
		log.Println("CreateProduct backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("UpdateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	updated, err := h.Client.UpdateProduct(ctx, ps.ByName("id"), product)
	if err != nil {
		log.Println("UpdateProduct backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Client.DeleteProduct(ctx, ps.ByName("id")); err != nil {
		log.Println("DeleteProduct backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.Client.Categories(ctx)
	if err != nil {
		log.Println("ListCategories backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	if len(categories) == 0 {
		categories = []models.Category{}
	}
	utils.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		log.Println("CreateCategory decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if category.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}

	created, err := h.Client.CreateCategory(ctx, category)
	if err != nil {
		log.Println("CreateCategory backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		log.Println("UpdateCategory decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	updated, err := h.Client.UpdateCategory(ctx, ps.ByName("id"), category)
	if err != nil {
		log.Println("UpdateCategory backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Client.DeleteCategory(ctx, ps.ByName("id")); err != nil {
		log.Println("DeleteCategory backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
