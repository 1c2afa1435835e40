// Package exports streams the backend's server-generated CSV blobs
// through to the browser unchanged.
package exports

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"partsdesk/api"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Client *api.Client
}

type exportFn func(ctx context.Context) (io.ReadCloser, string, error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, filename string, fetch exportFn) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	body, contentType, err := fetch(ctx)
	if err != nil {
		log.Println("CSV export error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.Println("CSV export stream error:", err)
	}
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.serve(w, r, "products.csv", h.Client.ExportProductsCSV)
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.serve(w, r, "orders.csv", h.Client.ExportOrdersCSV)
}

func (h *Handler) Quotations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.serve(w, r, "quotations.csv", h.Client.ExportQuotationsCSV)
}
