package compat

import (
	"context"
	"log"
	"net/http"
	"time"

	"partsdesk/api"
	"partsdesk/models"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Advisor *Advisor
}

// DirectMatches serves the single-product compatibility check used when a
// part has just been added: the backend's candidates, narrowed by the
// attribute-triple rule when the full record for the product is known.
func (h *Handler) DirectMatches(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matches, err := h.Advisor.Direct(ctx, ps.ByName("id"))
	if err != nil {
		log.Println("DirectMatches error:", err)
		utils.RespondBackendError(w, err)
		return
	}

	response := utils.M{"products": matches}
	if len(matches) == 0 {
		response["notice"] = "No compatible products found"
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Direct fetches compatibility candidates for one product and applies the
// exact-triple filter when local attribute data allows it.
func (a *Advisor) Direct(ctx context.Context, productID string) ([]models.Product, error) {
	candidates, err := a.client.CompatibleWith(ctx, productID)
	if err != nil {
		if api.IsNotFound(err) {
			return []models.Product{}, nil
		}
		return nil, err
	}

	// The triple rule only applies to parts that participate in
	// socket/chipset/RAM matching. A product carrying any of the three
	// attributes is held to all three: missing ones mean zero matches,
	// never a partial match.
	product, known := a.index.Lookup(productID)
	if !known || !hasTripleAttribute(product) {
		return candidates, nil
	}
	return CompatibleBoards(product, candidates), nil
}

func hasTripleAttribute(p models.Product) bool {
	for _, key := range []string{AttrSocketType, AttrChipsetSupport, AttrRAMType} {
		if _, ok := p.Attributes[key]; ok {
			return true
		}
	}
	return false
}
