// Package attributes proxies the per-category specification attribute
// definitions and the spec-sheet image extractor. Uploaded images are
// validated and downscaled here before they travel to the backend.
package attributes

import (
	"bytes"
	"context"
	"image/jpeg"
	"log"
	"net/http"
	"time"

	"partsdesk/api"
	"partsdesk/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

// Images wider or taller than this are downscaled before forwarding; the
// extractor gains nothing from more pixels.
const maxImageDim = 1600

const maxUploadBytes = 10 << 20

type Handler struct {
	Client *api.Client
}

func (h *Handler) CategoryAttributes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	raw, err := h.Client.CategoryAttributes(ctx, ps.ByName("id"))
	if err != nil {
		log.Println("CategoryAttributes backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// ExtractFromImage accepts a multipart spec-sheet image, normalizes it,
// and forwards it to the backend's attribute extractor.
func (h *Handler) ExtractFromImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart payload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		log.Println("ExtractFromImage decode error:", err)
		http.Error(w, "Could not decode image", http.StatusBadRequest)
		return
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
		img = imaging.Fit(img, maxImageDim, maxImageDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		log.Println("ExtractFromImage encode error:", err)
		http.Error(w, "Could not process image", http.StatusInternalServerError)
		return
	}

	extracted, err := h.Client.ExtractAttributes(ctx, header.Filename, &buf)
	if err != nil {
		log.Println("ExtractFromImage backend error:", err)
		utils.RespondBackendError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(extracted)
}
