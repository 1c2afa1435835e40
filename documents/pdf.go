// Package documents renders the printable order/quotation views as PDFs,
// with a QR code referencing the document for quick lookup at the counter.
package documents

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"partsdesk/api"
	"partsdesk/models"
	"partsdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// Render lays out one order or quotation as an A4 PDF.
func Render(order models.Order) ([]byte, error) {
	title := "Order"
	if order.Type == models.TypeQuotation {
		title = "Quotation"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("%s %s", title, order.ID))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s", order.Name))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", order.Email))
	pdf.Ln(6)
	if order.Phone != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Phone: %s", order.Phone))
		pdf.Ln(6)
	}
	if order.Address != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Address: %s", order.Address))
		pdf.Ln(6)
	}
	if !order.CreatedAt.IsZero() {
		pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// line-item table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Product", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		name := item.Product.Name
		if name == "" {
			name = item.Product.ID
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(80, 8, name, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(135, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, order.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")

	// QR payload identifies the document type and id
	qrPNG, err := qrcode.Encode(fmt.Sprintf("partsdesk|%s|%s", order.Type, order.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type Handler struct {
	Client *api.Client
}

// PrintDocument serves the PDF for one order or quotation. The backend
// exposes no per-id read, so the listing is searched by id.
func (h *Handler) PrintDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id := ps.ByName("id")
	page, err := h.Client.Orders(ctx, 0, id)
	if err != nil {
		log.Println("PrintDocument lookup error:", err)
		utils.RespondBackendError(w, err)
		return
	}

	var order *models.Order
	for i := range page.Orders {
		if page.Orders[i].ID == id {
			order = &page.Orders[i]
			break
		}
	}
	if order == nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	pdfBytes, err := Render(*order)
	if err != nil {
		log.Println("PrintDocument render error:", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=order-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
