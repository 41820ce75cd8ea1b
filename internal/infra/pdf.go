package infra

// pdf.go renders a one-page A5 purchase order with go-pdf/fpdf:
//   - shop header and order number
//   - dates and status
//   - a single line item (product, quantity, unit cost, total)
//
// Output goes to storagePath/purchase_order_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"stockdesk/internal/model"

	"github.com/go-pdf/fpdf"
)

// DocumentHeader carries the shop identity printed on generated documents.
type DocumentHeader struct {
	ShopName       string
	CurrencySymbol string
}

// GeneratePurchaseOrderPDF writes the order document and returns its path.
// order.Product must be loaded.
func GeneratePurchaseOrderPDF(order *model.PurchaseOrder, hdr DocumentHeader, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("purchase_order_%d.pdf", order.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(hdr.ShopName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Purchase Order #%d", order.ID), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Order date: "+order.OrderDate.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	expected := "-"
	if order.ExpectedDelivery != nil {
		expected = order.ExpectedDelivery.Format("02 Jan 2006")
	}
	pdf.CellFormat(contentW, 5, "Expected delivery: "+expected, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Status: "+string(order.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	col1 := contentW * 0.46
	col2 := contentW * 0.14
	col3 := contentW * 0.20
	col4 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Unit cost", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Total", "B", 1, "R", false, 0, "")

	name := fmt.Sprintf("#%d", order.ProductID)
	if order.Product != nil {
		name = order.Product.Name
	}
	if len(name) > 40 {
		name = name[:39] + "..."
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1, 6, tr(name), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, fmt.Sprintf("%d", order.Quantity), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, hdr.CurrencySymbol+" "+order.CostPerUnit.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, hdr.CurrencySymbol+" "+order.TotalCost.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, hdr.CurrencySymbol+" "+order.TotalCost.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
