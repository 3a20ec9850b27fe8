package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/ktakagi/sensho-backend/internal/app/model"
)

// Purchaser is the contact block printed on the PDF title section.
type Purchaser struct {
	Name         string
	Organization string
	Email        string
	Phone        string
}

const (
	pdfFontFamily = "cjk"

	titleMaxRunes     = 28
	authorMaxRunes    = 14
	publisherMaxRunes = 14
)

var pdfColWidths = []float64{28, 62, 30, 30, 18, 12, 20}

// SelectionListPDF renders a print-ready order sheet. fontPath points at a
// TTF with CJK glyphs; when empty the built-in Helvetica is used and
// Japanese text will not render.
func SelectionListPDF(list *model.SelectionList, purchaser Purchaser, fontPath string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	if fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", fontPath)
		family = pdfFontFamily
	}

	pdf.AddPage()

	pdf.SetFont(family, "", 16)
	pdf.CellFormat(0, 10, list.Name, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("作成日: %s", list.CreatedAt.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("注文者: %s", purchaser.Name), "", 1, "L", false, 0, "")
	if purchaser.Organization != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("所属: %s", purchaser.Organization), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("連絡先: %s / %s", purchaser.Email, purchaser.Phone), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range selectionListHeader {
		pdf.CellFormat(pdfColWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, item := range list.Items {
		cells := []string{
			item.ISBN,
			truncateRunes(item.Title, titleMaxRunes),
			truncateRunes(item.Author, authorMaxRunes),
			truncateRunes(item.Publisher, publisherMaxRunes),
			formatPrice(item.Price),
			fmt.Sprintf("%d", item.Quantity),
			formatAmount(item.Subtotal()),
		}
		for i, cell := range cells {
			align := "L"
			if i >= 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColWidths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	agg := list.Aggregate()
	pdf.SetFont(family, "", 10)
	labelWidth := pdfColWidths[0] + pdfColWidths[1] + pdfColWidths[2] + pdfColWidths[3] + pdfColWidths[4]
	pdf.CellFormat(labelWidth, 7, "合計", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColWidths[5], 7, fmt.Sprintf("%d", agg.TotalQuantity), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColWidths[6], 7, formatAmount(agg.TotalAmount), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncateRunes shortens s to max runes, appending an ellipsis when cut.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
