// Package export renders selection lists and order listings as downloadable
// files. CSV output carries a UTF-8 BOM so Excel opens Japanese text correctly.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/ktakagi/sensho-backend/internal/app/model"
)

const utf8BOM = "\uFEFF"

var selectionListHeader = []string{"ISBN", "書名", "著者", "出版社", "本体価格", "数量", "小計"}

var orderLinesHeader = []string{"注文ID", "注文日", "顧客名", "ISBN", "書名", "著者", "出版社", "数量", "備考"}

// SelectionListCSV renders the list as item rows followed by a blank row and
// a grand total row.
func SelectionListCSV(list *model.SelectionList) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(selectionListHeader); err != nil {
		return nil, err
	}

	for _, item := range list.Items {
		row := []string{
			item.ISBN,
			item.Title,
			item.Author,
			item.Publisher,
			formatPrice(item.Price),
			strconv.Itoa(item.Quantity),
			formatAmount(item.Subtotal()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	agg := list.Aggregate()
	if err := w.Write([]string{"", "", "", "", "", "", ""}); err != nil {
		return nil, err
	}
	totalRow := []string{"合計", "", "", "", "", strconv.Itoa(agg.TotalQuantity), formatAmount(agg.TotalAmount)}
	if err := w.Write(totalRow); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OrderLinesCSV renders every order line across all orders, one row per item.
func OrderLinesCSV(orders []model.Order) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(orderLinesHeader); err != nil {
		return nil, err
	}

	for _, order := range orders {
		for _, item := range order.Items {
			row := []string{
				strconv.FormatUint(uint64(order.ID), 10),
				order.OrderDate.Format("2006-01-02"),
				order.Customer.Name,
				item.ISBN,
				item.Title,
				item.Author,
				item.Publisher,
				strconv.Itoa(item.Quantity),
				order.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatPrice renders a unit price, or the undetermined marker when the
// catalog has no price for the book.
func formatPrice(price *float64) string {
	if price == nil {
		return "未定"
	}
	return formatAmount(*price)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
