package export

import (
	"fmt"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// SelectionListExcel renders the list as a single-sheet workbook with the
// same layout as the CSV rendition.
func SelectionListExcel(list *model.SelectionList) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "選書リスト"); err != nil {
		return nil, err
	}
	sheet = "選書リスト"

	header := make([]interface{}, len(selectionListHeader))
	for i, h := range selectionListHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, item := range list.Items {
		row := []interface{}{
			item.ISBN,
			item.Title,
			item.Author,
			item.Publisher,
			formatPrice(item.Price),
			item.Quantity,
			item.Subtotal(),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return nil, err
		}
		rowNum++
	}

	agg := list.Aggregate()
	rowNum++
	totalRow := []interface{}{"合計", "", "", "", "", agg.TotalQuantity, agg.TotalAmount}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &totalRow); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OrderLinesExcel renders every order line across all orders into one sheet.
func OrderLinesExcel(orders []model.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "注文一覧"); err != nil {
		return nil, err
	}
	sheet = "注文一覧"

	header := make([]interface{}, len(orderLinesHeader))
	for i, h := range orderLinesHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, order := range orders {
		for _, item := range order.Items {
			row := []interface{}{
				order.ID,
				order.OrderDate.Format("2006-01-02"),
				order.Customer.Name,
				item.ISBN,
				item.Title,
				item.Author,
				item.Publisher,
				item.Quantity,
				order.Notes,
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
