package analytics

import (
	"context"
	"github.com/xuri/excelize/v2"
	"time"
)

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

// ExportRevenue renders every order in range as an XLSX workbook.
func (s *Service) ExportRevenue(ctx context.Context, from, to *time.Time) ([]byte, error) {
	rows, err := s.Source.Orders(ctx, from, to, 0)
	if err != nil {
		return nil, err
	}
	return RevenueWorkbook(rows, s.loc())
}

func RevenueWorkbook(rows []OrderRow, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := []any{"Reference", "Timestamp", "Entity", "Status", "Revenue", "Cost", "Profit"}
	if err := f.SetSheetRow(sheetTransactions, "A1", &header); err != nil {
		return nil, err
	}
	for i, o := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			o.ID,
			o.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			o.CustomerName,
			o.Status,
			o.TotalSales.InexactFloat64(),
			o.TotalCost.InexactFloat64(),
			o.TotalSales.Sub(o.TotalCost).InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheetTransactions, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetTransactions, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetTransactions, "B", "C", 24); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	sum := SummaryOf(rows)
	sales, cost := Totals(rows)
	summary := [][]any{
		{"Metric", "Value"},
		{"Orders", len(rows)},
		{"Total Revenue", sum.TotalRevenue.InexactFloat64()},
		{"Total Profit", sum.TotalProfit.InexactFloat64()},
		{"Average Order Value", sum.AvgOrderValue.InexactFloat64()},
		{"Net Margin", MarginPercent(sales, cost).StringFixed(2) + "%"},
	}
	for i, r := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &r); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(sheetSummary, 1, 1, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
