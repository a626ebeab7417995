// internal/report/alerts_export.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/domain"
)

// ExportAlertsCSV writes the alert report as one flat table, out-of-stock
// rows first, matching the bucket order of the report itself.
func ExportAlertsCSV(w io.Writer, r domain.AlertReport) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"product_id", "name", "category", "status", "stock_quantity", "min_threshold", "unit", "needed", "daily_sale_rate", "days_until_stockout", "suggested_order"},
	}
	for _, a := range r.OutOfStock {
		rows = append(rows, alertRow(a))
	}
	for _, a := range r.LowStock {
		rows = append(rows, alertRow(a))
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func alertRow(a domain.Alert) []string {
	rate, days, order := "", "", ""
	if a.DailySaleRate != nil {
		rate = fmt.Sprintf("%.2f", *a.DailySaleRate)
	}
	if a.DaysUntilStockout != nil {
		days = fmt.Sprintf("%.2f", *a.DaysUntilStockout)
	}
	if a.SuggestedOrder != nil {
		order = fmt.Sprintf("%d", *a.SuggestedOrder)
	}
	return []string{
		a.ProductID,
		a.Name,
		a.Category,
		string(a.Status),
		fmt.Sprintf("%d", a.StockQuantity),
		fmt.Sprintf("%d", a.MinThreshold),
		a.Unit,
		fmt.Sprintf("%d", a.Needed),
		rate,
		days,
		order,
	}
}

// WriteAlertsFile exports the alert report under dir and returns the
// path. The filename carries the generation date.
func WriteAlertsFile(dir string, r domain.AlertReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("stock_alerts_%s.csv", r.GeneratedAt.Format("20060102")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := ExportAlertsCSV(file, r); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("stock alerts exported")
	return path, nil
}
