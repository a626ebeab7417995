// internal/report/export.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/storepulse/storepulse/internal/domain"
)

// ExportCSV writes the summary as CSV sections: key/value totals, the
// per-category breakdown, then the top-seller and least-purchased lists.
// Every section is sorted so repeated exports of the same summary are
// byte-identical.
func ExportCSV(w io.Writer, s domain.FinancialSummary) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Key", "Value"},
		{"month", fmt.Sprintf("%d", s.Month)},
		{"year", fmt.Sprintf("%d", s.Year)},
		{"currency", s.Currency},
		{"total_revenue", s.TotalRevenue.StringFixed(2)},
		{"total_cost", s.TotalCost.StringFixed(2)},
		{"total_profit", s.TotalProfit.StringFixed(2)},
		{},
		{"By Category"},
		{"category", "revenue", "cost", "profit", "quantity"},
	}

	categories := make([]string, 0, len(s.ByCategory))
	for category := range s.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		b := s.ByCategory[category]
		rows = append(rows, []string{
			category,
			b.Revenue.StringFixed(2),
			b.Cost.StringFixed(2),
			b.Profit.StringFixed(2),
			fmt.Sprintf("%d", b.Quantity),
		})
	}

	rows = append(rows, []string{}, []string{"Top Sellers"})
	rows = append(rows, productSalesRows(s.TopSellers)...)
	rows = append(rows, []string{}, []string{"Least Purchased"})
	rows = append(rows, productSalesRows(s.LeastPurchased)...)

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func productSalesRows(list []domain.ProductSales) [][]string {
	rows := [][]string{{"product_id", "name", "quantity", "revenue", "cost", "profit"}}
	for _, p := range list {
		rows = append(rows, []string{
			p.ProductID,
			p.Name,
			fmt.Sprintf("%d", p.Quantity),
			p.Revenue.StringFixed(2),
			p.Cost.StringFixed(2),
			p.Profit.StringFixed(2),
		})
	}
	return rows
}

// SummaryFilename names the export for its period, zero-padding the
// month so files sort chronologically within a year.
func SummaryFilename(s domain.FinancialSummary) string {
	month, year := s.Month, s.Year
	if year == 0 {
		month, year = int(s.GeneratedAt.Month()), s.GeneratedAt.Year()
	}
	return fmt.Sprintf("sales_summary_%02d_%d.csv", month, year)
}

// WriteSummaryFile exports the summary under dir and returns the path.
func WriteSummaryFile(dir string, s domain.FinancialSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(dir, SummaryFilename(s))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := ExportCSV(file, s); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("financial summary exported")
	return path, nil
}
