// internal/report/text.go
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/storepulse/storepulse/internal/domain"
)

// FormatText renders a summary for terminal output.
func FormatText(s domain.FinancialSummary) string {
	var b strings.Builder

	period := "all time"
	switch {
	case s.Month != 0:
		period = fmt.Sprintf("%02d/%d", s.Month, s.Year)
	case s.Year != 0:
		period = fmt.Sprintf("%d", s.Year)
	}
	fmt.Fprintf(&b, "Financial summary (%s)\n", period)
	fmt.Fprintf(&b, "  Revenue: %s %s\n", s.TotalRevenue.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "  Cost:    %s %s\n", s.TotalCost.StringFixed(2), s.Currency)
	fmt.Fprintf(&b, "  Profit:  %s %s\n", s.TotalProfit.StringFixed(2), s.Currency)

	if len(s.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		categories := make([]string, 0, len(s.ByCategory))
		for category := range s.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  category\trevenue\tprofit\tqty")
		for _, category := range categories {
			breakdown := s.ByCategory[category]
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n",
				category, breakdown.Revenue.StringFixed(2), breakdown.Profit.StringFixed(2), breakdown.Quantity)
		}
		tw.Flush()
	}

	writeSalesList(&b, "Top sellers", s.TopSellers)
	writeSalesList(&b, "Least purchased", s.LeastPurchased)
	return b.String()
}

func writeSalesList(b *strings.Builder, title string, list []domain.ProductSales) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, p := range list {
		fmt.Fprintf(b, "  %d. %s (%s) x%d, revenue %s\n", i+1, p.Name, p.ProductID, p.Quantity, p.Revenue.StringFixed(2))
	}
}

// FormatAlertsText renders a stock-alert report for terminal output.
func FormatAlertsText(r domain.AlertReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock alerts at %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "  Out of stock: %d\n", len(r.OutOfStock))
	fmt.Fprintf(&b, "  Low stock:    %d\n", len(r.LowStock))
	fmt.Fprintf(&b, "  Total needed: %d\n", r.TotalNeeded)

	writeAlertList(&b, "OUT OF STOCK", r.OutOfStock)
	writeAlertList(&b, "LOW STOCK", r.LowStock)

	if len(r.ByCategory) > 0 {
		b.WriteString("\nBy category:\n")
		categories := make([]string, 0, len(r.ByCategory))
		for category := range r.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			counts := r.ByCategory[category]
			fmt.Fprintf(&b, "  %s: %d out, %d low\n", category, counts.OutOfStock, counts.LowStock)
		}
	}
	return b.String()
}

func writeAlertList(b *strings.Builder, title string, alerts []domain.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, a := range alerts {
		fmt.Fprintf(b, "  %s %s: stock %d/%d %s, need %d", a.ProductID, a.Name, a.StockQuantity, a.MinThreshold, a.Unit, a.Needed)
		if a.DaysUntilStockout != nil {
			fmt.Fprintf(b, ", ~%.2f days left", *a.DaysUntilStockout)
		}
		if a.SuggestedOrder != nil {
			fmt.Fprintf(b, ", suggest %d", *a.SuggestedOrder)
		}
		b.WriteString("\n")
	}
}
