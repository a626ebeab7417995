// internal/catalog/csv.go
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storepulse/storepulse/internal/domain"
)

// Date layouts accepted in transaction CSVs. Layouts without an offset
// are naive; they are resolved in the supplied reporting location.
var txDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadProductsCSV reads a product catalog export. Expected header:
// product_id,name,category,cost_price,sell_price,stock_quantity,min_threshold,unit
func LoadProductsCSV(path string) ([]domain.Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open products file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	for _, required := range []string{"product_id", "name", "category", "cost_price", "sell_price", "stock_quantity", "min_threshold", "unit"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("products file missing column %q", required)
		}
	}

	var products []domain.Product
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		id := strings.TrimSpace(record[colMap["product_id"]])
		if id == "" {
			continue
		}

		costPrice, err := decimal.NewFromString(strings.TrimSpace(record[colMap["cost_price"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid cost_price: %w", line, err)
		}
		sellPrice, err := decimal.NewFromString(strings.TrimSpace(record[colMap["sell_price"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sell_price: %w", line, err)
		}
		if sellPrice.LessThan(costPrice) {
			return nil, fmt.Errorf("line %d: sell price below cost price for %s", line, id)
		}

		stock, _ := strconv.Atoi(strings.TrimSpace(record[colMap["stock_quantity"]]))
		threshold, _ := strconv.Atoi(strings.TrimSpace(record[colMap["min_threshold"]]))
		if stock < 0 || threshold < 0 {
			return nil, fmt.Errorf("line %d: negative stock or threshold for %s", line, id)
		}

		products = append(products, domain.Product{
			ProductID:     id,
			Name:          strings.TrimSpace(record[colMap["name"]]),
			Category:      strings.TrimSpace(record[colMap["category"]]),
			CostPrice:     costPrice,
			SellPrice:     sellPrice,
			StockQuantity: stock,
			MinThreshold:  threshold,
			Unit:          strings.TrimSpace(record[colMap["unit"]]),
		})
	}

	return products, nil
}

// LoadTransactionsCSV reads a transaction ledger export. Expected header:
// transaction_id,product_id,trans_type,quantity,date,note
// Rows with an unparseable date or non-positive quantity are skipped.
func LoadTransactionsCSV(path string, loc *time.Location) ([]domain.Transaction, error) {
	if loc == nil {
		loc = time.Local
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	for _, required := range []string{"transaction_id", "product_id", "trans_type", "quantity", "date"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("transactions file missing column %q", required)
		}
	}

	var transactions []domain.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		qty, err := strconv.Atoi(strings.TrimSpace(record[colMap["quantity"]]))
		if err != nil || qty <= 0 {
			continue
		}

		date, ok := parseTxDate(strings.TrimSpace(record[colMap["date"]]), loc)
		if !ok {
			continue
		}

		transType := domain.TransType(strings.ToUpper(strings.TrimSpace(record[colMap["trans_type"]])))
		if transType != domain.TransImport && transType != domain.TransExport {
			continue
		}

		note := ""
		if idx, ok := colMap["note"]; ok && idx < len(record) {
			note = record[idx]
		}

		transactions = append(transactions, domain.Transaction{
			TransactionID: strings.TrimSpace(record[colMap["transaction_id"]]),
			ProductID:     strings.TrimSpace(record[colMap["product_id"]]),
			Type:          transType,
			Quantity:      qty,
			Date:          date,
			Note:          note,
		})
	}

	return transactions, nil
}

func parseTxDate(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range txDateLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
