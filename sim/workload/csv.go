package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
)

// Column names of the supply-chain order export.
const (
	ColumnOrderID      = "Order Id"
	ColumnQuantity     = "Order Item Quantity"
	ColumnPrice        = "Product Price"
	ColumnProfit       = "Order Profit Per Order"
	ColumnShippingDays = "Days for shipping (real)"
)

// IngestReport counts what happened to the data rows of a CSV file.
type IngestReport struct {
	Rows    int
	Kept    int
	Dropped int
}

// LoadOrdersCSV reads orders from an ISO-8859-1 encoded CSV file.
func LoadOrdersCSV(path string) ([]sim.OrderInput, IngestReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IngestReport{}, fmt.Errorf("opening orders file: %w", err)
	}
	defer f.Close()
	orders, report, err := ReadOrdersCSV(f)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}
	return orders, report, nil
}

// ReadOrdersCSV parses ISO-8859-1 encoded CSV from r. Columns are located by
// header name. Rows missing any required field are dropped, as are rows whose
// shipping-days column (when present) is not numeric.
func ReadOrdersCSV(r io.Reader) ([]sim.OrderInput, IngestReport, error) {
	var report IngestReport

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, report, fmt.Errorf("empty orders file")
		}
		return nil, report, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\u00ef\u00bb\u00bf"))] = i
	}
	for _, required := range []string{ColumnOrderID, ColumnQuantity, ColumnPrice, ColumnProfit} {
		if _, ok := cols[required]; !ok {
			return nil, report, fmt.Errorf("missing required column %q", required)
		}
	}
	shippingCol, hasShipping := cols[ColumnShippingDays]

	field := func(rec []string, col int) string {
		if col >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[col])
	}

	var orders []sim.OrderInput
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("reading row %d: %w", report.Rows+1, err)
		}
		report.Rows++

		order, ok := parseOrderRow(
			field(rec, cols[ColumnOrderID]),
			field(rec, cols[ColumnQuantity]),
			field(rec, cols[ColumnPrice]),
			field(rec, cols[ColumnProfit]),
		)
		if ok && hasShipping {
			if _, err := strconv.ParseFloat(field(rec, shippingCol), 64); err != nil {
				ok = false
			}
		}
		if !ok {
			report.Dropped++
			continue
		}
		orders = append(orders, order)
		report.Kept++
	}

	if report.Dropped > 0 {
		logrus.Warnf("Dropped %d of %d order rows with missing or malformed fields", report.Dropped, report.Rows)
	}
	logrus.Debugf("Loaded %d orders", report.Kept)
	return orders, report, nil
}

func parseOrderRow(id, quantity, price, profit string) (sim.OrderInput, bool) {
	if id == "" {
		return sim.OrderInput{}, false
	}
	qty, err := parseQuantity(quantity)
	if err != nil || qty < 0 {
		return sim.OrderInput{}, false
	}
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return sim.OrderInput{}, false
	}
	pr, err := strconv.ParseFloat(profit, 64)
	if err != nil {
		return sim.OrderInput{}, false
	}
	return sim.OrderInput{ID: id, Quantity: qty, UnitPrice: p, BaseProfit: pr}, true
}

// parseQuantity accepts integers and integral floats such as "3.0".
func parseQuantity(s string) (int64, error) {
	if q, err := strconv.ParseInt(s, 10, 64); err == nil {
		return q, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}
	return int64(f), nil
}
