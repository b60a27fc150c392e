// sim/metrics_utils.go
package sim

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculateMean is a util function that calculates the mean of a data list.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}

	return sum / float64(len(numbers))
}

// logCSVHeader is the column order written by WriteLogCSV.
var logCSVHeader = []string{
	"sim_time", "order_id", "delivery_class", "status", "profit", "delay_days",
	"cumulative_profit", "holding_cost", "stock_consumed", "remaining_stock",
}

// WriteLogCSV renders the outcome log as CSV, money columns with two decimals.
func WriteLogCSV(w io.Writer, log []OutcomeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(logCSVHeader); err != nil {
		return err
	}
	for _, rec := range log {
		row := []string{
			strconv.FormatInt(rec.SimTime, 10),
			rec.OrderID,
			string(rec.DeliveryClass),
			string(rec.Status),
			strconv.FormatFloat(rec.Profit, 'f', 2, 64),
			strconv.FormatInt(rec.DelayDays, 10),
			strconv.FormatFloat(rec.CumulativeProfit, 'f', 2, 64),
			strconv.FormatFloat(rec.HoldingCost, 'f', 2, 64),
			strconv.FormatInt(rec.StockConsumed, 10),
			strconv.FormatInt(rec.RemainingStock, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveLogCSV writes the outcome log to fileName as CSV.
func SaveLogCSV(log []OutcomeRecord, fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fileName, err)
	}
	if err := WriteLogCSV(file, log); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", fileName, err)
	}
	return file.Close()
}

// ResultsOutput is the JSON document written by SaveResults.
type ResultsOutput struct {
	RunID       string          `json:"run_id"`
	Seed        int64           `json:"seed"`
	Summary     Summary         `json:"summary"`
	StockLevels []StockLevel    `json:"stock_levels"`
	Log         []OutcomeRecord `json:"log"`
}

// SaveResults writes the result, its summary and the stock series as indented JSON.
func (r *Result) SaveResults(seed int64, fileName string) error {
	out := ResultsOutput{
		RunID:       r.RunID,
		Seed:        seed,
		Summary:     r.Summary,
		StockLevels: r.StockLevelSeries,
		Log:         r.Log,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", fileName, err)
	}
	logrus.Infof("Results written to %s", fileName)
	return nil
}
