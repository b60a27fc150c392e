// Accumulates run-wide fulfillment metrics: the ordered outcome log, cumulative
// profit, stockouts, holding cost and the per-day remaining-stock snapshot.

package sim

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// Metrics is the append-only aggregator written by fulfillment processes.
// Only FulfillmentProcess.Resume (inside the run's critical section) and the
// Simulator's abort path write to it.
type Metrics struct {
	Log              []OutcomeRecord // Outcome records in emission order
	CumulativeProfit float64         // Running profit total
	StockoutCount    int             // Orders denied by the ledger
	InvalidDelays    int             // Processes aborted by ErrInvalidDelay
	TotalHoldingCost float64         // Sum of holding costs over all records

	// StockLevels maps simulation time to the stock remaining after the last
	// order resolved at that time.
	StockLevels map[int64]int64
}

// NewMetrics creates an empty aggregator.
func NewMetrics() *Metrics {
	return &Metrics{
		Log:         make([]OutcomeRecord, 0),
		StockLevels: make(map[int64]int64),
	}
}

// Record adds rec.Profit to the running total, stamps the total into the
// record, appends it and updates the stock snapshot for rec.SimTime.
// A non-finite running total is an *InvariantError and nothing is appended.
func (m *Metrics) Record(rec OutcomeRecord) (OutcomeRecord, error) {
	total := m.CumulativeProfit + rec.Profit
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return OutcomeRecord{}, &InvariantError{What: fmt.Sprintf("cumulative profit not finite after order %s", rec.OrderID)}
	}
	m.CumulativeProfit = total
	rec.CumulativeProfit = total

	if rec.Status == StatusStockout {
		m.StockoutCount++
	}
	m.TotalHoldingCost += rec.HoldingCost
	m.StockLevels[rec.SimTime] = rec.RemainingStock
	m.Log = append(m.Log, rec)
	return rec, nil
}

// RecordAbort counts a process aborted before emitting a record.
func (m *Metrics) RecordAbort() {
	m.InvalidDelays++
}

// StockLevel is one point of the remaining-stock time series.
type StockLevel struct {
	SimTime        int64 `json:"sim_time"`
	RemainingStock int64 `json:"remaining_stock"`
}

// StockLevelSeries returns StockLevels sorted by simulation time.
func (m *Metrics) StockLevelSeries() []StockLevel {
	series := make([]StockLevel, 0, len(m.StockLevels))
	for t, s := range m.StockLevels {
		series = append(series, StockLevel{SimTime: t, RemainingStock: s})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].SimTime < series[j].SimTime })
	return series
}

// ClassSummary aggregates outcomes of a single delivery class.
type ClassSummary struct {
	Orders int     `json:"orders"`
	Profit float64 `json:"profit"`
}

// Summary holds the headline figures of a run.
type Summary struct {
	Orders           int                            `json:"orders"`
	Processed        int                            `json:"processed"`
	Delivered        int                            `json:"delivered"`
	Returned         int                            `json:"returned"`
	Stockouts        int                            `json:"stockouts"`
	InvalidDelays    int                            `json:"invalid_delays"`
	DeliveredPct     float64                        `json:"delivered_pct"`
	ReturnedPct      float64                        `json:"returned_pct"`
	TotalProfit      float64                        `json:"total_profit"`
	TotalHoldingCost float64                        `json:"total_holding_cost"`
	AvgDelayDays     float64                        `json:"avg_delay_days"`
	StockUsed        int64                          `json:"stock_used"`
	ByClass          map[DeliveryClass]ClassSummary `json:"by_class"`
}

// Summarize computes headline figures. Percentages are relative to numOrders,
// the number of orders submitted; they are 0 when numOrders is 0.
func (m *Metrics) Summarize(numOrders int) Summary {
	s := Summary{
		Orders:           numOrders,
		Processed:        len(m.Log),
		Stockouts:        m.StockoutCount,
		InvalidDelays:    m.InvalidDelays,
		TotalProfit:      m.CumulativeProfit,
		TotalHoldingCost: m.TotalHoldingCost,
		ByClass:          make(map[DeliveryClass]ClassSummary),
	}
	delays := make([]int64, 0, len(m.Log))
	for _, rec := range m.Log {
		delays = append(delays, rec.DelayDays)
		switch rec.Status {
		case StatusDelivered:
			s.Delivered++
		case StatusReturned:
			s.Returned++
		}
		s.StockUsed += rec.StockConsumed
		cs := s.ByClass[rec.DeliveryClass]
		cs.Orders++
		cs.Profit += rec.Profit
		s.ByClass[rec.DeliveryClass] = cs
	}
	s.AvgDelayDays = CalculateMean(delays)
	if numOrders > 0 {
		s.DeliveredPct = float64(s.Delivered) / float64(numOrders) * 100
		s.ReturnedPct = float64(s.Returned) / float64(numOrders) * 100
	}
	return s
}

// Print displays the run summary on stdout.
func (m *Metrics) Print(numOrders int, initialStock int64) {
	m.Fprint(os.Stdout, numOrders, initialStock)
}

// Fprint writes the run summary to w.
func (m *Metrics) Fprint(w io.Writer, numOrders int, initialStock int64) {
	s := m.Summarize(numOrders)
	fmt.Fprintln(w, "=== Fulfillment Metrics ===")
	fmt.Fprintf(w, "Orders Submitted     : %d\n", s.Orders)
	fmt.Fprintf(w, "Orders Processed     : %d\n", s.Processed)
	fmt.Fprintf(w, "Total Profit ($)     : %.2f\n", s.TotalProfit)
	fmt.Fprintf(w, "Delivered            : %d (%.2f%%)\n", s.Delivered, s.DeliveredPct)
	fmt.Fprintf(w, "Returned             : %d (%.2f%%)\n", s.Returned, s.ReturnedPct)
	fmt.Fprintf(w, "Stockouts            : %d\n", s.Stockouts)
	if s.InvalidDelays > 0 {
		fmt.Fprintf(w, "Aborted (bad delay)  : %d\n", s.InvalidDelays)
	}
	fmt.Fprintf(w, "Holding Cost ($)     : %.2f\n", s.TotalHoldingCost)
	fmt.Fprintf(w, "Average Delay        : %.2f days\n", s.AvgDelayDays)
	fmt.Fprintf(w, "Stock Initial/Used/Remaining : %d / %d / %d\n", initialStock, s.StockUsed, initialStock-s.StockUsed)
	for _, class := range DeliveryClasses() {
		if cs, ok := s.ByClass[class]; ok {
			fmt.Fprintf(w, "  %-9s: %d orders, profit %.2f\n", class, cs.Orders, cs.Profit)
		}
	}
}
