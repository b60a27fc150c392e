// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fulfillment-sim/fulfillment-sim/sim/trace"
)

// Simulator owns all state of one fulfillment run: the clock, the ledger, the
// aggregator and the random stream. It is built once per run and discarded
// after its Result is collected.
type Simulator struct {
	RunID     string
	Config    SimConfig
	Scheduler *Scheduler
	Ledger    *InventoryLedger
	Metrics   *Metrics
	// Trace is nil unless enabled with WithTrace.
	Trace *trace.SimulationTrace

	orders    []OrderInput
	rng       RandomSource
	env       *FulfillmentEnv
	processes []*FulfillmentProcess
	ran       bool
}

// Option customizes a Simulator at construction.
type Option func(*Simulator)

// WithTrace records every schedule, resume and abort into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *Simulator) { s.Trace = st }
}

// WithRandomSource replaces the seeded fulfillment stream.
func WithRandomSource(rng RandomSource) Option {
	return func(s *Simulator) { s.rng = rng }
}

// Result is everything a run hands to the reporting layer.
type Result struct {
	RunID            string          `json:"run_id"`
	Log              []OutcomeRecord `json:"log"`
	CumulativeProfit float64         `json:"cumulative_profit"`
	StockoutCount    int             `json:"stockout_count"`
	InitialStock     int64           `json:"initial_stock"`
	TotalStockUsed   int64           `json:"total_stock_used"`
	CurrentStock     int64           `json:"current_stock"`
	StockLevels      map[int64]int64 `json:"stock_levels"`
	InvalidDelays    int             `json:"invalid_delays"`
	Summary          Summary         `json:"summary"`
	StockLevelSeries []StockLevel    `json:"-"`
}

// NewSimulator validates cfg and orders and builds a ready-to-run Simulator.
// Any *ConfigurationError is returned before state is created.
func NewSimulator(cfg SimConfig, orders []OrderInput, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, o := range orders {
		if o.Quantity < 0 {
			return nil, &ConfigurationError{
				Field:  fmt.Sprintf("order %q (index %d) quantity", o.ID, i),
				Reason: "must be >= 0",
			}
		}
	}

	s := &Simulator{
		RunID:   uuid.Must(uuid.NewV7()).String(),
		Config:  cfg,
		Ledger:  NewInventoryLedger(cfg.InitialStock),
		Metrics: NewMetrics(),
		orders:  orders,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewPartitionedRNG(NewSimulationKey(cfg.Seed)).ForSubsystem(SubsystemFulfillment)
	}
	s.Scheduler = NewScheduler(s.Trace)
	s.env = NewFulfillmentEnv(s.rng, cfg.ReturnRate(), s.Ledger, s.Metrics)
	return s, nil
}

// Run creates one process per order in submission order, lets each register
// its delay, then drives the scheduler until no wake-ups remain.
// An *InvariantError aborts the run; InvalidDelay aborts only its own order.
func (sim *Simulator) Run() (*Result, error) {
	if sim.ran {
		return nil, ErrAlreadyRun
	}
	sim.ran = true

	logrus.Infof("Starting run %s: %d orders, stock=%d, return rate=%.1f%%, delay=[%d,%d], seed=%d",
		sim.RunID, len(sim.orders), sim.Config.InitialStock, sim.Config.ReturnRatePercent,
		sim.Config.DelayMin, sim.Config.DelayMax, sim.Config.Seed)

	sim.processes = make([]*FulfillmentProcess, 0, len(sim.orders))
	for i, order := range sim.orders {
		p := NewFulfillmentProcess(i, order, sim.Config, sim.env)
		sim.processes = append(sim.processes, p)
		if err := sim.start(p); err != nil {
			return nil, err
		}
	}

	if err := sim.Scheduler.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w", sim.RunID, err)
	}
	if err := sim.Ledger.CheckInvariants(); err != nil {
		return nil, err
	}
	if got, want := len(sim.Metrics.Log)+sim.Metrics.InvalidDelays, len(sim.orders); got != want {
		return nil, &InvariantError{What: fmt.Sprintf("%d outcomes + aborts for %d orders", got, want)}
	}

	if sim.Metrics.InvalidDelays > 0 {
		logrus.Warnf("Run %s: %d orders aborted with an invalid delay", sim.RunID, sim.Metrics.InvalidDelays)
	}
	logrus.Infof("Run %s complete at day %d: profit=%.2f, stockouts=%d",
		sim.RunID, sim.Scheduler.Clock(), sim.Metrics.CumulativeProfit, sim.Metrics.StockoutCount)
	return sim.result(), nil
}

// start registers p with the scheduler. ErrInvalidDelay aborts p alone.
func (sim *Simulator) start(p *FulfillmentProcess) error {
	err := p.Start(sim.Scheduler)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrInvalidDelay) {
		return err
	}
	sim.Metrics.RecordAbort()
	sim.Trace.RecordAbort(trace.AbortRecord{
		ProcessID: p.ID(),
		Clock:     sim.Scheduler.Clock(),
		Reason:    err.Error(),
	})
	logrus.Warnf("Order %s aborted: %v", p.ID(), err)
	return nil
}

// Processes returns the processes created by Run, in submission order.
func (sim *Simulator) Processes() []*FulfillmentProcess {
	return sim.processes
}

func (sim *Simulator) result() *Result {
	levels := make(map[int64]int64, len(sim.Metrics.StockLevels))
	for t, s := range sim.Metrics.StockLevels {
		levels[t] = s
	}
	log := make([]OutcomeRecord, len(sim.Metrics.Log))
	copy(log, sim.Metrics.Log)

	current := sim.Ledger.CurrentStock()
	return &Result{
		RunID:            sim.RunID,
		Log:              log,
		CumulativeProfit: sim.Metrics.CumulativeProfit,
		StockoutCount:    sim.Metrics.StockoutCount,
		InitialStock:     sim.Ledger.InitialStock(),
		TotalStockUsed:   sim.Ledger.InitialStock() - current,
		CurrentStock:     current,
		StockLevels:      levels,
		InvalidDelays:    sim.Metrics.InvalidDelays,
		Summary:          sim.Metrics.Summarize(len(sim.orders)),
		StockLevelSeries: sim.Metrics.StockLevelSeries(),
	}
}
