package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// HoldingCostRate is the holding cost per unit per day of delay.
const HoldingCostRate = 0.2

// delayPenaltyPerDay is charged for each day the adjusted delay exceeds the base delay.
const delayPenaltyPerDay = 5

// ProcessState represents the lifecycle state of a fulfillment process.
type ProcessState string

const (
	ProcessCreated       ProcessState = "created"
	ProcessAwaitingDelay ProcessState = "awaiting_delay"
	ProcessResolving     ProcessState = "resolving"
	ProcessTerminated    ProcessState = "terminated"
	ProcessAborted       ProcessState = "aborted"
)

// FulfillmentEnv is the state shared by every process of one run.
// mu guards the resolution critical section: the return draw, the ledger
// consume, the profit computation and the metrics append happen as one unit.
type FulfillmentEnv struct {
	mu         sync.Mutex
	rng        RandomSource
	returnRate float64
	ledger     *InventoryLedger
	metrics    *Metrics
}

// NewFulfillmentEnv creates the shared environment for a run's processes.
func NewFulfillmentEnv(rng RandomSource, returnRate float64, ledger *InventoryLedger, metrics *Metrics) *FulfillmentEnv {
	return &FulfillmentEnv{
		rng:        rng,
		returnRate: returnRate,
		ledger:     ledger,
		metrics:    metrics,
	}
}

// FulfillmentProcess carries one order from creation to its terminal outcome:
// created → awaiting_delay → resolving → terminated.
// A process whose delay request is rejected ends in aborted and emits nothing.
type FulfillmentProcess struct {
	Seq           int           // Submission order of the order
	Order         OrderInput    // The order being fulfilled
	Class         DeliveryClass // Drawn at creation
	BaseDelay     int64         // Drawn at creation, uniform in [DelayMin, DelayMax]
	AdjustedDelay int64         // floor(BaseDelay × class multiplier)
	State         ProcessState
	Outcome       *OutcomeRecord // Set once terminated

	env *FulfillmentEnv
}

// NewFulfillmentProcess creates a process and draws its delivery class and
// base delay, in that order, from the shared stream.
func NewFulfillmentProcess(seq int, order OrderInput, cfg SimConfig, env *FulfillmentEnv) *FulfillmentProcess {
	class := drawDeliveryClass(env.rng)
	base := cfg.DelayMin + int64(env.rng.Intn(int(cfg.DelayMax-cfg.DelayMin+1)))
	adjusted := int64(math.Floor(float64(base) * class.Multiplier()))

	return &FulfillmentProcess{
		Seq:           seq,
		Order:         order,
		Class:         class,
		BaseDelay:     base,
		AdjustedDelay: adjusted,
		State:         ProcessCreated,
		env:           env,
	}
}

// ID identifies the process; order IDs may repeat so the submission index is included.
func (p *FulfillmentProcess) ID() string {
	return fmt.Sprintf("%s#%d", p.Order.ID, p.Seq)
}

// Start registers the process's delay with the scheduler.
// On error the process is aborted and the error is returned unchanged.
func (p *FulfillmentProcess) Start(s *Scheduler) error {
	if p.State != ProcessCreated {
		panic(fmt.Sprintf("process %s started in state %s", p.ID(), p.State))
	}
	if err := s.ScheduleAfter(p, p.AdjustedDelay); err != nil {
		p.State = ProcessAborted
		return err
	}
	p.State = ProcessAwaitingDelay
	return nil
}

// Resume resolves the order at simulation time now and commits exactly one
// outcome. Resuming a process that is not awaiting its delay panics.
func (p *FulfillmentProcess) Resume(now int64) error {
	if p.State != ProcessAwaitingDelay {
		panic(fmt.Sprintf("process %s resumed in state %s", p.ID(), p.State))
	}
	p.State = ProcessResolving

	env := p.env
	env.mu.Lock()
	defer env.mu.Unlock()

	delayPenalty := float64(-delayPenaltyPerDay * max(0, p.AdjustedDelay-p.BaseDelay))
	candidateProfit := p.Order.BaseProfit + delayPenalty
	isReturned := env.rng.Float64() < env.returnRate

	var (
		status   OrderStatus
		profit   float64
		consumed int64
	)
	granted, quantity := env.ledger.TryConsume(p.Order.Quantity)
	switch {
	case !granted:
		status = StatusStockout
	case isReturned:
		status = StatusReturned
		profit = -math.Abs(candidateProfit)
		consumed = quantity
	default:
		status = StatusDelivered
		profit = candidateProfit
		consumed = quantity
	}

	rec, err := env.metrics.Record(OutcomeRecord{
		SimTime:        now,
		OrderID:        p.Order.ID,
		DeliveryClass:  p.Class,
		Status:         status,
		Profit:         profit,
		DelayDays:      p.AdjustedDelay,
		HoldingCost:    float64(consumed*p.AdjustedDelay) * HoldingCostRate,
		StockConsumed:  consumed,
		RemainingStock: env.ledger.CurrentStock(),
	})
	if err != nil {
		return err
	}
	if err := env.ledger.CheckInvariants(); err != nil {
		return err
	}

	p.Outcome = &rec
	p.State = ProcessTerminated
	logrus.Debugf("[day %05d] %s %s (class=%s, profit=%.2f, stock=%d)",
		now, p.ID(), status, p.Class, profit, rec.RemainingStock)
	return nil
}
