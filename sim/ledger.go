// sim/ledger.go
package sim

import (
	"fmt"
	"sync"
)

// InventoryLedger holds the shared stock counters.
// TryConsume is all-or-nothing: an order is either granted its full quantity
// or nothing at all. Every method is safe for concurrent use.
//
// Invariants: 0 <= currentStock <= initialStock and
// currentStock + totalConsumed == initialStock.
type InventoryLedger struct {
	mu            sync.Mutex
	initialStock  int64
	currentStock  int64
	totalConsumed int64
}

// NewInventoryLedger creates a ledger holding initialStock units.
func NewInventoryLedger(initialStock int64) *InventoryLedger {
	return &InventoryLedger{
		initialStock: initialStock,
		currentStock: initialStock,
	}
}

// TryConsume grants quantity iff currentStock >= quantity, moving the units
// from stock to consumed in one step. On denial state is unchanged and (false, 0)
// is returned. A negative quantity is never granted.
func (l *InventoryLedger) TryConsume(quantity int64) (bool, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if quantity < 0 || l.currentStock < quantity {
		return false, 0
	}
	l.currentStock -= quantity
	l.totalConsumed += quantity
	return true, quantity
}

// CurrentStock returns the units still on hand.
func (l *InventoryLedger) CurrentStock() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentStock
}

// TotalConsumed returns the units consumed so far.
func (l *InventoryLedger) TotalConsumed() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalConsumed
}

// InitialStock returns the constant starting stock.
func (l *InventoryLedger) InitialStock() int64 {
	return l.initialStock
}

// CheckInvariants returns an *InvariantError if the counters are inconsistent.
func (l *InventoryLedger) CheckInvariants() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentStock < 0 || l.currentStock > l.initialStock {
		return &InvariantError{What: fmt.Sprintf("current stock %d outside [0, %d]", l.currentStock, l.initialStock)}
	}
	if l.currentStock+l.totalConsumed != l.initialStock {
		return &InvariantError{What: fmt.Sprintf("stock %d + consumed %d != initial %d",
			l.currentStock, l.totalConsumed, l.initialStock)}
	}
	return nil
}

func (l *InventoryLedger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fmt.Sprintf("InventoryLedger: (Initial: %d, Current: %d, Consumed: %d)", l.initialStock, l.currentStock, l.totalConsumed)
}
