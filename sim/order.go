// Defines the order-side data model: the read-only order input, delivery classes,
// terminal statuses and the immutable outcome record emitted per resolved order.

package sim

import (
	"fmt"
)

// OrderInput is one order supplied by the ingestion layer. Never mutated by the engine.
type OrderInput struct {
	ID         string  // Order identifier
	Quantity   int64   // Units requested (>= 0)
	UnitPrice  float64 // Product price per unit
	BaseProfit float64 // Profit of the order before penalties and returns
}

func (o OrderInput) String() string {
	return fmt.Sprintf("Order: (ID: %s, Quantity: %d, BaseProfit: %.2f)", o.ID, o.Quantity, o.BaseProfit)
}

// DeliveryClass selects how the base delivery delay is scaled.
type DeliveryClass string

const (
	ClassStandard DeliveryClass = "Standard"
	ClassExpress  DeliveryClass = "Express"
	ClassSameDay  DeliveryClass = "Same-Day"
)

// deliveryClassTable lists classes in draw order with their weight and delay multiplier.
var deliveryClassTable = []struct {
	Class      DeliveryClass
	Weight     float64
	Multiplier float64
}{
	{ClassStandard, 0.6, 1.0},
	{ClassExpress, 0.3, 0.8},
	{ClassSameDay, 0.1, 0.5},
}

// DeliveryClasses returns all classes in draw order.
func DeliveryClasses() []DeliveryClass {
	out := make([]DeliveryClass, len(deliveryClassTable))
	for i, row := range deliveryClassTable {
		out[i] = row.Class
	}
	return out
}

// Multiplier returns the delay multiplier of the class, or 0 for an unknown class.
func (c DeliveryClass) Multiplier() float64 {
	for _, row := range deliveryClassTable {
		if row.Class == c {
			return row.Multiplier
		}
	}
	return 0
}

// drawDeliveryClass performs a weighted choice using a single uniform draw.
func drawDeliveryClass(rng RandomSource) DeliveryClass {
	total := 0.0
	for _, row := range deliveryClassTable {
		total += row.Weight
	}
	r := rng.Float64() * total
	cum := 0.0
	for _, row := range deliveryClassTable {
		cum += row.Weight
		if r < cum {
			return row.Class
		}
	}
	return deliveryClassTable[len(deliveryClassTable)-1].Class
}

// OrderStatus is the terminal outcome of an order.
type OrderStatus string

const (
	StatusDelivered OrderStatus = "Delivered"
	StatusReturned  OrderStatus = "Returned"
	StatusStockout  OrderStatus = "Stockout"
)

// OutcomeRecord is appended once per resolved order and is immutable afterwards.
type OutcomeRecord struct {
	SimTime          int64         `json:"sim_time"`
	OrderID          string        `json:"order_id"`
	DeliveryClass    DeliveryClass `json:"delivery_class"`
	Status           OrderStatus   `json:"status"`
	Profit           float64       `json:"profit"`
	DelayDays        int64         `json:"delay_days"`
	CumulativeProfit float64       `json:"cumulative_profit"`
	HoldingCost      float64       `json:"holding_cost"`
	StockConsumed    int64         `json:"stock_consumed"`
	RemainingStock   int64         `json:"remaining_stock"`
}
