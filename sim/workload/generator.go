package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
)

// GenerateOrders creates n synthetic orders from spec.
// Deterministic given the same spec and rng state.
// Quantities are rounded to whole units (at least 1); prices are never negative.
func GenerateOrders(spec *OrderSpec, n int, rng *rand.Rand) ([]sim.OrderInput, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order spec: %w", err)
	}

	quantitySampler, err := NewValueSampler(spec.QuantityDist)
	if err != nil {
		return nil, fmt.Errorf("quantity distribution: %w", err)
	}
	priceSampler, err := NewValueSampler(spec.PriceDist)
	if err != nil {
		return nil, fmt.Errorf("price distribution: %w", err)
	}
	marginSampler, err := NewValueSampler(spec.MarginDist)
	if err != nil {
		return nil, fmt.Errorf("margin distribution: %w", err)
	}

	prefix := spec.IDPrefix
	if prefix == "" {
		prefix = "order"
	}

	orders := make([]sim.OrderInput, n)
	for i := range orders {
		quantity := int64(math.Round(quantitySampler.Sample(rng)))
		if quantity < 1 {
			quantity = 1
		}
		price := math.Max(0, priceSampler.Sample(rng))
		margin := marginSampler.Sample(rng)

		orders[i] = sim.OrderInput{
			ID:         fmt.Sprintf("%s_%d", prefix, i),
			Quantity:   quantity,
			UnitPrice:  price,
			BaseProfit: math.Round(price*float64(quantity)*margin*100) / 100,
		}
	}
	return orders, nil
}
