package workload

import (
	"math/rand"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
)

// SampleOrders draws n orders without replacement, in the random order drawn.
// n <= 0 or n >= len(orders) returns a copy of all orders in their original order.
func SampleOrders(orders []sim.OrderInput, n int, rng *rand.Rand) []sim.OrderInput {
	if n <= 0 || n >= len(orders) {
		out := make([]sim.OrderInput, len(orders))
		copy(out, orders)
		return out
	}

	idx := make([]int, len(orders))
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: only the first n slots are needed
	out := make([]sim.OrderInput, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = orders[idx[i]]
	}
	return out
}
