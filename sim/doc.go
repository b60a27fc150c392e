// Package sim provides the discrete-event order-fulfillment engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: the logical clock and the wake-up queue (suspend/resume)
//   - process.go: one FulfillmentProcess per order (created → awaiting_delay → resolving → terminated)
//   - ledger.go: all-or-nothing stock consumption
//   - metrics.go: the outcome log, running profit and the stock snapshot
//   - simulator.go: the per-run owner tying the pieces together
//
// # Concurrency
//
// Many processes are suspended at once but only one resolves at a time. The
// Scheduler resumes processes in non-decreasing wake time, FIFO among ties,
// and each resolution (return draw, ledger consume, profit, metrics append)
// runs under the run's FulfillmentEnv lock.
//
// # Randomness
//
// A run draws from a single seeded stream in a fixed order per process:
// delivery class and base delay at creation, then the return draw on resume.
// Order sampling and synthetic generation use a separate subsystem stream
// (see PartitionedRNG) so they never shift fulfillment draws.
//
// Sub-packages:
//   - sim/trace/: scheduler trace recording
//   - sim/workload/: order CSV ingestion, sampling and synthetic orders
//   - sim/store/: SQLite export of finished runs
package sim
