package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
	"github.com/fulfillment-sim/fulfillment-sim/sim/store"
	"github.com/fulfillment-sim/fulfillment-sim/sim/trace"
	"github.com/fulfillment-sim/fulfillment-sim/sim/workload"
)

// runOptions holds the values of the run command's flags.
type runOptions struct {
	seed              int64
	logLevel          string
	configPath        string
	initialStock      int64
	returnRatePercent float64
	delayMin          int64
	delayMax          int64

	// numOrders is the sample size for CSV input (0 = every row) or the
	// count of synthetic orders to generate.
	numOrders     int
	ordersPath    string
	orderSpecPath string

	traceLevel  string
	resultsPath string
	logCSVPath  string
	dbPath      string
}

var opts runOptions

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "fulfillment-sim",
	Short: "Discrete-event simulator for order fulfillment under constrained inventory",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the fulfillment simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(opts.logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", opts.logLevel)
		}
		logrus.SetLevel(level)

		o := opts
		if o.configPath != "" {
			rc, err := LoadRunConfig(o.configPath)
			if err != nil {
				return err
			}
			rc.applyTo(cmd, &o)
		}
		return runSimulation(cmd.Context(), o, cmd.OutOrStdout())
	},
}

// loadOrders builds the order list from the CSV export when one is given,
// otherwise from the synthetic order spec.
func loadOrders(o runOptions) ([]sim.OrderInput, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(o.seed)).ForSubsystem(sim.SubsystemWorkload)

	if o.ordersPath != "" {
		all, report, err := workload.LoadOrdersCSV(o.ordersPath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("Read %d order rows from %s (%d kept)", report.Rows, o.ordersPath, report.Kept)
		return workload.SampleOrders(all, o.numOrders, rng), nil
	}

	spec := workload.DefaultOrderSpec()
	if o.orderSpecPath != "" {
		loaded, err := workload.LoadOrderSpec(o.orderSpecPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	return workload.GenerateOrders(spec, o.numOrders, rng)
}

// runSimulation runs one simulation and writes its summary to out.
func runSimulation(ctx context.Context, o runOptions, out io.Writer) error {
	if !trace.IsValidTraceLevel(o.traceLevel) {
		return fmt.Errorf("unknown trace level %q; valid: none, events", o.traceLevel)
	}

	cfg := sim.NewSimConfig(o.initialStock, o.returnRatePercent, o.delayMin, o.delayMax, o.seed)
	if err := cfg.Validate(); err != nil {
		return err
	}

	orders, err := loadOrders(o)
	if err != nil {
		return err
	}

	st := trace.NewSimulationTrace(trace.TraceLevel(o.traceLevel))
	startTime := time.Now()

	s, err := sim.NewSimulator(cfg, orders, sim.WithTrace(st))
	if err != nil {
		return err
	}
	res, err := s.Run()
	if err != nil {
		return err
	}
	logrus.Infof("Simulation %s finished in %s", res.RunID, time.Since(startTime))

	s.Metrics.Fprint(out, len(orders), cfg.InitialStock)
	if st != nil {
		ts := trace.Summarize(st)
		fmt.Fprintln(out, "=== Scheduler Trace ===")
		fmt.Fprintf(out, "Scheduled            : %d\n", ts.TotalScheduled)
		fmt.Fprintf(out, "Resumed              : %d\n", ts.TotalResumed)
		fmt.Fprintf(out, "Aborted              : %d\n", ts.TotalAborted)
		fmt.Fprintf(out, "Max Pending          : %d\n", ts.MaxPending)
		fmt.Fprintf(out, "Distinct Days        : %d\n", ts.DistinctTimes)
		fmt.Fprintf(out, "Last Day             : %d\n", ts.LastClock)
	}

	if o.resultsPath != "" {
		if err := res.SaveResults(o.seed, o.resultsPath); err != nil {
			return err
		}
	}
	if o.logCSVPath != "" {
		if err := sim.SaveLogCSV(res.Log, o.logCSVPath); err != nil {
			return err
		}
	}
	if o.dbPath != "" {
		if err := saveToStore(ctx, o.dbPath, res, cfg); err != nil {
			return err
		}
	}
	return nil
}

func saveToStore(ctx context.Context, path string, res *sim.Result, cfg sim.SimConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.SaveRun(ctx, res, cfg); err != nil {
		return err
	}
	logrus.Infof("Run %s stored in %s", res.RunID, path)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&opts.seed, "seed", 42, "Seed for delivery-class, delay, return and order-sampling draws")
	runCmd.Flags().StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&opts.configPath, "config", "", "YAML run configuration; explicit flags take precedence")

	// Inventory and fulfillment
	runCmd.Flags().Int64Var(&opts.initialStock, "initial-stock", sim.DefaultInitialStock, "Units on hand at day 0")
	runCmd.Flags().Float64Var(&opts.returnRatePercent, "return-rate", 5, "Percentage of fulfilled orders that are returned (0-100)")
	runCmd.Flags().Int64Var(&opts.delayMin, "delay-min", 1, "Minimum base shipping delay in days")
	runCmd.Flags().Int64Var(&opts.delayMax, "delay-max", 5, "Maximum base shipping delay in days")

	// Orders
	runCmd.Flags().IntVar(&opts.numOrders, "num-orders", 1000, "Number of orders to sample or generate (0 = all CSV rows)")
	runCmd.Flags().StringVar(&opts.ordersPath, "orders", "", "Supply-chain order CSV (ISO-8859-1); synthetic orders are generated when empty")
	runCmd.Flags().StringVar(&opts.orderSpecPath, "order-spec", "", "YAML spec for synthetic order generation")

	// Outputs
	runCmd.Flags().StringVar(&opts.traceLevel, "trace", string(trace.TraceLevelNone), "Scheduler trace level (none, events)")
	runCmd.Flags().StringVar(&opts.resultsPath, "results", "", "Write results as JSON to this file")
	runCmd.Flags().StringVar(&opts.logCSVPath, "log-csv", "", "Write the outcome log as CSV to this file")
	runCmd.Flags().StringVar(&opts.dbPath, "db", "", "Append the run to this SQLite database")

	rootCmd.AddCommand(runCmd)
}
