package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfillment-sim/fulfillment-sim/sim"
	"github.com/fulfillment-sim/fulfillment-sim/sim/store"
)

func baseOptions() runOptions {
	return runOptions{
		seed:              42,
		logLevel:          "warn",
		initialStock:      sim.DefaultInitialStock,
		returnRatePercent: 5,
		delayMin:          1,
		delayMax:          5,
		numOrders:         50,
		traceLevel:        "none",
	}
}

func TestRunSimulation_SyntheticOrders_PrintsSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), baseOptions(), &out))

	output := out.String()
	assert.Contains(t, output, "=== Fulfillment Metrics ===")
	assert.Contains(t, output, "Orders Submitted     : 50")
	assert.NotContains(t, output, "Scheduler Trace")
}

func TestRunSimulation_TraceEvents_PrintsTraceSummary(t *testing.T) {
	o := baseOptions()
	o.traceLevel = "events"
	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), o, &out))
	assert.Contains(t, out.String(), "=== Scheduler Trace ===")
	assert.Contains(t, out.String(), "Resumed              : 50")
}

func TestRunSimulation_InvalidTraceLevel_ReturnsError(t *testing.T) {
	o := baseOptions()
	o.traceLevel = "verbose"
	err := runSimulation(context.Background(), o, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestRunSimulation_InvalidConfig_ReturnsConfigurationError(t *testing.T) {
	o := baseOptions()
	o.delayMin, o.delayMax = 6, 2
	err := runSimulation(context.Background(), o, &bytes.Buffer{})
	var cfgErr *sim.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

// A bad delay range must be reported before any order file is touched.
func TestRunSimulation_InvalidConfig_FailsBeforeLoadingOrders(t *testing.T) {
	o := baseOptions()
	o.delayMin, o.delayMax = 6, 2
	o.ordersPath = filepath.Join(t.TempDir(), "absent.csv")

	err := runSimulation(context.Background(), o, &bytes.Buffer{})
	var cfgErr *sim.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "delay min", cfgErr.Field)
}

func TestRunSimulation_DelayMaxAboveCeiling_ReturnsConfigurationError(t *testing.T) {
	o := baseOptions()
	o.delayMax = sim.MaxDelayDays + 1
	err := runSimulation(context.Background(), o, &bytes.Buffer{})
	var cfgErr *sim.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "delay max", cfgErr.Field)
}

func TestRunSimulation_LogsRunStartOnce(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	prev := logrus.GetLevel()
	logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetLevel(prev)

	require.NoError(t, runSimulation(context.Background(), baseOptions(), &bytes.Buffer{}))

	starts := 0
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "Starting") {
			starts++
		}
	}
	assert.Equal(t, 1, starts)
}

func TestRunSimulation_SameSeed_SameOutput(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), baseOptions(), &a))
	require.NoError(t, runSimulation(context.Background(), baseOptions(), &b))
	assert.Equal(t, a.String(), b.String())
}

func TestRunSimulation_CSVOrders_SampledAndExported(t *testing.T) {
	dir := t.TempDir()
	var csv strings.Builder
	csv.WriteString("Order Id,Order Item Quantity,Product Price,Order Profit Per Order,Days for shipping (real)\n")
	for i := 0; i < 30; i++ {
		csv.WriteString("o")
		csv.WriteString(strings.Repeat("x", i%3))
		csv.WriteString(string(rune('a' + i%26)))
		csv.WriteString(",2,19.99,4.5,3\n")
	}
	ordersPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(ordersPath, []byte(csv.String()), 0644))

	o := baseOptions()
	o.ordersPath = ordersPath
	o.numOrders = 10
	o.resultsPath = filepath.Join(dir, "results.json")
	o.logCSVPath = filepath.Join(dir, "log.csv")
	o.dbPath = filepath.Join(dir, "runs.db")

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), o, &out))
	assert.Contains(t, out.String(), "Orders Submitted     : 10")

	data, err := os.ReadFile(o.resultsPath)
	require.NoError(t, err)
	var results sim.ResultsOutput
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Equal(t, int64(42), results.Seed)
	assert.Len(t, results.Log, 10)

	logCSV, err := os.ReadFile(o.logCSVPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(logCSV)), "\n"), 11)

	db, err := store.Open(o.dbPath)
	require.NoError(t, err)
	defer db.Close()
	counts, err := db.CountOutcomes(context.Background(), results.RunID)
	require.NoError(t, err)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 10, total)
}

func TestRunSimulation_MissingOrdersFile_ReturnsError(t *testing.T) {
	o := baseOptions()
	o.ordersPath = filepath.Join(t.TempDir(), "absent.csv")
	assert.Error(t, runSimulation(context.Background(), o, &bytes.Buffer{}))
}

func TestRunSimulation_OrderSpecFile(t *testing.T) {
	specPath := writeFile(t, "orders.yaml", `
version: "1"
quantity_distribution:
  type: constant
  params:
    value: 1
price_distribution:
  type: constant
  params:
    value: 10
margin_distribution:
  type: constant
  params:
    value: 0.2
`)
	o := baseOptions()
	o.orderSpecPath = specPath
	o.returnRatePercent = 0
	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), o, &out))
	// 50 orders of profit 2 each, none returned, no stockouts with 10000 units
	assert.Contains(t, out.String(), "Total Profit ($)     : 100.00")
}
