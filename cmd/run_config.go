package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// RunConfig is the YAML form of the run flags. Zero-valued fields are treated
// as unset and leave the flag value alone.
type RunConfig struct {
	Version           string   `yaml:"version"`
	Seed              *int64   `yaml:"seed,omitempty"`
	InitialStock      *int64   `yaml:"initial_stock,omitempty"`
	ReturnRatePercent *float64 `yaml:"return_rate_percent,omitempty"`
	DelayMin          *int64   `yaml:"delay_min,omitempty"`
	DelayMax          *int64   `yaml:"delay_max,omitempty"`
	NumOrders         *int     `yaml:"num_orders,omitempty"`
	OrdersCSV         string   `yaml:"orders_csv,omitempty"`
	OrderSpec         string   `yaml:"order_spec,omitempty"`
	Trace             string   `yaml:"trace,omitempty"`
}

// validRunConfigVersions lists accepted values of the version key.
// An absent key is read as version 1.
var validRunConfigVersions = map[string]bool{"": true, "1": true}

// LoadRunConfig parses a run configuration file.
// Uses strict field checking: typos must cause errors.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	if !validRunConfigVersions[cfg.Version] {
		return nil, fmt.Errorf("run config %s: unsupported version %q; valid: \"1\"", path, cfg.Version)
	}
	return &cfg, nil
}

// applyTo copies config values into opts for every flag the user did not set
// explicitly on the command line.
func (c *RunConfig) applyTo(cmd *cobra.Command, opts *runOptions) {
	changed := cmd.Flags().Changed
	if c.Seed != nil && !changed("seed") {
		opts.seed = *c.Seed
	}
	if c.InitialStock != nil && !changed("initial-stock") {
		opts.initialStock = *c.InitialStock
	}
	if c.ReturnRatePercent != nil && !changed("return-rate") {
		opts.returnRatePercent = *c.ReturnRatePercent
	}
	if c.DelayMin != nil && !changed("delay-min") {
		opts.delayMin = *c.DelayMin
	}
	if c.DelayMax != nil && !changed("delay-max") {
		opts.delayMax = *c.DelayMax
	}
	if c.NumOrders != nil && !changed("num-orders") {
		opts.numOrders = *c.NumOrders
	}
	if c.OrdersCSV != "" && !changed("orders") {
		opts.ordersPath = c.OrdersCSV
	}
	if c.OrderSpec != "" && !changed("order-spec") {
		opts.orderSpecPath = c.OrderSpec
	}
	if c.Trace != "" && !changed("trace") {
		opts.traceLevel = c.Trace
	}
}
