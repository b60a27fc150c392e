package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// OrderSpec describes how synthetic orders are generated.
// Loaded from YAML via LoadOrderSpec(path).
type OrderSpec struct {
	Version      string   `yaml:"version"`
	IDPrefix     string   `yaml:"id_prefix,omitempty"`
	QuantityDist DistSpec `yaml:"quantity_distribution"`
	PriceDist    DistSpec `yaml:"price_distribution"`
	// MarginDist is the profit per unit of revenue; profit = price × quantity × margin.
	MarginDist DistSpec `yaml:"margin_distribution"`
}

// DistSpec parameterizes a value distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

var validDistTypes = map[string]bool{
	"gaussian": true, "uniform": true, "exponential": true, "constant": true,
}

// DefaultOrderSpec returns a spec resembling retail order lines:
// small integer quantities, prices around $100 and ~12% margin.
func DefaultOrderSpec() *OrderSpec {
	return &OrderSpec{
		Version:  "1",
		IDPrefix: "order",
		QuantityDist: DistSpec{Type: "uniform", Params: map[string]float64{
			"min": 1, "max": 5,
		}},
		PriceDist: DistSpec{Type: "gaussian", Params: map[string]float64{
			"mean": 110, "std_dev": 60, "min": 10, "max": 500,
		}},
		MarginDist: DistSpec{Type: "gaussian", Params: map[string]float64{
			"mean": 0.12, "std_dev": 0.25, "min": -0.75, "max": 0.5,
		}},
	}
}

// LoadOrderSpec reads and parses a YAML order specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadOrderSpec(path string) (*OrderSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order spec: %w", err)
	}
	var spec OrderSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing order spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *OrderSpec) Validate() error {
	if err := validateDistSpec("quantity_distribution", &s.QuantityDist); err != nil {
		return err
	}
	if err := validateDistSpec("price_distribution", &s.PriceDist); err != nil {
		return err
	}
	return validateDistSpec("margin_distribution", &s.MarginDist)
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: gaussian, uniform, exponential, constant", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}
