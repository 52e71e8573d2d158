// Package power models the boundary to the external circuit estimation tool.
// The simulator queries it once per hardware block and reuses the cached
// result to derive average power from accumulated access counts.
package power

import (
	"encoding/json"
	"fmt"
	"os"
)

// An Estimate is the one-shot answer of the circuit estimator for one
// hardware configuration.
type Estimate struct {
	ReadEnergy   float64 `json:"read_energy"`   // nJ per read
	WriteEnergy  float64 `json:"write_energy"`  // nJ per write
	LeakagePower float64 `json:"leakage_power"` // mW
	Area         float64 `json:"area"`          // mm^2
}

// An Estimator turns a configuration descriptor into a power/area estimate.
// The descriptor is passed through unmodified; its meaning belongs to the
// estimator implementation.
type Estimator interface {
	Estimate(config string) (Estimate, error)
}

// TableEstimator reads a precomputed estimate from a JSON descriptor file.
type TableEstimator struct{}

func (TableEstimator) Estimate(config string) (Estimate, error) {
	data, err := os.ReadFile(config)
	if err != nil {
		return Estimate{}, fmt.Errorf("cannot read power config: %w", err)
	}

	var e Estimate
	if err := json.Unmarshal(data, &e); err != nil {
		return Estimate{}, fmt.Errorf("malformed power config %s: %w", config, err)
	}

	return e, nil
}
