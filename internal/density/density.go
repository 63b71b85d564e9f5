// Package density holds the discrete density pairs that drive chain
// construction: an ordered set of space nodes z with probability weights q.
package density

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// WeightSumTol bounds how far the weights may drift from summing to 1
// before the input is rejected.
const WeightSumTol = 1e-9

// Pair is one (node value, probability weight) element of a discrete
// density approximation.
type Pair struct {
	Z float64 `yaml:"z"`
	Q float64 `yaml:"q"`
}

// Pairs is an ordered discrete density. Immutable once validated.
type Pairs []Pair

// Validate rejects malformed densities before any solving begins.
func (p Pairs) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("density: need at least 2 pairs, got %d", len(p))
	}
	sum := 0.0
	for i, pr := range p {
		if math.IsNaN(pr.Z) || math.IsInf(pr.Z, 0) {
			return fmt.Errorf("density: pair %d has invalid node %v", i, pr.Z)
		}
		if pr.Q < 0 || math.IsNaN(pr.Q) || math.IsInf(pr.Q, 0) {
			return fmt.Errorf("density: pair %d has invalid weight %v", i, pr.Q)
		}
		sum += pr.Q
	}
	if math.Abs(sum-1) > WeightSumTol {
		return fmt.Errorf("density: weights sum to %v, want 1", sum)
	}
	return nil
}

// Values returns the node values z in order.
func (p Pairs) Values() []float64 {
	z := make([]float64, len(p))
	for i, pr := range p {
		z[i] = pr.Z
	}
	return z
}

// Weights returns the probability weights q in order.
func (p Pairs) Weights() []float64 {
	q := make([]float64, len(p))
	for i, pr := range p {
		q[i] = pr.Q
	}
	return q
}

type file struct {
	Pairs Pairs `yaml:"pairs"`
}

// Load reads a density from a YAML file of the form:
//
//	pairs:
//	  - {z: -1.0, q: 0.25}
//	  - {z: 0.0, q: 0.5}
//	  - {z: 1.0, q: 0.25}
func Load(path string) (Pairs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("density: parse %s: %w", path, err)
	}
	if err := f.Pairs.Validate(); err != nil {
		return nil, err
	}
	return f.Pairs, nil
}
