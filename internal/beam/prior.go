// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beam

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// priorEpsilon is returned for (symbol, count) pairs absent from the prior
// table; unseen combinations are rare, not impossible.
const priorEpsilon = 1e-8

// StrokePrior holds, per symbol label, the probability of the symbol being
// written with a given number of strokes. It sharpens the decoder's symbol
// probabilities: a guess that would require an implausible stroke count for
// its label loses mass.
type StrokePrior struct {
	probs map[string]map[int]float64
}

// LoadPrior reads a stroke-count prior from a YAML file mapping symbol
// labels to {stroke-count: probability} tables.
func LoadPrior(path string) (*StrokePrior, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beam: reading stroke prior: %w", err)
	}
	probs := make(map[string]map[int]float64)
	if err := yaml.Unmarshal(raw, &probs); err != nil {
		return nil, fmt.Errorf("beam: parsing stroke prior %s: %w", path, err)
	}
	return &StrokePrior{probs: probs}, nil
}

// Probability returns the prior probability of the labeled symbol being
// written with count strokes, or a small epsilon for unseen combinations.
func (p *StrokePrior) Probability(label string, count int) float64 {
	if table, ok := p.probs[label]; ok {
		if prob, ok := table[count]; ok {
			return prob
		}
	}
	return priorEpsilon
}
