// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "context"

// Guess is one ranked label candidate from the symbol classifier.
type Guess struct {
	// Label is the symbol label (e.g. a LaTeX command).
	Label string `json:"label" yaml:"label"`

	// Probability is the classifier confidence in [0, 1].
	Probability float64 `json:"probability" yaml:"probability"`
}

// SymbolClassifier recognizes a group of strokes as a single symbol. It is
// an external collaborator: the engine never looks inside it.
//
// Predict returns guesses sorted descending by probability. For a valid
// non-empty stroke group the result is non-empty and deterministic for
// identical input. An empty result makes the engine drop the candidate
// branch that produced the query; an error aborts the current operation.
type SymbolClassifier interface {
	Predict(ctx context.Context, strokes Recording) ([]Guess, error)
}

// Result is one ranked decoder output: the label sequence of a hypothesis
// in segmentation order and its cumulative probability.
type Result struct {
	LabelSequence string  `json:"label_sequence" yaml:"label_sequence"`
	Probability   float64 `json:"probability" yaml:"probability"`
}
