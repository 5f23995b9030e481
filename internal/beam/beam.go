// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package beam implements the incremental beam-search decoder. A Beam
// consumes one stroke at a time and maintains a bounded, ranked set of
// hypotheses about how the strokes seen so far group into symbols and what
// those symbols are. Classifier, language model and configuration are
// injected at construction; a Beam owns its history and hypotheses
// exclusively, so independent recordings decode concurrently on independent
// Beams with no shared state.
package beam

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pdiddy/ink-engine/internal/geometry"
	"github.com/pdiddy/ink-engine/internal/lm"
	"github.com/pdiddy/ink-engine/internal/spatial"
	"github.com/pdiddy/ink-engine/pkg/types"
)

// Hypothesis is one candidate reading of the strokes seen so far. A
// hypothesis is never mutated after creation; AddStroke supersedes it with
// spawned successors.
type Hypothesis struct {
	// Segmentation groups the history's stroke indices into symbols.
	Segmentation types.Segmentation `json:"segmentation"`

	// Symbols holds one guess per segmentation group, in group order.
	Symbols []types.Guess `json:"symbols"`

	// Relations holds the spatial relation of each symbol to its
	// predecessor; entry i relates symbol i+1 to symbol i.
	Relations []spatial.Relation `json:"relations,omitempty"`

	// Probability is the cumulative score: the product of the symbol
	// probabilities, rescaled by the language model on every stroke.
	Probability decimal.Decimal `json:"probability"`

	// LMProbability is the language-model probability of the symbol label
	// sequence, as of the last rescoring.
	LMProbability decimal.Decimal `json:"lm_probability"`
}

// Beam is the decoder state for one in-progress recording.
type Beam struct {
	clf   types.SymbolClassifier
	model *lm.Model
	prior *StrokePrior
	cfg   types.DecoderConfig

	// History is the recording seen so far.
	History types.Recording

	// Hypotheses is the ranked candidate set, at most BeamWidth entries,
	// sorted descending by probability after every AddStroke.
	Hypotheses []Hypothesis
}

// New returns an empty beam. prior may be nil to decode without a
// stroke-count prior. Zero or negative cfg limits fall back to the
// documented defaults.
func New(clf types.SymbolClassifier, model *lm.Model, prior *StrokePrior, cfg types.DecoderConfig) *Beam {
	defaults := types.DefaultConfig().Decoder
	if cfg.MaxGuesses <= 0 {
		cfg.MaxGuesses = defaults.MaxGuesses
	}
	if cfg.MergeWindow <= 0 {
		cfg.MergeWindow = defaults.MergeWindow
	}
	if cfg.BeamWidth <= 0 {
		cfg.BeamWidth = defaults.BeamWidth
	}
	if cfg.Separator == "" {
		cfg.Separator = defaults.Separator
	}
	return &Beam{clf: clf, model: model, prior: prior, cfg: cfg}
}

// AddStroke advances the beam by one stroke: every hypothesis spawns
// successors that either open a new symbol with the stroke or merge it into
// one of the most recently opened symbols, successors are rescored with the
// language model, and the best BeamWidth survive.
func (b *Beam) AddStroke(ctx context.Context, stroke types.Stroke) error {
	if len(b.Hypotheses) == 0 {
		b.Hypotheses = []Hypothesis{{Probability: decimal.NewFromInt(1), LMProbability: decimal.NewFromInt(1)}}
	}
	strokeNr := len(b.History)

	successors, err := b.newSymbolBranch(ctx, stroke, strokeNr)
	if err != nil {
		return err
	}
	extended, err := b.extendSymbolBranch(ctx, stroke, strokeNr)
	if err != nil {
		return err
	}
	successors = append(successors, extended...)

	if err := b.rescore(successors); err != nil {
		return err
	}

	sort.SliceStable(successors, func(i, j int) bool {
		return successors[i].Probability.Cmp(successors[j].Probability) > 0
	})
	if len(successors) > b.cfg.BeamWidth {
		successors = successors[:b.cfg.BeamWidth]
	}

	b.History = append(b.History, stroke)
	b.Hypotheses = successors
	return nil
}

// newSymbolBranch spawns one successor per hypothesis and guess, treating
// the stroke as the first stroke of a new symbol.
func (b *Beam) newSymbolBranch(ctx context.Context, stroke types.Stroke, strokeNr int) ([]Hypothesis, error) {
	guesses, err := b.clf.Predict(ctx, types.Recording{stroke})
	if err != nil {
		return nil, fmt.Errorf("beam: classifying stroke %d: %w", strokeNr, err)
	}
	guesses = truncate(guesses, b.cfg.MaxGuesses)

	var successors []Hypothesis
	for _, hyp := range b.Hypotheses {
		// The new symbol's relation to its immediate predecessor, shared
		// by all guesses of this hypothesis.
		relations := hyp.Relations
		if n := len(hyp.Segmentation); n > 0 {
			prev := geometry.BoundsAll(b.History.Select(hyp.Segmentation[n-1]))
			rel := spatial.Estimate(prev, geometry.Bounds(stroke))
			relations = append(cloneRelations(hyp.Relations), rel)
		}

		for _, guess := range guesses {
			succ := Hypothesis{
				Segmentation: append(hyp.Segmentation.Clone(), []int{strokeNr}),
				Symbols:      append(cloneSymbols(hyp.Symbols), guess),
				Relations:    relations,
			}
			succ.Probability = b.cumulative(succ)
			successors = append(successors, succ)
		}
	}
	return successors, nil
}

// extendSymbolBranch spawns successors that merge the stroke into one of
// the last MergeWindow symbols of each hypothesis. Candidate segmentations
// already evaluated in this step are skipped so the classifier is queried
// once per distinct stroke grouping.
func (b *Beam) extendSymbolBranch(ctx context.Context, stroke types.Stroke, strokeNr int) ([]Hypothesis, error) {
	var successors []Hypothesis
	evaluated := make(map[string]bool)

	for _, hyp := range b.Hypotheses {
		window := min(b.cfg.MergeWindow, len(hyp.Segmentation))
		for d := 0; d < window; d++ {
			idx := len(hyp.Segmentation) - 1 - d

			candidate := hyp.Segmentation.Clone()
			candidate[idx] = append(candidate[idx], strokeNr)
			key := candidate.Key()
			if evaluated[key] {
				continue
			}
			evaluated[key] = true

			merged := append(b.History.Select(hyp.Segmentation[idx]), stroke)
			guesses, err := b.clf.Predict(ctx, merged)
			if err != nil {
				return nil, fmt.Errorf("beam: classifying merge into symbol %d: %w", idx, err)
			}
			for _, guess := range truncate(guesses, b.cfg.MaxGuesses) {
				if b.cfg.MultiSymbolLabel != "" && guess.Label == b.cfg.MultiSymbolLabel {
					// The merged strokes span several symbols; this merge
					// was a wrong grouping.
					continue
				}
				symbols := cloneSymbols(hyp.Symbols)
				symbols[idx] = guess
				succ := Hypothesis{
					Segmentation: candidate,
					Symbols:      symbols,
					Relations:    hyp.Relations,
				}
				succ.Probability = b.cumulative(succ)
				successors = append(successors, succ)
			}
		}
	}
	return successors, nil
}

// cumulative returns the product of the hypothesis's symbol probabilities,
// each weighted by the stroke-count prior when one is configured.
func (b *Beam) cumulative(h Hypothesis) decimal.Decimal {
	p := decimal.NewFromInt(1)
	for i, sym := range h.Symbols {
		sp := sym.Probability
		if b.prior != nil {
			sp *= b.prior.Probability(sym.Label, len(h.Segmentation[i]))
		}
		p = p.Mul(decimal.NewFromFloat(sp))
	}
	return p
}

// rescore queries the language model for every successor's label sequence
// and rescales each cumulative probability by lm + (1 - maxLM), where maxLM
// is the round's best language-model probability. The additive shift maps
// the best hypothesis's term to 1 and preserves the relative order of the
// rest; it is an empirical normalization, not a probability model.
func (b *Beam) rescore(successors []Hypothesis) error {
	if b.model == nil || len(successors) == 0 {
		return nil
	}
	maxLM := decimal.Zero
	for i := range successors {
		labels := make([]string, len(successors[i].Symbols))
		for j, sym := range successors[i].Symbols {
			labels[j] = sym.Label
		}
		lmProb, err := b.model.SentenceProbability(labels)
		if err != nil {
			return fmt.Errorf("beam: %w", err)
		}
		successors[i].LMProbability = lmProb
		if lmProb.Cmp(maxLM) > 0 {
			maxLM = lmProb
		}
	}
	shift := decimal.NewFromInt(1).Sub(maxLM)
	for i := range successors {
		successors[i].Probability = successors[i].Probability.Mul(successors[i].LMProbability.Add(shift))
	}
	return nil
}

// Results projects the current hypotheses into ranked label sequences. The
// slice is already sorted descending by probability from the last pruning.
func (b *Beam) Results() []types.Result {
	results := make([]types.Result, 0, len(b.Hypotheses))
	for _, hyp := range b.Hypotheses {
		seq := ""
		for i, sym := range hyp.Symbols {
			if i > 0 {
				seq += b.cfg.Separator
			}
			seq += sym.Label
		}
		results = append(results, types.Result{
			LabelSequence: seq,
			Probability:   hyp.Probability.InexactFloat64(),
		})
	}
	return results
}

// beamState is the serialized form of a beam: its history and hypotheses.
// Classifier, model, prior and configuration are reattached on restore.
type beamState struct {
	History    types.Recording `json:"history"`
	Hypotheses []Hypothesis    `json:"hypotheses"`
}

// Snapshot serializes the beam state for storage between strokes.
func (b *Beam) Snapshot() ([]byte, error) {
	data, err := json.Marshal(beamState{History: b.History, Hypotheses: b.Hypotheses})
	if err != nil {
		return nil, fmt.Errorf("beam: serializing state: %w", err)
	}
	return data, nil
}

// Restore rebuilds a beam from a snapshot, reattaching the injected
// collaborators.
func Restore(data []byte, clf types.SymbolClassifier, model *lm.Model, prior *StrokePrior, cfg types.DecoderConfig) (*Beam, error) {
	var state beamState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("beam: restoring state: %w", err)
	}
	b := New(clf, model, prior, cfg)
	b.History = state.History
	b.Hypotheses = state.Hypotheses
	return b, nil
}

func truncate(guesses []types.Guess, m int) []types.Guess {
	if len(guesses) > m {
		return guesses[:m]
	}
	return guesses
}

func cloneSymbols(symbols []types.Guess) []types.Guess {
	out := make([]types.Guess, len(symbols))
	copy(out, symbols)
	return out
}

func cloneRelations(relations []spatial.Relation) []spatial.Relation {
	out := make([]spatial.Relation, len(relations))
	copy(out, relations)
	return out
}
