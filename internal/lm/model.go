// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lm implements an ARPA-format n-gram language model. Probabilities
// are kept as arbitrary-precision decimals rather than native floats, so
// that the long probability products of beam decoding do not lose the
// precision of the parsed log values. The model is read-only after
// construction and safe for concurrent use.
package lm

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// DefaultPrecision is the decimal precision used for 10^x expansions when
// the configuration does not set one.
const DefaultPrecision int32 = 100

// SentenceStart and SentenceEnd frame token sequences scored by the model.
const (
	SentenceStart = "<s>"
	SentenceEnd   = "</s>"
	UnknownToken  = "<unk>"
)

// Model is an n-gram language model: one nested token mapping per order,
// with the declared total token count per order.
type Model struct {
	orders    map[int]*order
	precision int32
}

// order holds the n-grams of one order n.
type order struct {
	count int
	data  ngramLevel
}

type ngramLevel map[string]*ngramEntry

type ngramEntry struct {
	children ngramLevel
	logProb  decimal.Decimal
	set      bool
}

// insert stores a log10 probability for the n-gram, creating intermediate
// levels. It fails on duplicates.
func (o *order) insert(tokens []string, logProb decimal.Decimal) error {
	level := o.data
	for _, tok := range tokens[:len(tokens)-1] {
		e, ok := level[tok]
		if !ok {
			e = &ngramEntry{children: ngramLevel{}}
			level[tok] = e
		} else if e.children == nil {
			e.children = ngramLevel{}
		}
		level = e.children
	}
	last := tokens[len(tokens)-1]
	if e, ok := level[last]; ok && e.set {
		return fmt.Errorf("duplicate entry for n-gram %v", tokens)
	} else if ok {
		e.logProb = logProb
		e.set = true
	} else {
		level[last] = &ngramEntry{logProb: logProb, set: true}
	}
	return nil
}

// lookup returns the stored log10 probability of the exact n-gram.
func (o *order) lookup(tokens []string) (decimal.Decimal, bool) {
	level := o.data
	for i, tok := range tokens {
		e, ok := level[tok]
		if !ok {
			return decimal.Decimal{}, false
		}
		if i == len(tokens)-1 {
			return e.logProb, e.set
		}
		level = e.children
		if level == nil {
			return decimal.Decimal{}, false
		}
	}
	return decimal.Decimal{}, false
}

// unigramLogProb returns the stored unigram log probability, or an
// <unk>-derived default for unknown tokens.
func (m *Model) unigramLogProb(token string) decimal.Decimal {
	o := m.orders[1]
	if lp, ok := o.lookup([]string{token}); ok {
		return lp
	}
	if lp, ok := o.lookup([]string{UnknownToken}); ok {
		return lp
	}
	return negLog10(o.count)
}

// bigramLogProb returns the stored bigram log probability, or
// log10(1/unigram-count) for unknown bigrams.
func (m *Model) bigramLogProb(w1, w2 string) decimal.Decimal {
	if o, ok := m.orders[2]; ok {
		if lp, ok := o.lookup([]string{w1, w2}); ok {
			return lp
		}
	}
	return negLog10(m.orders[1].count)
}

// trigramLogProb returns the stored trigram log probability, or
// log10(1/unigram-count^2) for unknown trigrams.
func (m *Model) trigramLogProb(w1, w2, w3 string) decimal.Decimal {
	if o, ok := m.orders[3]; ok {
		if lp, ok := o.lookup([]string{w1, w2, w3}); ok {
			return lp
		}
	}
	return negLog10(m.orders[1].count).Mul(decimal.NewFromInt(2))
}

// SequenceProbability returns P(tokens) as a decimal in (0, 1]. Length 1
// and 2 use the unigram and bigram tables directly; longer sequences chain
// trigram log probabilities over every consecutive triple:
//
//	P(w1..wn) = 10^( log p(w1,w2,w3) + log p(w2,w3,w4) + ... )
func (m *Model) SequenceProbability(tokens []string) (decimal.Decimal, error) {
	switch len(tokens) {
	case 0:
		return decimal.Decimal{}, fmt.Errorf("lm: empty token sequence")
	case 1:
		return m.pow10(m.unigramLogProb(tokens[0]))
	case 2:
		return m.pow10(m.bigramLogProb(tokens[0], tokens[1]))
	default:
		logProb := decimal.Zero
		for i := 0; i+2 < len(tokens); i++ {
			logProb = logProb.Add(m.trigramLogProb(tokens[i], tokens[i+1], tokens[i+2]))
		}
		return m.pow10(logProb)
	}
}

// SentenceProbability frames the labels with <s> and </s> and returns the
// sequence probability.
func (m *Model) SentenceProbability(labels []string) (decimal.Decimal, error) {
	tokens := make([]string, 0, len(labels)+2)
	tokens = append(tokens, SentenceStart)
	tokens = append(tokens, labels...)
	tokens = append(tokens, SentenceEnd)
	return m.SequenceProbability(tokens)
}

// pow10 expands a log10 probability at the model's precision.
func (m *Model) pow10(logProb decimal.Decimal) (decimal.Decimal, error) {
	p, err := decimal.NewFromInt(10).PowWithPrecision(logProb, m.precision)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("lm: expanding 10^%s: %w", logProb, err)
	}
	return p, nil
}

// negLog10 returns -log10(n) as a decimal. The count arguments are small
// integers, so the float64 logarithm is exact far beyond the stored model
// precision.
func negLog10(n int) decimal.Decimal {
	return decimal.NewFromFloat(-math.Log10(float64(n)))
}

// newModel builds an empty model at the precision of cfg.
func newModel(cfg types.LanguageModelConfig) *Model {
	precision := cfg.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return &Model{orders: map[int]*order{}, precision: precision}
}
