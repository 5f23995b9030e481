// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DecoderConfig holds settings for the incremental beam-search decoder.
// The defaults reproduce the empirically tuned values of the original
// recognizer; none of them is known to generalize beyond its training
// distribution, which is why they are configuration rather than literals.
type DecoderConfig struct {
	// MaxGuesses is the number of classifier guesses considered per symbol
	// classification (default 10).
	MaxGuesses int `json:"max_guesses" yaml:"max_guesses"`

	// MergeWindow is the number of most-recently-opened symbols a new
	// stroke may be merged into (default 3).
	MergeWindow int `json:"merge_window" yaml:"merge_window"`

	// BeamWidth is the maximum number of hypotheses kept after pruning
	// (default 50).
	BeamWidth int `json:"beam_width" yaml:"beam_width"`

	// MultiSymbolLabel is a classifier label marking a stroke group that
	// spans several symbols. Guesses with this label are rejected in the
	// extend-symbol branch. Empty disables the check.
	MultiSymbolLabel string `json:"multi_symbol_label,omitempty" yaml:"multi_symbol_label,omitempty"`

	// Separator joins symbol labels in decoder results (default " ").
	Separator string `json:"separator" yaml:"separator"`

	// PriorPath is an optional YAML file with per-symbol stroke-count
	// probabilities. Empty disables the stroke-count prior.
	PriorPath string `json:"prior_path,omitempty" yaml:"prior_path,omitempty"`
}

// PreSegmentConfig holds settings for the MST pre-segmenter and the offline
// exhaustive segmentation it bounds.
type PreSegmentConfig struct {
	// SplitConfidence is the top-1 classifier confidence above which a
	// stroke is treated as a complete standalone symbol (default 0.95).
	SplitConfidence float64 `json:"split_confidence" yaml:"split_confidence"`

	// GrowthMargin is the fractional margin by which stroke bounding boxes
	// are grown before the intersection test (default 0.2).
	GrowthMargin float64 `json:"growth_margin" yaml:"growth_margin"`

	// MinSplitPoints is the minimum number of points a stroke needs to be
	// considered for splitting (default 3); dots cannot be standalone
	// symbols at this stage.
	MinSplitPoints int `json:"min_split_points" yaml:"min_split_points"`

	// ExcludedLabels lists connector classes (e.g. a bare dash) whose
	// strokes never trigger a split, because they frequently touch
	// neighboring strokes.
	ExcludedLabels []string `json:"excluded_labels" yaml:"excluded_labels"`

	// MaxExhaustiveStrokes caps the number of strokes in one wood component
	// for which set partitions are enumerated exhaustively (default 12).
	// Enumeration cost is the Bell number of the component size.
	MaxExhaustiveStrokes int `json:"max_exhaustive_strokes" yaml:"max_exhaustive_strokes"`

	// ChunkRetention is the number of best segmentations kept per chunk and
	// across chunk merges (default 500).
	ChunkRetention int `json:"chunk_retention" yaml:"chunk_retention"`
}

// LanguageModelConfig holds settings for the n-gram language model.
type LanguageModelConfig struct {
	// Path is the ARPA model file, either plain text or a .tar.bz2 archive
	// containing one .arpa entry.
	Path string `json:"path" yaml:"path"`

	// Precision is the decimal precision used when expanding log10
	// probabilities (default 100 digits).
	Precision int32 `json:"precision" yaml:"precision"`
}

// SessionConfig holds settings for the beam session store.
type SessionConfig struct {
	// DBPath is the SQLite database file holding serialized beam state.
	DBPath string `json:"db_path" yaml:"db_path"`

	// TTL is the age after which an untouched session may be swept
	// (default 1h). The serving layer decides when to sweep.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// Config groups all component configurations.
type Config struct {
	Decoder       DecoderConfig       `json:"decoder" yaml:"decoder"`
	PreSegment    PreSegmentConfig    `json:"pre_segment" yaml:"pre_segment"`
	LanguageModel LanguageModelConfig `json:"language_model" yaml:"language_model"`
	Session       SessionConfig       `json:"session" yaml:"session"`
}

// DefaultConfig returns the configuration with all documented defaults.
func DefaultConfig() Config {
	return Config{
		Decoder: DecoderConfig{
			MaxGuesses:       10,
			MergeWindow:      3,
			BeamWidth:        50,
			MultiSymbolLabel: "::MULTISYMBOL::",
			Separator:        " ",
		},
		PreSegment: PreSegmentConfig{
			SplitConfidence:      0.95,
			GrowthMargin:         0.2,
			MinSplitPoints:       3,
			ExcludedLabels:       []string{"-"},
			MaxExhaustiveStrokes: 12,
			ChunkRetention:       500,
		},
		LanguageModel: LanguageModelConfig{
			Precision: 100,
		},
		Session: SessionConfig{
			DBPath: "sessions.db",
			TTL:    time.Hour,
		},
	}
}
