// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ink-engine/internal/beam"
	"github.com/pdiddy/ink-engine/internal/lm"
	"github.com/pdiddy/ink-engine/pkg/types"
)

var (
	decodeRecordingFile   string
	decodePredictionsFile string
	decodeModelFile       string
	decodePriorFile       string
	decodeTopK            int
	decodeBeamWidth       int
	decodeMaxGuesses      int
	decodeMergeWindow     int
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a recording into ranked symbol sequences",
	Long: `decode replays the strokes of a recording through the streaming beam
search and prints the highest scoring symbol sequences as JSON.

The symbol classifier runs out of process: --predictions names a JSON
file mapping comma separated stroke index groups, for example "0,2", to
the classifier guesses for that group of strokes. Groups absent from
the file score zero. An ARPA language model and a stroke count prior
are optional.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recording, err := loadRecording(decodeRecordingFile)
		if err != nil {
			return err
		}

		clf, err := loadScriptedClassifier(decodePredictionsFile, recording)
		if err != nil {
			return err
		}

		cfg := engineConfig()
		if decodeModelFile != "" {
			cfg.LanguageModel.Path = decodeModelFile
		}
		if decodePriorFile != "" {
			cfg.Decoder.PriorPath = decodePriorFile
		}
		if decodeBeamWidth > 0 {
			cfg.Decoder.BeamWidth = decodeBeamWidth
		}
		if decodeMaxGuesses > 0 {
			cfg.Decoder.MaxGuesses = decodeMaxGuesses
		}
		if decodeMergeWindow > 0 {
			cfg.Decoder.MergeWindow = decodeMergeWindow
		}

		var model *lm.Model
		if cfg.LanguageModel.Path != "" {
			model, err = lm.Load(cfg.LanguageModel)
			if err != nil {
				return fmt.Errorf("loading language model: %w", err)
			}
		}

		var prior *beam.StrokePrior
		if cfg.Decoder.PriorPath != "" {
			prior, err = beam.LoadPrior(cfg.Decoder.PriorPath)
			if err != nil {
				return fmt.Errorf("loading stroke count prior: %w", err)
			}
		}

		b := beam.New(clf, model, prior, cfg.Decoder)
		for i, stroke := range recording {
			if err := b.AddStroke(cmd.Context(), stroke); err != nil {
				return fmt.Errorf("decoding stroke %d: %w", i, err)
			}
		}

		results := b.Results()
		if decodeTopK > 0 && len(results) > decodeTopK {
			results = results[:decodeTopK]
		}

		enc := json.NewEncoder(os.Stdout)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("writing result: %w", err)
			}
		}
		return nil
	},
}

func loadRecording(path string) (types.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	var recording types.Recording
	if err := json.Unmarshal(data, &recording); err != nil {
		return nil, fmt.Errorf("parsing recording: %w", err)
	}
	if len(recording) == 0 {
		return nil, fmt.Errorf("recording %s contains no strokes", path)
	}
	return recording, nil
}

// scriptedClassifier serves pre-computed classifier output. It maps the
// strokes it is asked about back to their indices in the original
// recording and looks the index group up in the predictions table.
type scriptedClassifier struct {
	recording   types.Recording
	predictions map[string][]types.Guess
}

func loadScriptedClassifier(path string, recording types.Recording) (*scriptedClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading predictions: %w", err)
	}
	raw := make(map[string][]types.Guess)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing predictions: %w", err)
	}

	// Re-key on canonical sorted index groups so "2,0" and "0,2" match.
	predictions := make(map[string][]types.Guess, len(raw))
	for key, guesses := range raw {
		canonical, err := canonicalGroupKey(key, len(recording))
		if err != nil {
			return nil, fmt.Errorf("predictions entry %q: %w", key, err)
		}
		predictions[canonical] = guesses
	}
	return &scriptedClassifier{recording: recording, predictions: predictions}, nil
}

func canonicalGroupKey(key string, strokeCount int) (string, error) {
	parts := strings.Split(key, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("parsing stroke index %q: %w", p, err)
		}
		if idx < 0 || idx >= strokeCount {
			return "", fmt.Errorf("stroke index %d out of range [0, %d)", idx, strokeCount)
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	group := make([]string, len(indices))
	for i, idx := range indices {
		group[i] = strconv.Itoa(idx)
	}
	return strings.Join(group, ","), nil
}

func (c *scriptedClassifier) Predict(ctx context.Context, strokes types.Recording) ([]types.Guess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(strokes))
	for _, stroke := range strokes {
		idx := c.indexOf(stroke)
		if idx < 0 {
			return nil, fmt.Errorf("stroke not part of the recording")
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	group := make([]string, len(indices))
	for i, idx := range indices {
		group[i] = strconv.Itoa(idx)
	}
	return c.predictions[strings.Join(group, ",")], nil
}

func (c *scriptedClassifier) indexOf(stroke types.Stroke) int {
	for i, candidate := range c.recording {
		if strokesEqual(candidate, stroke) {
			return i
		}
	}
	return -1
}

func strokesEqual(a, b types.Stroke) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func init() {
	decodeCmd.Flags().StringVar(&decodeRecordingFile, "recording", "", "JSON file with the recording strokes (required)")
	decodeCmd.Flags().StringVar(&decodePredictionsFile, "predictions", "", "JSON file with classifier guesses per stroke index group (required)")
	decodeCmd.Flags().StringVar(&decodeModelFile, "model", "", "ARPA language model file")
	decodeCmd.Flags().StringVar(&decodePriorFile, "prior", "", "YAML stroke count prior file")
	decodeCmd.Flags().IntVar(&decodeTopK, "top", 10, "number of results to print")
	decodeCmd.Flags().IntVar(&decodeBeamWidth, "beam-width", 0, "hypotheses kept after each stroke (0: configured default)")
	decodeCmd.Flags().IntVar(&decodeMaxGuesses, "guesses", 0, "classifier guesses considered per classification (0: configured default)")
	decodeCmd.Flags().IntVar(&decodeMergeWindow, "merge-window", 0, "recently opened symbols a stroke may merge into (0: configured default)")
	decodeCmd.MarkFlagRequired("recording")
	decodeCmd.MarkFlagRequired("predictions")

	rootCmd.AddCommand(decodeCmd)
}
