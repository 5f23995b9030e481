// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ink-engine/internal/lm"
)

var (
	lmModelFile string
	lmSentence  string
	lmRaw       bool
)

var lmCmd = &cobra.Command{
	Use:   "lm",
	Short: "Score a symbol sequence against an ARPA language model",
	Long: `lm loads an n-gram language model in ARPA format, either plain text
or a .tar.bz2 archive containing an .arpa member, and prints the model
probability of a semicolon separated symbol sequence.

With --sentence-markers the sequence is wrapped in <s> and </s> before
scoring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engineConfig()
		if lmModelFile != "" {
			cfg.LanguageModel.Path = lmModelFile
		}
		if cfg.LanguageModel.Path == "" {
			return fmt.Errorf("no language model configured; pass --model or set language_model.path")
		}

		model, err := lm.Load(cfg.LanguageModel)
		if err != nil {
			return fmt.Errorf("loading language model: %w", err)
		}

		tokens := strings.Split(lmSentence, ";")
		for i := range tokens {
			tokens[i] = strings.TrimSpace(tokens[i])
		}

		score := model.SentenceProbability
		if lmRaw {
			score = model.SequenceProbability
		}
		p, err := score(tokens)
		if err != nil {
			return fmt.Errorf("scoring sequence: %w", err)
		}

		fmt.Println(p.String())
		return nil
	},
}

func init() {
	lmCmd.Flags().StringVar(&lmModelFile, "model", "", "ARPA model file (plain or .tar.bz2)")
	lmCmd.Flags().StringVar(&lmSentence, "sentence", "", "semicolon separated symbol sequence (required)")
	lmCmd.Flags().BoolVar(&lmRaw, "raw", false, "score the sequence without <s> and </s> markers")
	lmCmd.MarkFlagRequired("sentence")

	rootCmd.AddCommand(lmCmd)
}
