// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ink-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ink-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ink-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "ink-engine",
	Short: "Segmentation and decoding engine for online handwriting",
	Long: `ink-engine decides how the strokes of an online handwritten recording
group into symbols and what each symbol most likely is. The offline path
pre-segments a recording along a minimum spanning tree and enumerates
candidate segmentations exhaustively; the streaming path decodes strokes
one at a time with a beam search over classifier, geometry and language
model scores.

The symbol classifier itself is an external collaborator: the decode
command reads its output from a predictions file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ink-engine.yaml or ~/.config/ink-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ink-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ink-engine"))
		}
	}

	viper.SetEnvPrefix("INK_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig merges the configuration file over the documented defaults.
func engineConfig() types.Config {
	cfg := types.DefaultConfig()
	if v := viper.GetInt("decoder.max_guesses"); v > 0 {
		cfg.Decoder.MaxGuesses = v
	}
	if v := viper.GetInt("decoder.merge_window"); v > 0 {
		cfg.Decoder.MergeWindow = v
	}
	if v := viper.GetInt("decoder.beam_width"); v > 0 {
		cfg.Decoder.BeamWidth = v
	}
	if v := viper.GetString("decoder.prior_path"); v != "" {
		cfg.Decoder.PriorPath = v
	}
	if v := viper.GetFloat64("pre_segment.split_confidence"); v > 0 {
		cfg.PreSegment.SplitConfidence = v
	}
	if v := viper.GetFloat64("pre_segment.growth_margin"); v > 0 {
		cfg.PreSegment.GrowthMargin = v
	}
	if v := viper.GetInt("pre_segment.max_exhaustive_strokes"); v > 0 {
		cfg.PreSegment.MaxExhaustiveStrokes = v
	}
	if v := viper.GetInt("pre_segment.chunk_retention"); v > 0 {
		cfg.PreSegment.ChunkRetention = v
	}
	if v := viper.GetString("language_model.path"); v != "" {
		cfg.LanguageModel.Path = v
	}
	if v := viper.GetInt32("language_model.precision"); v > 0 {
		cfg.LanguageModel.Precision = v
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
