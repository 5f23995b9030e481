// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presegment

import "github.com/pdiddy/ink-engine/pkg/types"

// HasWrongBreak reports whether the predicted segmentation splits strokes
// that the reference segmentation keeps in one symbol (over-segmentation).
func HasWrongBreak(real, pred types.Segmentation) bool {
	for _, symbolReal := range real {
		for _, symbolPred := range pred {
			if !contains(symbolPred, symbolReal[0]) {
				continue
			}
			for _, stroke := range symbolReal {
				if !contains(symbolPred, stroke) {
					return true
				}
			}
		}
	}
	return false
}

// HasMissingBreak reports whether the predicted segmentation joins strokes
// that the reference segmentation separates (under-segmentation).
func HasMissingBreak(real, pred types.Segmentation) bool {
	for _, symbolPred := range pred {
		for _, symbolReal := range real {
			if !contains(symbolReal, symbolPred[0]) {
				continue
			}
			for _, stroke := range symbolPred {
				if !contains(symbolReal, stroke) {
					return true
				}
			}
		}
	}
	return false
}

func contains(group []int, stroke int) bool {
	for _, s := range group {
		if s == stroke {
			return true
		}
	}
	return false
}
