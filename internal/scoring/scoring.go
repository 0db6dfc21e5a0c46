// Package scoring computes importance and complexity scores for analyzed files.
//
// Both scores are path/category heuristics, not static-analysis metrics: they
// approximate "where should an agent look first", nothing more. The constants
// are a starting calibration; tests assert bounds and monotonicity rather than
// exact values.
package scoring

import (
	"math"
	"path"
	"strings"

	"github.com/celestiaorg/tokenmetry/internal/model"
)

// baseImportance is the per-category starting score.
var baseImportance = map[model.Category]float64{
	model.MainEntry:      9.0,
	model.CoreLogic:      8.5,
	model.APIDefinitions: 8.0,
	model.Configuration:  6.0,
	model.Utilities:      5.0,
	model.Documentation:  4.0,
	model.Test:           3.0,
	model.Other:          5.0,
	model.Generated:      1.0,
}

// complexityWeight scales the token-count curve per category so files within
// one category are comparable.
var complexityWeight = map[model.Category]float64{
	model.MainEntry:      1.2,
	model.CoreLogic:      1.5,
	model.APIDefinitions: 1.2,
	model.Configuration:  0.8,
	model.Utilities:      1.0,
	model.Documentation:  0.5,
	model.Test:           0.8,
	model.Other:          1.0,
	model.Generated:      0.4,
}

// filenameBonus rewards well-known entry-point filenames, applied before the
// size multiplier.
var filenameBonus = map[string]float64{
	"app":    1.0,
	"main":   0.8,
	"keeper": 0.6,
}

// Importance returns the importance score in [1.0, 10.0], one decimal place.
func Importance(category model.Category, tokens int, filePath string) float64 {
	score, ok := baseImportance[category]
	if !ok {
		score = baseImportance[model.Other]
	}

	if bonus, ok := filenameBonus[stem(filePath)]; ok {
		score += bonus
	}

	score *= sizeMultiplier(tokens)

	return round1(clamp(score, 1.0, 10.0))
}

// Complexity returns a monotone non-decreasing function of token count within
// a category, capped at 10 and rounded to one decimal place.
func Complexity(tokens int, category model.Category) float64 {
	weight, ok := complexityWeight[category]
	if !ok {
		weight = complexityWeight[model.Other]
	}
	score := weight * float64(tokens) / 1000.0
	return round1(math.Min(score, 10.0))
}

func sizeMultiplier(tokens int) float64 {
	switch {
	case tokens > 10000:
		return 1.2
	case tokens > 5000:
		return 1.1
	case tokens > 1000:
		return 1.0
	default:
		return 0.9
	}
}

func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
