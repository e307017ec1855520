// Package match scores lost items against found items and ranks candidates.
package match

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Name matching modes.
const (
	// NameContains awards the full name weight when either name contains the other.
	NameContains = "contains"
	// NameTokens scales the name weight by token overlap.
	NameTokens = "tokens"
)

// Weights are the points each signal contributes to a score.
type Weights struct {
	Category    float64 `yaml:"category"`
	Name        float64 `yaml:"name"`
	NameMode    string  `yaml:"name_mode"`
	Location    float64 `yaml:"location"`
	Description float64 `yaml:"description"`

	// Dates within CloseDays earn DateClose, otherwise dates within
	// NearDays earn DateNear.
	DateClose float64 `yaml:"date_close"`
	CloseDays float64 `yaml:"close_days"`
	DateNear  float64 `yaml:"date_near"`
	NearDays  float64 `yaml:"near_days"`
}

// DefaultWeights returns the weights used when none are configured.
func DefaultWeights() Weights {
	return Weights{
		Category:    30,
		Name:        10,
		NameMode:    NameContains,
		Location:    30,
		Description: 20,
		DateClose:   20,
		CloseDays:   2,
		DateNear:    10,
		NearDays:    7,
	}
}

// Validate rejects negative weights, unknown name modes and inverted date bands.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"category", w.Category},
		{"name", w.Name},
		{"location", w.Location},
		{"description", w.Description},
		{"date_close", w.DateClose},
		{"close_days", w.CloseDays},
		{"date_near", w.DateNear},
		{"near_days", w.NearDays},
	} {
		if f.value < 0 {
			return fmt.Errorf("weight %s must not be negative", f.name)
		}
	}
	if w.NameMode != NameContains && w.NameMode != NameTokens {
		return fmt.Errorf("unknown name mode %q", w.NameMode)
	}
	if w.NearDays < w.CloseDays {
		return fmt.Errorf("near_days (%g) must not be below close_days (%g)", w.NearDays, w.CloseDays)
	}
	return nil
}

// MaxScore is the upper bound of Score.
const MaxScore = 100

// TextSimilarity returns the Jaccard similarity of the word sets of a and b,
// in [0, 1]. Two texts without any words have similarity 0.
func TextSimilarity(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)

	var inter int
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Score rates how likely candidate describes the same object as source,
// in [0, MaxScore]. Every term is symmetric, so Score(a, b) == Score(b, a).
func Score(source, candidate model.Item, w Weights) float64 {
	var score float64

	if source.Category == candidate.Category {
		score += w.Category
	}

	score += nameScore(source.Name, candidate.Name, w)

	if fold(source.Location) == fold(candidate.Location) {
		score += w.Location
	}

	score += w.Description * TextSimilarity(source.Description, candidate.Description)

	days := math.Abs(source.Date.Sub(candidate.Date).Hours()) / 24
	switch {
	case days <= w.CloseDays:
		score += w.DateClose
	case days <= w.NearDays:
		score += w.DateNear
	}

	return math.Max(0, math.Min(MaxScore, score))
}

func nameScore(a, b string, w Weights) float64 {
	if w.NameMode == NameTokens {
		return w.Name * TextSimilarity(a, b)
	}
	fa, fb := fold(a), fold(b)
	if fa == "" || fb == "" {
		return 0
	}
	if strings.Contains(fa, fb) || strings.Contains(fb, fa) {
		return w.Name
	}
	return 0
}

// fold normalizes text for case-insensitive comparison.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// tokenSet splits folded text on runs of non-word characters.
func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(fold(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
