package match

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

var (
	queriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "izgubljeno_match_queries_total",
		Help: "Number of match queries run.",
	})
	candidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "izgubljeno_match_candidates_scored_total",
		Help: "Number of candidate items scored across all match queries.",
	})
	resultsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "izgubljeno_match_results",
		Help:    "Number of matches returned per query.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})
)

// DefaultThreshold keeps a bare category match (30 points) out of the results.
const DefaultThreshold = 30

// Finder ranks opposite-type candidates for an item.
type Finder struct {
	Items   store.Items
	Weights Weights
	// Only candidates scoring strictly above Threshold are returned.
	Threshold float64
}

// FindMatches returns searching items of the opposite type that score above
// the threshold, best first. Equal scores keep store order. It returns
// store.ErrNotFound when itemID does not exist; an empty result is not an error.
func (f *Finder) FindMatches(ctx context.Context, itemID string) ([]model.Match, error) {
	source, err := f.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	queriesTotal.Inc()

	all, err := f.Items.ListByType(ctx, source.Type.Opposite())
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}

	candidates := make([]model.Item, 0, len(all))
	for _, c := range all {
		if c.Status == model.StatusSearching && c.ID != source.ID {
			candidates = append(candidates, c)
		}
	}

	scores, err := f.scoreAll(ctx, *source, candidates)
	if err != nil {
		return nil, err
	}
	candidatesScored.Add(float64(len(candidates)))

	matches := []model.Match{}
	for i, c := range candidates {
		if scores[i] > f.Threshold {
			matches = append(matches, model.Match{Item: c, Score: scores[i]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	resultsReturned.Observe(float64(len(matches)))
	return matches, nil
}

// scoreAll scores candidates in parallel chunks. scores[i] belongs to candidates[i].
func (f *Finder) scoreAll(ctx context.Context, source model.Item, candidates []model.Item) ([]float64, error) {
	scores := make([]float64, len(candidates))

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(candidates) + workers - 1) / workers
	if chunk < 64 {
		chunk = 64
	}

	g, gCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(candidates); start += chunk {
		end := min(start+chunk, len(candidates))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gCtx.Err(); err != nil {
					return err
				}
				scores[i] = Score(source, candidates[i], f.Weights)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}
	return scores, nil
}
