// Package filter narrows and orders item lists that were already fetched from a store.
package filter

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Sentinels that disable the category and location filters.
const (
	AllCategories = "all-categories"
	AllLocations  = "all-locations"
)

// Sort orders.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// Options selects items. Empty fields match everything.
type Options struct {
	Search   string
	Category string
	Location string
	Sort     string
}

// ParseQuery reads options from URL query parameters
// search, category, location and sort.
func ParseQuery(q url.Values) Options {
	return Options{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Sort:     q.Get("sort"),
	}
}

// Apply returns the items matching every filter in opts, sorted last.
// The input slice is not modified.
func Apply(items []model.Item, opts Options) []model.Item {
	search := fold(opts.Search)
	location := fold(opts.Location)

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(fold(item.Name), search) &&
			!strings.Contains(fold(item.Description), search) {
			continue
		}
		if opts.Category != "" && opts.Category != AllCategories && string(item.Category) != opts.Category {
			continue
		}
		if location != "" && opts.Location != AllLocations && fold(item.Location) != location {
			continue
		}
		out = append(out, item)
	}

	switch opts.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
