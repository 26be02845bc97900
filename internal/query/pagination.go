package query

import (
	"math"
	"strconv"
)

// Window is a 1-based page of Limit documents.
type Window struct {
	Page  int
	Limit int
}

// Skip is the number of matching documents before the window.
func (w Window) Skip() int {
	return (w.Page - 1) * w.Limit
}

// Summary describes the pagination of a list result.
type Summary struct {
	TotalDocuments int64 `json:"totalDocuments"`
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	ResultsPerPage int   `json:"resultsPerPage"`
}

// NewSummary derives the page count for total matches under w.
func NewSummary(total int64, w Window) Summary {
	pages := 0
	if total > 0 && w.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(w.Limit)))
	}
	return Summary{
		TotalDocuments: total,
		CurrentPage:    w.Page,
		TotalPages:     pages,
		ResultsPerPage: w.Limit,
	}
}

// resolveWindow reads page and limit from p. Missing, non-numeric, zero and
// negative values fall back to the defaults; limit is capped at MaxLimit and
// pages whose offset would overflow fall back to page 1.
func resolveWindow(p Params, o Options) Window {
	w := Window{Page: 1, Limit: o.DefaultLimit}
	if w.Limit < 1 {
		w.Limit = DefaultLimit
	}

	if n, ok := positiveInt(p.Get(KeyLimit)); ok {
		w.Limit = n
	}
	if o.MaxLimit > 0 && w.Limit > o.MaxLimit {
		w.Limit = o.MaxLimit
	}

	if n, ok := positiveInt(p.Get(KeyPage)); ok && n-1 <= math.MaxInt32/w.Limit {
		w.Page = n
	}
	return w
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
