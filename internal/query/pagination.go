package query

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// PageWindow is the skip/limit pair handed to the store.
type PageWindow struct {
	StartIndex int64
	EndIndex   int64
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// PaginationDescriptor carries the neighbouring pages that exist.
type PaginationDescriptor struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Page is the result of Paginate.
type Page struct {
	Window     PageWindow
	Descriptor PaginationDescriptor
	Page       int64
	Limit      int64
}

// Paginate parses page and limit and derives the window and descriptor for a
// result set of size total. Missing, non-numeric, zero or negative input
// falls back to the defaults, as does a page whose window would not fit in
// an int64.
func Paginate(page, limit string, total int64) Page {
	p := parsePositive(page, DefaultPage)
	l := parsePositive(limit, DefaultLimit)
	if p >= math.MaxInt64/l {
		p = DefaultPage
	}

	window := PageWindow{
		StartIndex: (p - 1) * l,
		EndIndex:   p * l,
	}

	var desc PaginationDescriptor
	if window.EndIndex < total {
		desc.Next = &PageRef{Page: p + 1, Limit: l}
	}
	if window.StartIndex > 0 {
		desc.Prev = &PageRef{Page: p - 1, Limit: l}
	}

	return Page{Window: window, Descriptor: desc, Page: p, Limit: l}
}

func parsePositive(s string, def int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}
