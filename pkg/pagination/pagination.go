package pagination

import (
	"math"

	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// DefaultPageSize applies before the first page arrives or when a page declares no size.
const DefaultPageSize = 20

// Direction is a single navigation step
type Direction string

const (
	Next     Direction = "next"
	Previous Direction = "previous"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Next || d == Previous
}

// PageChangeFunc receives the cursor to fetch and the direction it leads.
type PageChangeFunc func(dir Direction, cursor string)

// State is the navigation view of one result page
type State struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	CanGoNext     bool `json:"canGoNext"`
	CanGoPrevious bool `json:"canGoPrevious"`
	PageSize      int  `json:"pageSize"`

	next     string
	previous string
	onChange PageChangeFunc
}

// Derive computes the navigation state of page. A nil page yields page 1 of 0
// with both directions closed.
func Derive(page *torre.ResultPage, onChange PageChangeFunc) State {
	s := State{
		CurrentPage: 1,
		PageSize:    DefaultPageSize,
		onChange:    onChange,
	}
	if page == nil {
		return s
	}

	if page.Size > 0 {
		s.PageSize = page.Size
	}
	if page.Offset > 0 {
		s.CurrentPage = page.Offset/s.PageSize + 1
	}
	s.TotalPages = int(math.Ceil(float64(page.Total) / float64(s.PageSize)))

	s.next, s.CanGoNext = page.NextCursor()
	s.previous, s.CanGoPrevious = page.PreviousCursor()

	return s
}

// NextPage hands the next cursor to the callback. It is a no-op on the last page.
func (s State) NextPage() {
	if !s.CanGoNext || s.onChange == nil {
		return
	}
	s.onChange(Next, s.next)
}

// PreviousPage hands the previous cursor to the callback. It is a no-op on the first page.
func (s State) PreviousPage() {
	if !s.CanGoPrevious || s.onChange == nil {
		return
	}
	s.onChange(Previous, s.previous)
}

// Cursor returns the cursor for dir, if navigation that way is possible.
func (s State) Cursor(dir Direction) (string, bool) {
	switch dir {
	case Next:
		return s.next, s.CanGoNext
	case Previous:
		return s.previous, s.CanGoPrevious
	default:
		return "", false
	}
}
