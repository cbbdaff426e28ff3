package pagination

import (
	"testing"

	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

type recorder struct {
	calls []string
	dirs  []Direction
}

func (r *recorder) onChange(dir Direction, cursor string) {
	r.dirs = append(r.dirs, dir)
	r.calls = append(r.calls, cursor)
}

func firstPage() *torre.ResultPage {
	return &torre.ResultPage{
		Total:  100,
		Offset: 0,
		Size:   20,
		Pagination: &torre.Pagination{
			Previous: torre.NullCursor(),
			Next:     torre.CursorOf("next-page-token"),
		},
	}
}

func TestDeriveFirstPage(t *testing.T) {
	s := Derive(firstPage(), nil)

	if s.CurrentPage != 1 {
		t.Errorf("current page: got %d", s.CurrentPage)
	}
	if s.TotalPages != 5 {
		t.Errorf("total pages: got %d", s.TotalPages)
	}
	if !s.CanGoNext || s.CanGoPrevious {
		t.Errorf("flags: next=%v previous=%v", s.CanGoNext, s.CanGoPrevious)
	}
	if s.PageSize != 20 {
		t.Errorf("page size: got %d", s.PageSize)
	}
}

func TestNextPageInvokesCallback(t *testing.T) {
	rec := &recorder{}
	Derive(firstPage(), rec.onChange).NextPage()

	if len(rec.calls) != 1 || rec.calls[0] != "next-page-token" || rec.dirs[0] != Next {
		t.Errorf("unexpected calls: %v %v", rec.dirs, rec.calls)
	}
}

func TestPreviousPageInvokesCallback(t *testing.T) {
	page := firstPage()
	page.Offset = 20
	page.Pagination = &torre.Pagination{
		Previous: torre.CursorOf("prev-page-token"),
		Next:     torre.CursorOf("next-page-token"),
	}

	rec := &recorder{}
	s := Derive(page, rec.onChange)
	if s.CurrentPage != 2 {
		t.Errorf("current page: got %d", s.CurrentPage)
	}
	if !s.CanGoPrevious {
		t.Fatalf("expected previous to be available")
	}

	s.PreviousPage()
	if len(rec.calls) != 1 || rec.calls[0] != "prev-page-token" || rec.dirs[0] != Previous {
		t.Errorf("unexpected calls: %v %v", rec.dirs, rec.calls)
	}
}

func TestNavigationNoOps(t *testing.T) {
	tests := []struct {
		name string
		page *torre.ResultPage
		step func(State)
	}{
		{
			name: "next on last page",
			page: &torre.ResultPage{Total: 100, Size: 20, Offset: 80, Pagination: &torre.Pagination{
				Previous: torre.CursorOf("prev-page-token"),
				Next:     torre.NullCursor(),
			}},
			step: State.NextPage,
		},
		{
			name: "previous on first page",
			page: firstPage(),
			step: State.PreviousPage,
		},
		{
			name: "next without pagination",
			page: &torre.ResultPage{Total: 3, Size: 20},
			step: State.NextPage,
		},
		{
			name: "next with empty token",
			page: &torre.ResultPage{Total: 30, Size: 20, Pagination: &torre.Pagination{Next: torre.CursorOf("")}},
			step: State.NextPage,
		},
		{
			name: "nil page",
			page: nil,
			step: State.NextPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			tt.step(Derive(tt.page, rec.onChange))
			if len(rec.calls) != 0 {
				t.Errorf("callback should not run, got %v", rec.calls)
			}
		})
	}
}

func TestDeriveNilPage(t *testing.T) {
	rec := &recorder{}
	s := Derive(nil, rec.onChange)

	if s.CurrentPage != 1 || s.TotalPages != 0 || s.CanGoNext || s.CanGoPrevious {
		t.Errorf("unexpected state: %+v", s)
	}
	if s.PageSize != DefaultPageSize {
		t.Errorf("page size: got %d", s.PageSize)
	}
	s.PreviousPage()
	s.NextPage()
	if len(rec.calls) != 0 {
		t.Errorf("callback should not run, got %v", rec.calls)
	}
}

func TestDerivePageMath(t *testing.T) {
	tests := []struct {
		name                   string
		total, offset, size    int
		wantCurrent, wantTotal int
	}{
		{"partial last page", 101, 100, 20, 6, 6},
		{"size defaults", 45, 20, 0, 2, 3},
		{"empty result", 0, 0, 10, 1, 0},
		{"mid page offset", 50, 15, 10, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Derive(&torre.ResultPage{Total: tt.total, Offset: tt.offset, Size: tt.size}, nil)
			if s.CurrentPage != tt.wantCurrent || s.TotalPages != tt.wantTotal {
				t.Errorf("got page %d of %d, want %d of %d", s.CurrentPage, s.TotalPages, tt.wantCurrent, tt.wantTotal)
			}
		})
	}
}

func TestCursorLookup(t *testing.T) {
	s := Derive(firstPage(), nil)

	if c, ok := s.Cursor(Next); !ok || c != "next-page-token" {
		t.Errorf("next: got %q %v", c, ok)
	}
	if _, ok := s.Cursor(Previous); ok {
		t.Errorf("previous should be unavailable")
	}
	if _, ok := s.Cursor(Direction("sideways")); ok {
		t.Errorf("unknown direction should be unavailable")
	}
}
