package session

import "testing"

func TestNavigateList(t *testing.T) {
	cases := []struct {
		name     string
		dir      Direction
		current  int
		count    int
		pageSize int
		want     int
		boundary Boundary
	}{
		{"down within list", DirDown, 2, 10, 10, 3, BoundaryNone},
		{"down at bottom stays", DirDown, 9, 10, 10, 9, BoundaryBottom},
		{"up at top stays", DirUp, 0, 10, 10, 0, BoundaryTop},
		{"up within list", DirUp, 5, 10, 10, 4, BoundaryNone},
		{"top from middle", DirTop, 5, 10, 10, 0, BoundaryNone},
		{"bottom from middle", DirBottom, 5, 10, 10, 9, BoundaryNone},
		{"half page down", DirHalfPageDown, 0, 20, 10, 5, BoundaryNone},
		{"half page down clamps", DirHalfPageDown, 8, 10, 10, 9, BoundaryBottom},
		{"half page up clamps", DirHalfPageUp, 2, 10, 10, 0, BoundaryTop},
		{"single item list", DirDown, 0, 1, 10, 0, BoundaryBottom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, boundary := NavigateList(tc.dir, tc.current, tc.count, tc.pageSize)
			if got != tc.want || boundary != tc.boundary {
				t.Fatalf("NavigateList(%v, %d, %d, %d) = %d, %v; want %d, %v",
					tc.dir, tc.current, tc.count, tc.pageSize, got, boundary, tc.want, tc.boundary)
			}
		})
	}
}

func TestNavigateListEmptyList(t *testing.T) {
	got, boundary := NavigateList(DirDown, 0, 0, 10)
	if got != 0 || boundary != BoundaryNone {
		t.Fatalf("expected inert movement on empty list, got %d %v", got, boundary)
	}
}
