package interval

import (
	"testing"
	"time"
)

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parse start %q: %v", start, err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("parse end %q: %v", end, err)
	}
	return Range{Start: s, End: e}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a    Range
		b    Range
		want bool
	}{
		{
			name: "disjoint ranges do not overlap",
			a:    mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z"),
			b:    mustRange(t, "2025-06-02T11:00:00Z", "2025-06-02T12:00:00Z"),
			want: false,
		},
		{
			name: "adjacent ranges do not overlap",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T11:00:00Z", "2025-06-02T12:00:00Z"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:30:00Z", "2025-06-02T11:30:00Z"),
			want: true,
		},
		{
			name: "containment",
			a:    mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T12:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			want: true,
		},
		{
			name: "identical ranges overlap",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Run("coalesces overlapping and touching ranges", func(t *testing.T) {
		in := []Range{
			mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z"),
			mustRange(t, "2025-06-02T10:30:00Z", "2025-06-02T11:30:00Z"),
			mustRange(t, "2025-06-02T14:00:00Z", "2025-06-02T15:00:00Z"),
		}

		got := Merge(in)
		if len(got) != 2 {
			t.Fatalf("expected 2 merged ranges, got %d: %v", len(got), got)
		}

		want0 := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T11:30:00Z")
		if !got[0].Start.Equal(want0.Start) || !got[0].End.Equal(want0.End) {
			t.Fatalf("merged[0] = %v, want %v", got[0], want0)
		}

		want1 := mustRange(t, "2025-06-02T14:00:00Z", "2025-06-02T15:00:00Z")
		if !got[1].Start.Equal(want1.Start) || !got[1].End.Equal(want1.End) {
			t.Fatalf("merged[1] = %v, want %v", got[1], want1)
		}
	})

	t.Run("drops invalid ranges", func(t *testing.T) {
		in := []Range{
			mustRange(t, "2025-06-02T11:00:00Z", "2025-06-02T10:00:00Z"),
		}
		if got := Merge(in); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Merge(nil); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestGaps(t *testing.T) {
	window := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T18:00:00Z")

	t.Run("empty occupancy yields the whole window", func(t *testing.T) {
		got := Gaps(window, nil)
		if len(got) != 1 || !got[0].Start.Equal(window.Start) || !got[0].End.Equal(window.End) {
			t.Fatalf("expected [%v], got %v", window, got)
		}
	})

	t.Run("gaps between occupied ranges", func(t *testing.T) {
		occupied := []Range{
			mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			mustRange(t, "2025-06-02T13:00:00Z", "2025-06-02T14:00:00Z"),
		}

		got := Gaps(window, occupied)
		if len(got) != 3 {
			t.Fatalf("expected 3 gaps, got %d: %v", len(got), got)
		}
		checkRange(t, got[0], "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")
		checkRange(t, got[1], "2025-06-02T11:00:00Z", "2025-06-02T13:00:00Z")
		checkRange(t, got[2], "2025-06-02T14:00:00Z", "2025-06-02T18:00:00Z")
	})

	t.Run("occupancy spilling past the window is clipped", func(t *testing.T) {
		occupied := []Range{
			mustRange(t, "2025-06-02T08:00:00Z", "2025-06-02T10:00:00Z"),
			mustRange(t, "2025-06-02T17:00:00Z", "2025-06-02T19:00:00Z"),
		}

		got := Gaps(window, occupied)
		if len(got) != 1 {
			t.Fatalf("expected 1 gap, got %d: %v", len(got), got)
		}
		checkRange(t, got[0], "2025-06-02T10:00:00Z", "2025-06-02T17:00:00Z")
	})

	t.Run("fully occupied window has no gaps", func(t *testing.T) {
		occupied := []Range{window}
		if got := Gaps(window, occupied); len(got) != 0 {
			t.Fatalf("expected no gaps, got %v", got)
		}
	})
}

func TestChop(t *testing.T) {
	t.Run("exact fit", func(t *testing.T) {
		r := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T10:30:00Z")
		got := Chop(r, 30*time.Minute)
		if len(got) != 3 {
			t.Fatalf("expected 3 chunks, got %d: %v", len(got), got)
		}
	})

	t.Run("partial tail is discarded", func(t *testing.T) {
		r := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T10:20:00Z")
		got := Chop(r, 30*time.Minute)
		if len(got) != 2 {
			t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
		}
		checkRange(t, got[1], "2025-06-02T09:30:00Z", "2025-06-02T10:00:00Z")
	})

	t.Run("range shorter than width", func(t *testing.T) {
		r := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T09:20:00Z")
		if got := Chop(r, 30*time.Minute); len(got) != 0 {
			t.Fatalf("expected no chunks, got %v", got)
		}
	})

	t.Run("non-positive width", func(t *testing.T) {
		r := mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T10:00:00Z")
		if got := Chop(r, 0); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func checkRange(t *testing.T, got Range, start, end string) {
	t.Helper()
	want := mustRange(t, start, end)
	if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
		t.Fatalf("range = %v, want %v", got, want)
	}
}
