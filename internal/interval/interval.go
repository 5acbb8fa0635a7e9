package interval

import (
	"sort"
	"time"
)

// Range represents a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the range has positive extent.
func (r Range) IsValid() bool {
	return r.Start.Before(r.End)
}

// Duration returns the extent of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether the instant t falls inside the half-open range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overlaps reports whether two half-open ranges share any instant.
// Adjacent ranges (one's end equals the other's start) do not overlap;
// this is the booking policy, not an implementation detail.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Clip intersects r with window, reporting false when nothing remains.
func Clip(r, window Range) (Range, bool) {
	out := r
	if out.Start.Before(window.Start) {
		out.Start = window.Start
	}
	if out.End.After(window.End) {
		out.End = window.End
	}
	if !out.IsValid() {
		return Range{}, false
	}
	return out, true
}

// Merge coalesces ranges into a minimal set of non-overlapping ranges.
// Touching ranges (next start equals current end) are joined so that the
// complement computed by Gaps has no zero-width holes. Input order does
// not matter; invalid ranges are dropped.
func Merge(ranges []Range) []Range {
	valid := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Range{valid[0]}
	for _, r := range valid[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Gaps returns the sub-ranges of window not covered by occupied.
// The occupied ranges are clipped to the window and merged first.
func Gaps(window Range, occupied []Range) []Range {
	if !window.IsValid() {
		return nil
	}

	clipped := make([]Range, 0, len(occupied))
	for _, r := range occupied {
		if c, ok := Clip(r, window); ok {
			clipped = append(clipped, c)
		}
	}

	var gaps []Range
	cursor := window.Start
	for _, r := range Merge(clipped) {
		if cursor.Before(r.Start) {
			gaps = append(gaps, Range{Start: cursor, End: r.Start})
		}
		if r.End.After(cursor) {
			cursor = r.End
		}
	}
	if cursor.Before(window.End) {
		gaps = append(gaps, Range{Start: cursor, End: window.End})
	}
	return gaps
}

// Chop splits r into consecutive chunks of the given width.
// A trailing partial chunk shorter than width is discarded.
func Chop(r Range, width time.Duration) []Range {
	if width <= 0 || !r.IsValid() {
		return nil
	}

	var chunks []Range
	for cur := r.Start; ; cur = cur.Add(width) {
		next := cur.Add(width)
		if next.After(r.End) {
			break
		}
		chunks = append(chunks, Range{Start: cur, End: next})
	}
	return chunks
}
