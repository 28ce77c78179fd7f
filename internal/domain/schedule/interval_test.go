package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2027, 3, 1, hour, min, 0, 0, time.UTC)
}

func iv(startH, startM, endH, endM int) Interval {
	return Interval{Start: at(startH, startM), End: at(endH, endM)}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
		{
			name: "disjoint stay separate",
			in:   []Interval{iv(6, 0, 8, 0), iv(10, 0, 12, 0)},
			want: []Interval{iv(6, 0, 8, 0), iv(10, 0, 12, 0)},
		},
		{
			name: "overlapping coalesce",
			in:   []Interval{iv(6, 0, 10, 0), iv(9, 0, 12, 0)},
			want: []Interval{iv(6, 0, 12, 0)},
		},
		{
			name: "touching half-open intervals coalesce",
			in:   []Interval{iv(9, 0, 10, 0), iv(10, 0, 11, 0)},
			want: []Interval{iv(9, 0, 11, 0)},
		},
		{
			name: "unsorted input is sorted first",
			in:   []Interval{iv(14, 0, 16, 0), iv(6, 0, 8, 0), iv(7, 0, 9, 0)},
			want: []Interval{iv(6, 0, 9, 0), iv(14, 0, 16, 0)},
		},
		{
			name: "contained interval is absorbed",
			in:   []Interval{iv(6, 0, 12, 0), iv(8, 0, 9, 0)},
			want: []Interval{iv(6, 0, 12, 0)},
		},
		{
			name: "empty intervals are dropped",
			in:   []Interval{iv(6, 0, 6, 0), iv(8, 0, 7, 0), iv(9, 0, 10, 0)},
			want: []Interval{iv(9, 0, 10, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	in := []Interval{iv(9, 0, 12, 0), iv(6, 0, 10, 0)}

	Merge(in)

	assert.Equal(t, iv(9, 0, 12, 0), in[0])
	assert.Equal(t, iv(6, 0, 10, 0), in[1])
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name    string
		base    []Interval
		removed []Interval
		want    []Interval
	}{
		{
			name:    "no overlap keeps base",
			base:    []Interval{iv(6, 0, 12, 0)},
			removed: []Interval{iv(13, 0, 14, 0)},
			want:    []Interval{iv(6, 0, 12, 0)},
		},
		{
			name:    "hole in the middle splits in two",
			base:    []Interval{iv(6, 0, 12, 0)},
			removed: []Interval{iv(8, 0, 9, 0)},
			want:    []Interval{iv(6, 0, 8, 0), iv(9, 0, 12, 0)},
		},
		{
			name:    "removal at the start trims",
			base:    []Interval{iv(6, 0, 12, 0)},
			removed: []Interval{iv(5, 0, 8, 0)},
			want:    []Interval{iv(8, 0, 12, 0)},
		},
		{
			name:    "removal at the end trims",
			base:    []Interval{iv(6, 0, 12, 0)},
			removed: []Interval{iv(10, 0, 13, 0)},
			want:    []Interval{iv(6, 0, 10, 0)},
		},
		{
			name:    "full cover removes the base",
			base:    []Interval{iv(8, 0, 9, 0)},
			removed: []Interval{iv(6, 0, 12, 0)},
			want:    nil,
		},
		{
			name:    "adjacent removals carve consecutive holes",
			base:    []Interval{iv(6, 0, 12, 0)},
			removed: []Interval{iv(8, 0, 9, 0), iv(9, 0, 10, 0)},
			want:    []Interval{iv(6, 0, 8, 0), iv(10, 0, 12, 0)},
		},
		{
			name:    "touching removal does not eat the boundary",
			base:    []Interval{iv(6, 0, 10, 0)},
			removed: []Interval{iv(10, 0, 11, 0)},
			want:    []Interval{iv(6, 0, 10, 0)},
		},
		{
			name:    "multiple bases handled independently",
			base:    []Interval{iv(6, 0, 8, 0), iv(10, 0, 12, 0)},
			removed: []Interval{iv(7, 0, 11, 0)},
			want:    []Interval{iv(6, 0, 7, 0), iv(11, 0, 12, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(tt.base, tt.removed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntervalContains(t *testing.T) {
	open := iv(6, 0, 12, 0)

	assert.True(t, open.Contains(iv(6, 0, 7, 0)))
	assert.True(t, open.Contains(iv(11, 0, 12, 0)))
	assert.True(t, open.Contains(iv(6, 0, 12, 0)))
	assert.False(t, open.Contains(iv(5, 30, 6, 30)))
	assert.False(t, open.Contains(iv(11, 30, 12, 30)))
}
