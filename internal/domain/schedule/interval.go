package schedule

import (
	"sort"
	"time"
)

// Duração fixa de uma session em todo o engine.
const SessionDuration = 60 * time.Minute

// Interval é um intervalo meio-aberto [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) IsEmpty() bool {
	return !iv.End.After(iv.Start)
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Merge ordena e funde intervalos que se tocam ou se sobrepõem.
// A entrada nunca é mutada.
func Merge(intervals []Interval) []Interval {
	var sorted []Interval
	for _, iv := range intervals {
		if iv.IsEmpty() {
			continue
		}
		sorted = append(sorted, iv)
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		// meio-aberto: [9,10) e [10,11) se tocam e fundem
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}

	return out
}

// Subtract remove de cada intervalo base qualquer porção coberta por
// removed, produzindo zero, um ou dois sub-intervalos por base.
func Subtract(base, removed []Interval) []Interval {
	var out []Interval

	for _, b := range base {
		if b.IsEmpty() {
			continue
		}

		segments := []Interval{b}
		for _, r := range removed {
			if r.IsEmpty() {
				continue
			}

			var next []Interval
			for _, s := range segments {
				if !s.Overlaps(r) {
					next = append(next, s)
					continue
				}
				if r.Start.After(s.Start) {
					next = append(next, Interval{Start: s.Start, End: r.Start})
				}
				if r.End.Before(s.End) {
					next = append(next, Interval{Start: r.End, End: s.End})
				}
			}
			segments = next
		}

		out = append(out, segments...)
	}

	return out
}
