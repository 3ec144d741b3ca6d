package svgexport

import (
	"slices"

	"cogentcore.org/core/base/keylist"
)

// FillRegion is a filled polygon: a base stroke and the hole strokes merged
// into it, painted with the base's color under the even-odd rule.
type FillRegion struct {
	Base  *Stroke
	Holes []*Stroke
	Color Color
}

// FillMerger merges the strokes of one fill pass into fill regions.
type FillMerger struct {
	// Height of the render in pixels, used to flip the vertical axis.
	Height float64
	// MatchColor only merges a hole into a base of exactly the same
	// diffuse color.
	MatchColor bool
}

// NewFillMerger returns a merger that requires matching colors.
func NewFillMerger(height float64) *FillMerger {
	return &FillMerger{Height: height, MatchColor: true}
}

// Merge classifies the strokes by winding and assigns every clockwise
// stroke to the first counter-clockwise stroke whose bounding box contains
// it (and whose color matches, when MatchColor is set). Unmatched
// clockwise strokes become bases of their own. Input order is kept; the
// strokes are expected back to front.
func (fm *FillMerger) Merge(strokes []*Stroke) []FillRegion {
	var (
		usable    []*Stroke
		clockwise []bool
	)
	for _, s := range strokes {
		if len(s.Vertices) < 2 {
			continue
		}
		usable = append(usable, s)
		clockwise = append(clockwise, IsClockwise(s))
	}

	// keyed by position in usable
	merged := keylist.New[int, []*Stroke]()
	var bases []int
	for i := range usable {
		if !clockwise[i] {
			merged.Set(i, nil)
			bases = append(bases, i)
		}
	}
	for i, s := range usable {
		if !clockwise[i] {
			continue
		}
		box := BoundingBox(s)
		matched := false
		for _, b := range bases {
			base := usable[b]
			if fm.MatchColor && base.Color != s.Color {
				continue
			}
			if BoundingBox(base).Contains(box) {
				merged.Set(b, append(merged.At(b), s))
				matched = true
				break
			}
		}
		if !matched {
			merged.Set(i, nil)
		}
	}

	regions := make([]FillRegion, merged.Len())
	for i, k := range merged.Keys {
		base := usable[k]
		regions[i] = FillRegion{Base: base, Holes: merged.Values[i], Color: base.Color}
	}
	return regions
}

// Elements returns the fill path elements for the strokes in reverse
// region order, so the first region is painted last and ends up on top.
func (fm *FillMerger) Elements(strokes []*Stroke) []PathElement {
	flip := newFlipper(fm.Height)
	regions := fm.Merge(strokes)
	elems := make([]PathElement, 0, len(regions))
	for _, r := range regions {
		el := PathElement{Attrs: FillStyle{Color: r.Color}.Attrs()}
		el.Segments = append(el.Segments, closedSegment(r.Base, flip))
		for _, h := range r.Holes {
			el.Segments = append(el.Segments, closedSegment(h, flip))
		}
		elems = append(elems, el)
	}
	slices.Reverse(elems)
	return elems
}

func closedSegment(s *Stroke, flip *flipper) Segment {
	seg := Segment{Closed: true, Points: make([]Tuple, len(s.Vertices))}
	for i, v := range s.Vertices {
		seg.Points[i] = flip.Apply(v.Point)
	}
	return seg
}

// ClearVisibility hides every vertex of the strokes, so stroke passes that
// run after a fill pass skip geometry already drawn as a fill.
func ClearVisibility(strokes []*Stroke) {
	for _, s := range strokes {
		for _, v := range s.Vertices {
			v.Visible = false
		}
	}
}
