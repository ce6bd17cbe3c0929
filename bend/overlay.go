package bend

import (
	"math"
	"slices"
)

// segmentOverlayPatterns lists, by priority, the anchors that have to line up
// with a dragged segment for it to be merged into its surroundings. Offsets
// are connection indices relative to the start of the segment: -2 and -1 are
// the segment before it, 2 and 3 the segment after it.
var segmentOverlayPatterns = [][]int{
	{-2, -1, 2, 3},
	{-2, -1},
	{2, 3},
	{-1, 2},
	{-1},
	{2},
}

// removeOverlay merges the selection into overlapping neighbours. A selected
// segment of an orthogonal connector is merged with neighbouring segments;
// anything else is merged point by point.
func (e *Editor) removeOverlay() error {
	if e.constrained {
		handled, err := e.removeSegmentOverlay()
		if err != nil || handled {
			return err
		}
	}
	return e.removePointOverlay()
}

// removePointOverlay deletes selected points that were dragged onto an
// unselected neighbour. When an endpoint is deleted its neighbour becomes the
// new endpoint.
func (e *Editor) removePointOverlay() error {
	selected := slices.Clone(e.selected)
	slices.Sort(selected)
	selected = slices.Compact(selected)
	for i := len(selected) - 1; i >= 0; i-- {
		if len(e.pending) <= 2 {
			break
		}
		idx := selected[i]
		if idx >= len(e.pending) {
			continue
		}
		overlaid, err := e.overlaysNeighbor(idx)
		if err != nil {
			return err
		}
		if !overlaid {
			continue
		}
		last := len(e.pending) - 1
		e.pending = slices.Delete(e.pending, idx, idx+1)
		switch idx {
		case 0:
			e.pendingHints.Start = hintFor(e.pending[0])
		case last:
			e.pendingHints.End = hintFor(e.pending[len(e.pending)-1])
		}
		e.apply()
	}
	return nil
}

// overlaysNeighbor reports whether the point idx lies within the overlay
// threshold of an unselected neighbour.
func (e *Editor) overlaysNeighbor(idx int) (bool, error) {
	anchors := e.conn.Anchors()
	p, err := e.position(anchors, idx)
	if err != nil {
		return false, err
	}
	p = e.conn.LocalToScene(p)
	for _, nb := range []int{idx - 1, idx + 1} {
		if nb < 0 || nb >= len(e.pending) || slices.Contains(e.selected, nb) {
			continue
		}
		q, err := e.position(anchors, nb)
		if err != nil {
			return false, err
		}
		if IsOverlaid(p, e.conn.LocalToScene(q), e.overlayThreshold) {
			return true, nil
		}
	}
	return false, nil
}

// removeSegmentOverlay merges a dragged orthogonal segment with the
// neighbouring segments it now lines up with. Only the first matching
// pattern is applied. It reports false when the two selected anchors do not
// form a segment.
func (e *Editor) removeSegmentOverlay() (bool, error) {
	a, b := e.selected[0], e.selected[1]
	if a > b {
		a, b = b, a
	}
	anchors := e.conn.Anchors()
	ca, err := ConnectionIndex(anchors, a)
	if err != nil {
		return false, err
	}
	cb, err := ConnectionIndex(anchors, b)
	if err != nil {
		return false, err
	}
	if cb != ca+1 {
		return false, nil
	}

	coord := func(i int) float64 {
		if e.horizontal {
			return anchors[i].Position.Y
		}
		return anchors[i].Position.X
	}
	line := coord(ca)

	for _, pattern := range segmentOverlayPatterns {
		ref, ok := matchSegmentPattern(pattern, ca, len(anchors), coord, line, e.segmentOverlayThreshold)
		if !ok {
			continue
		}
		lo := ca + min(pattern[0], 0)
		hi := max(ca+1, ca+pattern[len(pattern)-1])
		indices, err := e.makeExplicit(lo, hi)
		if err != nil {
			return false, err
		}
		for j := len(indices) - 2; j >= 1; j-- {
			e.pending = slices.Delete(e.pending, indices[j], indices[j]+1)
		}
		first := indices[0]
		if pattern[0] > 0 {
			e.snap(first, ref)
		}
		if pattern[len(pattern)-1] < 1 {
			e.snap(first+1, ref)
		}
		e.apply()
		return true, nil
	}
	return true, nil
}

// matchSegmentPattern reports whether the anchors referenced by pattern
// exist, lie on one line parallel to the dragged segment and are within
// threshold of it. It returns the coordinate of that line.
func matchSegmentPattern(pattern []int, start, n int, coord func(int) float64, line, threshold float64) (float64, bool) {
	var ref float64
	for k, off := range pattern {
		i := start + off
		if i < 0 || i >= n {
			return 0, false
		}
		c := coord(i)
		if k == 0 {
			ref = c
		} else if math.Abs(c-ref) >= orientationTolerance {
			return 0, false
		}
		if math.Abs(c-line) > threshold {
			return 0, false
		}
	}
	return ref, true
}

// snap moves the bend point with the given explicit index onto the line at
// coordinate c.
func (e *Editor) snap(explicitIndex int, c float64) {
	bp := e.pending[explicitIndex]
	if e.horizontal {
		bp.Position.Y = c
	} else {
		bp.Position.X = c
	}
	e.pending[explicitIndex] = bp
}
