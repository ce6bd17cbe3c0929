package bend

import (
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"
)

func (e *Editor) normalize() error {
	if _, ok := e.orthogonal(); !ok {
		return nil
	}
	// every pass removes one anchor from the route; the bound only trips
	// when the router keeps re-inserting what was removed
	maxPasses := 2*len(e.conn.Anchors()) + 2
	for range maxPasses {
		removed, err := e.removeRedundant()
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
	}
	return fmt.Errorf("%w: normalization did not converge after %d passes", ErrInvariant, maxPasses)
}

// removeRedundant deletes the first interior explicit anchor whose incoming
// and outgoing segments are degenerate or parallel.
func (e *Editor) removeRedundant() (bool, error) {
	anchors := e.conn.Anchors()
	last := len(e.pending) - 1
	for ei := 1; ei < last; ei++ {
		ci, err := ConnectionIndex(anchors, ei)
		if err != nil {
			return false, err
		}
		if ci == 0 || ci == len(anchors)-1 {
			return false, fmt.Errorf("%w: interior bend point %d routed to an end", ErrInvariant, ei)
		}
		prev, next := anchors[ci-1], anchors[ci+1]
		if !isRedundant(prev.Position, anchors[ci].Position, next.Position) {
			continue
		}
		if prev.IsImplicit() || next.IsImplicit() {
			indices, err := e.makeExplicit(ci-1, ci+1)
			if err != nil {
				return false, err
			}
			ei = indices[1]
		}
		e.pending = slices.Delete(e.pending, ei, ei+1)
		e.apply()
		return true, nil
	}
	return false, nil
}

// isRedundant reports whether cur can be dropped from prev-cur-next without
// changing the drawn route.
func isRedundant(prev, cur, next vec.Vec2) bool {
	in := cur.Sub(prev)
	out := next.Sub(cur)
	if in.Length() <= positionEpsilon || out.Length() <= positionEpsilon {
		return true
	}
	if math.Abs(in.Y) < orientationTolerance && math.Abs(out.Y) < orientationTolerance {
		return true
	}
	if math.Abs(in.X) < orientationTolerance && math.Abs(out.X) < orientationTolerance {
		return true
	}
	cross := in.X*out.Y - in.Y*out.X
	return math.Abs(cross) <= positionEpsilon*in.Length()*out.Length()
}
