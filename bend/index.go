package bend

import (
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// ConnectionIndex returns the position of the explicit anchor with the given
// explicit index within the full anchor sequence.
func ConnectionIndex(anchors []Anchor, explicitIndex int) (int, error) {
	if explicitIndex < 0 {
		return -1, fmt.Errorf("%w: explicit index %d", ErrIndexOutOfRange, explicitIndex)
	}
	n := -1
	for i, a := range anchors {
		if a.IsImplicit() {
			continue
		}
		n++
		if n == explicitIndex {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: explicit index %d, connector has %d explicit anchors",
		ErrIndexOutOfRange, explicitIndex, n+1)
}

// ExplicitIndexAtOrBefore returns the explicit index of the anchor at
// connectionIndex, or of the closest explicit anchor before it when that
// anchor is implicit.
func ExplicitIndexAtOrBefore(anchors []Anchor, connectionIndex int) (int, error) {
	if connectionIndex < 0 || connectionIndex >= len(anchors) {
		return -1, fmt.Errorf("%w: connection index %d, connector has %d anchors",
			ErrIndexOutOfRange, connectionIndex, len(anchors))
	}
	n := -1
	for i := 0; i <= connectionIndex; i++ {
		if !anchors[i].IsImplicit() {
			n++
		}
	}
	if n < 0 {
		return -1, fmt.Errorf("%w: no explicit anchor at or before %d, anchor 0 is implicit",
			ErrInvariant, connectionIndex)
	}
	return n, nil
}

// ExplicitIndexAtOrAfter returns the explicit index of the anchor at
// connectionIndex, or of the closest explicit anchor after it when that
// anchor is implicit.
func ExplicitIndexAtOrAfter(anchors []Anchor, connectionIndex int) (int, error) {
	n, err := ExplicitIndexAtOrBefore(anchors, connectionIndex)
	if err != nil {
		return -1, err
	}
	if !anchors[connectionIndex].IsImplicit() {
		return n, nil
	}
	if n+1 >= explicitCount(anchors) {
		return -1, fmt.Errorf("%w: no explicit anchor after %d, last anchor is implicit",
			ErrInvariant, connectionIndex)
	}
	return n + 1, nil
}

func explicitCount(anchors []Anchor) int {
	n := 0
	for _, a := range anchors {
		if !a.IsImplicit() {
			n++
		}
	}
	return n
}

// checkEndpoints verifies that the first and the last anchor are explicit.
func checkEndpoints(anchors []Anchor) error {
	if len(anchors) == 0 {
		return nil
	}
	if anchors[0].IsImplicit() {
		return fmt.Errorf("%w: first anchor is implicit", ErrInvariant)
	}
	if anchors[len(anchors)-1].IsImplicit() {
		return fmt.Errorf("%w: last anchor is implicit", ErrInvariant)
	}
	return nil
}

// IsOverlaid reports whether p and q are close enough to be merged.
func IsOverlaid(p, q vec.Vec2, threshold float64) bool {
	return p.Sub(q).Length() <= threshold
}
