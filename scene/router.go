package scene

import (
	"math"

	"bendterm/bend"

	"seehuhn.de/go/geom/vec"
)

// alignEpsilon is the largest coordinate difference for which two points are
// treated as lying on one horizontal or vertical line.
const alignEpsilon = 1.0

// RouterKind names a router in files and configuration.
type RouterKind string

const (
	RouterStraight   RouterKind = "straight"
	RouterOrthogonal RouterKind = "orthogonal"
)

// NewRouter returns the router for kind, defaulting to orthogonal.
func NewRouter(kind RouterKind) bend.Router {
	if kind == RouterStraight {
		return StraightRouter{}
	}
	return OrthogonalRouter{}
}

// KindOf returns the kind of a router created by NewRouter.
func KindOf(r bend.Router) RouterKind {
	if _, ok := r.(StraightRouter); ok {
		return RouterStraight
	}
	return RouterOrthogonal
}

// StraightRouter connects the explicit points directly.
type StraightRouter struct{}

func (StraightRouter) Route(explicit []vec.Vec2) []bend.Anchor {
	anchors := make([]bend.Anchor, len(explicit))
	for i, p := range explicit {
		anchors[i] = bend.Anchor{Kind: bend.Explicit, Position: p}
	}
	return anchors
}

// OrthogonalRouter only draws horizontal and vertical segments. Between two
// explicit points that are not aligned it inserts one elbow, travelling the
// shorter distance first.
type OrthogonalRouter struct{}

func (OrthogonalRouter) Route(explicit []vec.Vec2) []bend.Anchor {
	if len(explicit) == 0 {
		return nil
	}
	anchors := make([]bend.Anchor, 0, 2*len(explicit)-1)
	anchors = append(anchors, bend.Anchor{Kind: bend.Explicit, Position: explicit[0]})
	for i := 1; i < len(explicit); i++ {
		p1, p2 := explicit[i-1], explicit[i]
		if elbow, ok := elbowBetween(p1, p2); ok {
			anchors = append(anchors, bend.Anchor{Kind: bend.Implicit, Position: elbow})
		}
		anchors = append(anchors, bend.Anchor{Kind: bend.Explicit, Position: p2})
	}
	return anchors
}

func (OrthogonalRouter) Orientation(p, q vec.Vec2) bend.Orientation {
	if math.Abs(p.Y-q.Y) < alignEpsilon {
		return bend.Horizontal
	}
	return bend.Vertical
}

func elbowBetween(p1, p2 vec.Vec2) (vec.Vec2, bool) {
	dx := math.Abs(p2.X - p1.X)
	dy := math.Abs(p2.Y - p1.Y)
	if dx < alignEpsilon || dy < alignEpsilon {
		return vec.Vec2{}, false
	}
	if dx < dy {
		return vec.Vec2{X: p2.X, Y: p1.Y}, true
	}
	return vec.Vec2{X: p1.X, Y: p2.Y}, true
}
