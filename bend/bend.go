// Package bend edits the bend points of a connector.
//
// A connector is drawn through an ordered sequence of anchors. Some anchors are
// explicit: they come from the content model as bend points and are under the
// user's control. The others are implicit: the router inserted them to satisfy
// its constraints (for example the elbows of an orthogonal route). An Editor
// keeps the explicit list consistent with the live anchor sequence while the
// user drags, inserts and merges points, and produces an undoable Operation
// when the gesture is committed.
package bend

import (
	"seehuhn.de/go/geom/vec"
)

const (
	// DefaultOverlayThreshold is the scene distance at which two points are
	// merged while dragging.
	DefaultOverlayThreshold = 10.0

	// DefaultSegmentOverlayThreshold is used instead of
	// DefaultOverlayThreshold when a segment of an orthogonal connector is
	// dragged.
	DefaultSegmentOverlayThreshold = 6.0

	// orientationTolerance is the largest coordinate difference for which two
	// points still count as lying on the same horizontal or vertical line.
	orientationTolerance = 1.0

	positionEpsilon = 1e-9
)

// BendPoint is the content-level form of an explicit anchor. A bend point
// with a nil Anchorage is static; otherwise it is attached to the model
// element stored in Anchorage, which must be comparable.
type BendPoint struct {
	Position  vec.Vec2
	Anchorage any
}

// Static returns an unattached bend point at p.
func Static(p vec.Vec2) BendPoint {
	return BendPoint{Position: p}
}

// Attached returns a bend point at p that is attached to anchorage.
func Attached(p vec.Vec2, anchorage any) BendPoint {
	return BendPoint{Position: p, Anchorage: anchorage}
}

// IsAttached reports whether b has an anchorage.
func (b BendPoint) IsAttached() bool {
	return b.Anchorage != nil
}

// Equal reports whether b and o have the same anchorage and the same
// position.
func (b BendPoint) Equal(o BendPoint) bool {
	return b.Anchorage == o.Anchorage && samePosition(b.Position, o.Position)
}

// AnchorKind tells explicit anchors apart from the ones a router inserted.
type AnchorKind uint8

const (
	Explicit AnchorKind = iota
	Implicit
)

func (k AnchorKind) String() string {
	switch k {
	case Explicit:
		return "explicit"
	case Implicit:
		return "implicit"
	default:
		return "unknown"
	}
}

// Anchor is one point of a connector's full, router-expanded point sequence.
// Position is given in the connector's local frame.
type Anchor struct {
	Kind      AnchorKind
	Position  vec.Vec2
	Anchorage any
}

// IsImplicit reports whether the router inserted a.
func (a Anchor) IsImplicit() bool {
	return a.Kind == Implicit
}

// Hints holds the positioning hints of a connector's start and end anchor.
// A nil hint means the anchor chooses its own position on the attached shape.
type Hints struct {
	Start, End *vec.Vec2
}

func (h Hints) clone() Hints {
	return Hints{Start: cloneVec(h.Start), End: cloneVec(h.End)}
}

// Equal reports whether both hints are unset or at the same position.
func (h Hints) Equal(o Hints) bool {
	return sameHint(h.Start, o.Start) && sameHint(h.End, o.End)
}

// Orientation of an axis-aligned segment.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Router expands the positions of a connector's explicit anchors into its
// full anchor sequence. The first and the last returned anchor must be
// explicit, and explicit anchors must appear in input order.
type Router interface {
	Route(explicit []vec.Vec2) []Anchor
}

// OrthogonalConstraint is implemented by routers that only produce
// horizontal and vertical segments. Dragging a segment of such a connector
// is restricted to the axis perpendicular to the segment.
type OrthogonalConstraint interface {
	Orientation(p, q vec.Vec2) Orientation
}

// Connection is the visual side of the connector being edited.
type Connection interface {
	// Anchors returns the current full anchor sequence in the local frame.
	Anchors() []Anchor

	// BendPoints returns the explicit points the anchors were computed from.
	BendPoints() []BendPoint

	// SetBendPoints replaces the explicit points and re-routes the
	// connector. The editor calls it for every staged change.
	SetBendPoints(points []BendPoint)

	Hints() Hints
	SetHints(h Hints)

	LocalToScene(p vec.Vec2) vec.Vec2
	SceneToLocal(p vec.Vec2) vec.Vec2

	Router() Router

	// Model returns the model element of the connector itself.
	Model() any
}

// Element is a visual element found by hit-testing.
type Element interface {
	Model() any
}

// AnchorProvider is implemented by elements that bend points can attach to.
type AnchorProvider interface {
	Element
	CanProvideAnchor() bool
}

// HitTester finds the visual elements under a scene position, nearest drawn
// element first.
type HitTester interface {
	ElementsAt(p vec.Vec2) []Element
}

// ContentPart gives access to the bend points stored in the content model.
type ContentPart interface {
	ContentBendPoints() []BendPoint
	SetContentBendPoints(points []BendPoint)
}

func cloneBendPoints(points []BendPoint) []BendPoint {
	if points == nil {
		return nil
	}
	res := make([]BendPoint, len(points))
	copy(res, points)
	return res
}

func sameBendPoints(a, b []BendPoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneVec(p *vec.Vec2) *vec.Vec2 {
	if p == nil {
		return nil
	}
	q := *p
	return &q
}

func sameHint(a, b *vec.Vec2) bool {
	if a == nil || b == nil {
		return a == b
	}
	return samePosition(*a, *b)
}

func samePosition(p, q vec.Vec2) bool {
	return p.Sub(q).Length() <= positionEpsilon
}
