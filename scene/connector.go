package scene

import (
	"math"
	"slices"

	"bendterm/bend"

	"seehuhn.de/go/geom/vec"
)

// pickTolerance is the world distance within which a point counts as being
// on a connector.
const pickTolerance = 1.0

// Connector is a routed connection. Its bend points are given in world
// coordinates, which is the connector's local frame.
type Connector struct {
	ID ConnectorID

	scene   *Scene
	router  bend.Router
	points  []bend.BendPoint
	hints   bend.Hints
	anchors []bend.Anchor
}

func (c *Connector) Model() any {
	return c.ID
}

func (c *Connector) Anchors() []bend.Anchor {
	return slices.Clone(c.anchors)
}

func (c *Connector) BendPoints() []bend.BendPoint {
	return slices.Clone(c.points)
}

func (c *Connector) SetBendPoints(points []bend.BendPoint) {
	c.points = slices.Clone(points)
	c.refresh()
}

func (c *Connector) Hints() bend.Hints {
	return c.hints
}

func (c *Connector) SetHints(h bend.Hints) {
	c.hints = h
	c.refresh()
}

func (c *Connector) Router() bend.Router {
	return c.router
}

func (c *Connector) SetRouter(r bend.Router) {
	c.router = r
	c.refresh()
}

// IsOrthogonal reports whether the connector's router constrains drags to
// the axes.
func (c *Connector) IsOrthogonal() bool {
	_, ok := c.router.(bend.OrthogonalConstraint)
	return ok
}

func (c *Connector) LocalToScene(p vec.Vec2) vec.Vec2 {
	return c.scene.ToScene(p)
}

func (c *Connector) SceneToLocal(p vec.Vec2) vec.Vec2 {
	return c.scene.ToWorld(p)
}

// Points returns the routed point sequence in world coordinates.
func (c *Connector) Points() []vec.Vec2 {
	pts := make([]vec.Vec2, len(c.anchors))
	for i, a := range c.anchors {
		pts[i] = a.Position
	}
	return pts
}

// refresh resolves the endpoints onto the shapes they are attached to and
// routes the connector.
func (c *Connector) refresh() {
	n := len(c.points)
	if n == 0 {
		c.anchors = nil
		return
	}
	pos := make([]vec.Vec2, n)
	for i, bp := range c.points {
		pos[i] = bp.Position
	}
	if n > 1 {
		pos[0] = c.endpoint(c.points[0], c.hints.Start, c.reference(1))
		pos[n-1] = c.endpoint(c.points[n-1], c.hints.End, c.reference(n-2))
	}

	anchors := c.router.Route(pos)
	k := 0
	for i := range anchors {
		if anchors[i].IsImplicit() {
			continue
		}
		if k < n {
			anchors[i].Anchorage = c.points[k].Anchorage
		}
		k++
	}
	c.anchors = anchors
}

// reference returns the position an endpoint next to points[i] aims at.
func (c *Connector) reference(i int) vec.Vec2 {
	bp := c.points[i]
	if sh := c.attachedShape(bp); sh != nil {
		return sh.Center()
	}
	return bp.Position
}

func (c *Connector) endpoint(bp bend.BendPoint, hint *vec.Vec2, toward vec.Vec2) vec.Vec2 {
	sh := c.attachedShape(bp)
	if sh == nil {
		return bp.Position
	}
	if hint != nil {
		return sh.Project(*hint)
	}
	return sh.Chop(toward)
}

func (c *Connector) attachedShape(bp bend.BendPoint) *Shape {
	id, ok := bp.Anchorage.(ShapeID)
	if !ok || c.scene == nil {
		return nil
	}
	return c.scene.Shape(id)
}

// SegmentAt returns the index of the segment closest to the world position
// p, if it is within tol.
func (c *Connector) SegmentAt(p vec.Vec2, tol float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i := 0; i+1 < len(c.anchors); i++ {
		d := distToSegment(p, c.anchors[i].Position, c.anchors[i+1].Position)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > tol {
		return -1, false
	}
	return best, true
}

// AnchorAt returns the connection index of the anchor closest to the world
// position p, if it is within tol.
func (c *Connector) AnchorAt(p vec.Vec2, tol float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, a := range c.anchors {
		d := a.Position.Sub(p).Length()
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > tol {
		return -1, false
	}
	return best, true
}

func distToSegment(p, a, b vec.Vec2) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(d.Mul(t))).Length()
}
