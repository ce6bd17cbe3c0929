// Package scene is the visual layer the bend editor works against: shapes,
// routed connectors, hit-testing, and the transform between the world
// coordinates connectors are stored in and the scene (screen) coordinates.
package scene

import (
	"math"
	"slices"

	"bendterm/bend"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ShapeID identifies a shape. Bend points attached to a shape store its
// ShapeID as their anchorage.
type ShapeID int

// ConnectorID identifies a connector.
type ConnectorID int

// Shape is an axis-aligned rectangle that connectors can attach to.
type Shape struct {
	ID       ShapeID
	Min, Max vec.Vec2
}

func NewShape(id ShapeID, x, y, width, height float64) *Shape {
	return &Shape{
		ID:  id,
		Min: vec.Vec2{X: x, Y: y},
		Max: vec.Vec2{X: x + width, Y: y + height},
	}
}

func (s *Shape) Model() any {
	return s.ID
}

func (s *Shape) CanProvideAnchor() bool {
	return true
}

func (s *Shape) Center() vec.Vec2 {
	return vec.Vec2{X: (s.Min.X + s.Max.X) / 2, Y: (s.Min.Y + s.Max.Y) / 2}
}

func (s *Shape) Contains(p vec.Vec2) bool {
	return p.X >= s.Min.X && p.X <= s.Max.X && p.Y >= s.Min.Y && p.Y <= s.Max.Y
}

// Project returns the point on the border of s closest to p.
func (s *Shape) Project(p vec.Vec2) vec.Vec2 {
	q := vec.Vec2{
		X: math.Min(math.Max(p.X, s.Min.X), s.Max.X),
		Y: math.Min(math.Max(p.Y, s.Min.Y), s.Max.Y),
	}
	if !s.Contains(p) {
		return q
	}
	// inside: push out through the nearest side
	left, right := q.X-s.Min.X, s.Max.X-q.X
	top, bottom := q.Y-s.Min.Y, s.Max.Y-q.Y
	switch math.Min(math.Min(left, right), math.Min(top, bottom)) {
	case left:
		q.X = s.Min.X
	case right:
		q.X = s.Max.X
	case top:
		q.Y = s.Min.Y
	default:
		q.Y = s.Max.Y
	}
	return q
}

// Chop returns the point where the ray from the center of s towards p leaves
// the shape.
func (s *Shape) Chop(p vec.Vec2) vec.Vec2 {
	c := s.Center()
	d := p.Sub(c)
	hw, hh := (s.Max.X-s.Min.X)/2, (s.Max.Y-s.Min.Y)/2
	if d.Length() == 0 || hw == 0 || hh == 0 {
		return c
	}
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, hw/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, hh/math.Abs(d.Y))
	}
	return c.Add(d.Mul(t))
}

// Scene holds the shapes and connectors of one canvas. Frame maps world
// coordinates to scene coordinates.
type Scene struct {
	Frame matrix.Matrix

	shapes     []*Shape
	connectors []*Connector
}

func New() *Scene {
	return &Scene{Frame: matrix.Identity}
}

// SetPan makes the world position (x, y) appear at the scene origin.
func (s *Scene) SetPan(x, y float64) {
	s.Frame = matrix.Translate(-x, -y)
}

func (s *Scene) ToScene(p vec.Vec2) vec.Vec2 {
	x, y := s.Frame.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

func (s *Scene) ToWorld(p vec.Vec2) vec.Vec2 {
	x, y := s.Frame.Inv().Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

func (s *Scene) AddShape(sh *Shape) {
	s.shapes = append(s.shapes, sh)
}

func (s *Scene) RemoveShape(id ShapeID) {
	s.shapes = slices.DeleteFunc(s.shapes, func(sh *Shape) bool { return sh.ID == id })
}

func (s *Scene) Shape(id ShapeID) *Shape {
	for _, sh := range s.shapes {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

func (s *Scene) Shapes() []*Shape {
	return s.shapes
}

// AddConnector creates a connector through the given bend points. The first
// and the last point are its endpoints.
func (s *Scene) AddConnector(id ConnectorID, router bend.Router, points []bend.BendPoint) *Connector {
	c := &Connector{
		ID:     id,
		scene:  s,
		router: router,
		points: slices.Clone(points),
	}
	c.refresh()
	s.connectors = append(s.connectors, c)
	return c
}

// Attach adds a connector that was removed from s back to it, so that
// operations recorded against it stay valid.
func (s *Scene) Attach(c *Connector) {
	c.scene = s
	c.refresh()
	s.connectors = append(s.connectors, c)
}

func (s *Scene) RemoveConnector(id ConnectorID) {
	s.connectors = slices.DeleteFunc(s.connectors, func(c *Connector) bool { return c.ID == id })
}

func (s *Scene) Connector(id ConnectorID) *Connector {
	for _, c := range s.connectors {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Scene) Connectors() []*Connector {
	return s.connectors
}

// Refresh re-routes every connector, for example after a shape moved.
func (s *Scene) Refresh() {
	for _, c := range s.connectors {
		c.refresh()
	}
}

// ElementsAt returns the elements under the scene position p, topmost
// first. Shapes are drawn above connectors.
func (s *Scene) ElementsAt(p vec.Vec2) []bend.Element {
	w := s.ToWorld(p)
	var res []bend.Element
	for i := len(s.shapes) - 1; i >= 0; i-- {
		if s.shapes[i].Contains(w) {
			res = append(res, s.shapes[i])
		}
	}
	for i := len(s.connectors) - 1; i >= 0; i-- {
		if _, ok := s.connectors[i].SegmentAt(w, pickTolerance); ok {
			res = append(res, s.connectors[i])
		}
	}
	return res
}
