package bend

import (
	"fmt"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Editor is a bend-point editing session for one connector.
//
// A gesture starts with Init, changes the connector through Select,
// SelectSegment, Move, CreateBefore, CreateAfter, MakeExplicit and Normalize,
// and ends with Commit or Rollback. Every change is staged on the connector
// right away so that hit-testing and overlay checks see the current geometry,
// but only Commit turns the difference into an Operation.
//
// An Editor must not be used from more than one goroutine, and a connector
// must not be edited by two editors at the same time.
type Editor struct {
	conn    Connection
	hit     HitTester
	content ContentPart

	overlayThreshold        float64
	segmentOverlayThreshold float64

	initialized        bool
	initialBendPoints  []BendPoint
	initialHints       Hints
	initialContent     []BendPoint
	needsNormalization bool

	// staged state, written to the connector by apply
	pending      []BendPoint
	pendingHints Hints

	selected []int

	// captured on the first Move after the selection or the route changed
	moved             bool
	baselines         []vec.Vec2
	preMoveBendPoints []BendPoint
	preMoveHints      Hints
	constrained       bool
	horizontal        bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithContent makes Commit also produce a content-model operation for part.
func WithContent(part ContentPart) Option {
	return func(e *Editor) {
		e.content = part
	}
}

// WithOverlayThreshold sets the distance at which dragged points merge.
func WithOverlayThreshold(d float64) Option {
	return func(e *Editor) {
		e.overlayThreshold = d
	}
}

// WithSegmentOverlayThreshold sets the distance at which a dragged
// orthogonal segment merges with its neighbours.
func WithSegmentOverlayThreshold(d float64) Option {
	return func(e *Editor) {
		e.segmentOverlayThreshold = d
	}
}

// NewEditor returns an editor for conn. The hit tester is used to find
// shapes that a dragged endpoint can be reconnected to; it may be nil.
func NewEditor(conn Connection, hit HitTester, opts ...Option) *Editor {
	e := &Editor{
		conn:                    conn,
		hit:                     hit,
		overlayThreshold:        DefaultOverlayThreshold,
		segmentOverlayThreshold: DefaultSegmentOverlayThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsInitialized reports whether a gesture is in progress.
func (e *Editor) IsInitialized() bool {
	return e.initialized
}

// Selection returns the explicit indices selected in the current gesture.
func (e *Editor) Selection() []int {
	return slices.Clone(e.selected)
}

// Init starts a gesture.
func (e *Editor) Init() error {
	if e.initialized {
		return ErrAlreadyInitialized
	}
	if err := checkEndpoints(e.conn.Anchors()); err != nil {
		return err
	}
	e.initialBendPoints = cloneBendPoints(e.conn.BendPoints())
	e.initialHints = e.conn.Hints().clone()
	if e.content != nil {
		e.initialContent = cloneBendPoints(e.content.ContentBendPoints())
	}
	e.pending = cloneBendPoints(e.initialBendPoints)
	e.pendingHints = e.initialHints.clone()
	e.initialized = true
	return nil
}

func (e *Editor) check() error {
	if !e.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Select adds the explicit anchor with the given index to the selection.
func (e *Editor) Select(explicitIndex int) error {
	if err := e.check(); err != nil {
		return err
	}
	e.restartMove()
	if explicitIndex < 0 || explicitIndex >= len(e.pending) {
		return fmt.Errorf("%w: explicit index %d, connector has %d bend points",
			ErrIndexOutOfRange, explicitIndex, len(e.pending))
	}
	e.selected = append(e.selected, explicitIndex)
	return nil
}

// SelectSegment selects both ends of the segment between the anchors at
// connection indices segmentIndex and segmentIndex+1, making them explicit
// first. An end that is attached to a shape keeps its attachment; a free copy
// of it is inserted next to it and selected instead.
func (e *Editor) SelectSegment(segmentIndex int) error {
	if err := e.check(); err != nil {
		return err
	}
	e.restartMove()
	anchors := e.conn.Anchors()
	if segmentIndex < 0 || segmentIndex+1 >= len(anchors) {
		return fmt.Errorf("%w: segment %d, connector has %d segments",
			ErrIndexOutOfRange, segmentIndex, len(anchors)-1)
	}
	start, end := anchors[segmentIndex], anchors[segmentIndex+1]
	startConnected := e.isConnected(start)
	endConnected := e.isConnected(end)

	indices, err := e.makeExplicit(segmentIndex, segmentIndex+1)
	if err != nil {
		return err
	}
	first, second := indices[0], indices[1]
	if startConnected {
		e.pending = slices.Insert(e.pending, first+1, Static(start.Position))
		first++
		second++
	}
	if endConnected {
		e.pending = slices.Insert(e.pending, second, Static(end.Position))
	}
	if startConnected || endConnected {
		e.apply()
	}
	e.selected = append(e.selected, first, second)
	return nil
}

// restartMove puts back the route from before the first Move, so that the
// next Move captures baselines for the whole selection and applies its delta
// to all of it.
func (e *Editor) restartMove() {
	if !e.moved {
		return
	}
	e.pending = cloneBendPoints(e.preMoveBendPoints)
	e.pendingHints = e.preMoveHints.clone()
	e.moved = false
	e.apply()
}

func (e *Editor) isConnected(a Anchor) bool {
	return a.Anchorage != nil && a.Anchorage != e.conn.Model()
}

// Move drags the selected anchors by the difference between the two scene
// positions. The result only depends on the positions at the start of the
// gesture, so Move can be called for every mouse event with the same
// initialMouse. Selecting or changing the route after a Move drops what the
// Moves so far did; the next Move drags the whole selection from there.
func (e *Editor) Move(initialMouse, currentMouse vec.Vec2) error {
	if err := e.check(); err != nil {
		return err
	}
	if len(e.selected) == 0 {
		return nil
	}

	if !e.moved {
		if err := e.captureBaselines(); err != nil {
			return err
		}
	} else {
		e.pending = cloneBendPoints(e.preMoveBendPoints)
		e.pendingHints = e.preMoveHints.clone()
		e.apply()
	}

	delta := e.conn.SceneToLocal(currentMouse).Sub(e.conn.SceneToLocal(initialMouse))
	if e.constrained {
		if e.horizontal {
			delta.X = 0
		} else {
			delta.Y = 0
		}
	}

	last := len(e.pending) - 1
	for i, idx := range e.selected {
		target := e.baselines[i].Add(delta)
		bp := ResolveBendPoint(e.conn, e.hit, target, idx == 0 || idx == last)
		e.pending[idx] = bp
		switch idx {
		case 0:
			e.pendingHints.Start = hintFor(bp)
		case last:
			e.pendingHints.End = hintFor(bp)
		}
	}
	e.apply()
	return e.removeOverlay()
}

func (e *Editor) captureBaselines() error {
	anchors := e.conn.Anchors()
	e.baselines = e.baselines[:0]
	for _, idx := range e.selected {
		ci, err := ConnectionIndex(anchors, idx)
		if err != nil {
			return err
		}
		e.baselines = append(e.baselines, anchors[ci].Position)
	}
	e.preMoveBendPoints = cloneBendPoints(e.pending)
	e.preMoveHints = e.pendingHints.clone()

	e.constrained = false
	if oc, ok := e.orthogonal(); ok && len(e.selected) == 2 {
		e.constrained = true
		e.horizontal = oc.Orientation(e.baselines[0], e.baselines[1]) == Horizontal
	}
	e.moved = true
	return nil
}

// hintFor returns the positioning hint for an endpoint that was moved to bp.
func hintFor(bp BendPoint) *vec.Vec2 {
	if !bp.IsAttached() {
		return nil
	}
	p := bp.Position
	return &p
}

// CreateAfter inserts a static bend point at the scene position p after the
// explicit anchor with the given index and returns its explicit index.
// Inserting after the last anchor makes the new point the end of the
// connector.
func (e *Editor) CreateAfter(explicitIndex int, p vec.Vec2) (int, error) {
	if err := e.check(); err != nil {
		return -1, err
	}
	e.restartMove()
	if explicitIndex < 0 || explicitIndex >= len(e.pending) {
		return -1, fmt.Errorf("%w: cannot insert after explicit index %d of %d",
			ErrIndexOutOfRange, explicitIndex, len(e.pending))
	}
	return e.insert(explicitIndex+1, p), nil
}

// CreateBefore inserts a static bend point at the scene position p before
// the explicit anchor with the given index and returns its explicit index.
// Inserting before anchor 0 makes the new point the start of the connector.
func (e *Editor) CreateBefore(explicitIndex int, p vec.Vec2) (int, error) {
	if err := e.check(); err != nil {
		return -1, err
	}
	e.restartMove()
	if explicitIndex < 0 || explicitIndex >= len(e.pending) {
		return -1, fmt.Errorf("%w: cannot insert before explicit index %d of %d",
			ErrIndexOutOfRange, explicitIndex, len(e.pending))
	}
	return e.insert(explicitIndex, p), nil
}

func (e *Editor) insert(at int, p vec.Vec2) int {
	e.pending = slices.Insert(e.pending, at, Static(e.conn.SceneToLocal(p)))
	switch at {
	case 0:
		e.pendingHints.Start = nil
	case len(e.pending) - 1:
		e.pendingHints.End = nil
	}
	e.needsNormalization = true
	e.apply()
	return at
}

// MakeExplicit turns every implicit anchor between the connection indices
// start and end (inclusive) into a static bend point at its current
// position. It returns the explicit indices of all anchors in the range, in
// ascending order.
func (e *Editor) MakeExplicit(start, end int) ([]int, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	e.restartMove()
	return e.makeExplicit(start, end)
}

// implicitGroup is a run of implicit anchors and the explicit index of the
// anchor before it.
type implicitGroup struct {
	preceding int
	positions []vec.Vec2
}

func (e *Editor) makeExplicit(start, end int) ([]int, error) {
	anchors := e.conn.Anchors()
	if start < 0 || end >= len(anchors) || start > end {
		return nil, fmt.Errorf("%w: connection range [%d, %d], connector has %d anchors",
			ErrIndexOutOfRange, start, end, len(anchors))
	}

	var groups []implicitGroup
	inGroup := false
	for i := start; i <= end; i++ {
		if !anchors[i].IsImplicit() {
			inGroup = false
			continue
		}
		if !inGroup {
			preceding, err := ExplicitIndexAtOrBefore(anchors, i)
			if err != nil {
				return nil, err
			}
			groups = append(groups, implicitGroup{preceding: preceding})
			inGroup = true
		}
		g := &groups[len(groups)-1]
		g.positions = append(g.positions, anchors[i].Position)
	}

	first, err := ExplicitIndexAtOrAfter(anchors, start)
	if err != nil {
		return nil, err
	}

	// back to front, so that the preceding indices of earlier groups stay valid
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		points := make([]BendPoint, len(g.positions))
		for j, p := range g.positions {
			points[j] = Static(p)
		}
		e.pending = slices.Insert(e.pending, g.preceding+1, points...)
	}
	e.needsNormalization = true
	if len(groups) > 0 {
		e.apply()
	}

	indices := make([]int, end-start+1)
	for i := range indices {
		indices[i] = first + i
	}
	return indices, nil
}

// Normalize removes explicit anchors of an orthogonal connector that lie on
// a straight line with their neighbours. Connectors with other routers are
// left alone.
func (e *Editor) Normalize() error {
	if err := e.check(); err != nil {
		return err
	}
	e.restartMove()
	return e.normalize()
}

// Commit ends the gesture and returns the operation that records it. The
// connector already shows the final state; executing the operation also
// updates the content model. A nil operation means nothing changed.
func (e *Editor) Commit() (Operation, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	if e.needsNormalization {
		if err := e.normalize(); err != nil {
			return nil, err
		}
	}
	e.apply()

	var op Operation = NewBendOperation(e.conn,
		e.initialBendPoints, e.pending, e.initialHints, e.pendingHints)
	if e.content != nil {
		op = Composite{op, NewContentOperation(e.content, e.initialContent, e.pending)}
	}
	e.reset()
	if op.IsNoOp() {
		return nil, nil
	}
	return op, nil
}

// Rollback ends the gesture and restores the connector to its state at Init.
func (e *Editor) Rollback() error {
	if err := e.check(); err != nil {
		return err
	}
	e.pending = cloneBendPoints(e.initialBendPoints)
	e.pendingHints = e.initialHints.clone()
	e.apply()
	e.reset()
	return nil
}

func (e *Editor) reset() {
	e.initialized = false
	e.initialBendPoints = nil
	e.initialHints = Hints{}
	e.initialContent = nil
	e.needsNormalization = false
	e.pending = nil
	e.pendingHints = Hints{}
	e.selected = nil
	e.moved = false
	e.baselines = nil
	e.preMoveBendPoints = nil
	e.preMoveHints = Hints{}
	e.constrained = false
	e.horizontal = false
}

// apply writes the staged state to the connector.
func (e *Editor) apply() {
	e.conn.SetBendPoints(cloneBendPoints(e.pending))
	e.conn.SetHints(e.pendingHints.clone())
}

func (e *Editor) orthogonal() (OrthogonalConstraint, bool) {
	oc, ok := e.conn.Router().(OrthogonalConstraint)
	return oc, ok
}

// position returns the local position of the explicit anchor with the given
// index.
func (e *Editor) position(anchors []Anchor, explicitIndex int) (vec.Vec2, error) {
	ci, err := ConnectionIndex(anchors, explicitIndex)
	if err != nil {
		return vec.Vec2{}, err
	}
	return anchors[ci].Position, nil
}
