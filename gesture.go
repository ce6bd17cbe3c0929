package main

import (
	"errors"
	"fmt"
	"log"

	"bendterm/bend"
	"bendterm/scene"

	"seehuhn.de/go/geom/vec"
)

var errNothingToEdit = errors.New("no connector under cursor")

// gesture is a bend-point drag in progress. Positions are scene positions,
// i.e. screen cells.
type gesture struct {
	connID  scene.ConnectorID
	editor  *bend.Editor
	start   vec.Vec2
	current vec.Vec2
	mouse   bool
}

func (m *model) cursorScene() vec.Vec2 {
	return vec.Vec2{X: float64(m.cursorX), Y: float64(m.cursorY)}
}

func (m *model) newEditor(view *scene.Connector) *bend.Editor {
	canvas := m.getCanvas()
	opts := append(m.config.editorOptions(), bend.WithContent(canvas.Content(view.ID)))
	return bend.NewEditor(view, canvas.Scene(), opts...)
}

func (m *model) connectorUnder(p vec.Vec2) (*scene.Connector, vec.Vec2, error) {
	canvas := m.getCanvas()
	if canvas == nil {
		return nil, vec.Vec2{}, errNothingToEdit
	}
	world := canvas.Scene().ToWorld(p)
	view := canvas.ConnectorAt(world)
	if view == nil {
		return nil, world, errNothingToEdit
	}
	return view, world, nil
}

// beginGesture starts dragging the part of a connector under the scene
// position p. With insert set a new bend point is created on the segment
// under p instead of grabbing what is there.
func (m *model) beginGesture(p vec.Vec2, insert, mouse bool) error {
	view, world, err := m.connectorUnder(p)
	if err != nil {
		return err
	}
	ed := m.newEditor(view)
	if err := ed.Init(); err != nil {
		return err
	}
	if err := grab(ed, view, world, p, insert); err != nil {
		ed.Rollback()
		return err
	}
	m.gesture = &gesture{
		connID:  view.ID,
		editor:  ed,
		start:   p,
		current: p,
		mouse:   mouse,
	}
	m.mode = ModeBend
	log.Printf("bend: connector %d, selection %v", view.ID, ed.Selection())
	return nil
}

// grab selects the bend point, router elbow or segment at world.
func grab(ed *bend.Editor, view *scene.Connector, world, p vec.Vec2, insert bool) error {
	anchors := view.Anchors()
	if !insert {
		if ci, ok := view.AnchorAt(world, pickTolerance); ok {
			if anchors[ci].IsImplicit() {
				indices, err := ed.MakeExplicit(ci, ci)
				if err != nil {
					return err
				}
				return ed.Select(indices[0])
			}
			ei, err := bend.ExplicitIndexAtOrBefore(anchors, ci)
			if err != nil {
				return err
			}
			return ed.Select(ei)
		}
	}

	seg, ok := view.SegmentAt(world, pickTolerance)
	if !ok {
		return errNothingToEdit
	}
	if !insert && view.IsOrthogonal() {
		return ed.SelectSegment(seg)
	}
	indices, err := ed.MakeExplicit(seg, seg+1)
	if err != nil {
		return err
	}
	idx, err := ed.CreateAfter(indices[0], p)
	if err != nil {
		return err
	}
	return ed.Select(idx)
}

func (m *model) dragGesture(p vec.Vec2) error {
	g := m.gesture
	if g == nil {
		return nil
	}
	g.current = p
	return g.editor.Move(g.start, g.current)
}

// nudgeGesture moves the drag position by whole cells, for keyboard drags.
func (m *model) nudgeGesture(dx, dy int) error {
	g := m.gesture
	if g == nil {
		return nil
	}
	return m.dragGesture(g.current.Add(vec.Vec2{X: float64(dx), Y: float64(dy)}))
}

func (m *model) commitGesture() error {
	g := m.gesture
	if g == nil {
		return nil
	}
	m.gesture = nil
	m.mode = ModeNormal

	op, err := g.editor.Commit()
	if err != nil {
		g.editor.Rollback()
		return fmt.Errorf("commit bend: %w", err)
	}
	return m.record(g.connID, op)
}

func (m *model) cancelGesture() {
	g := m.gesture
	if g == nil {
		return
	}
	m.gesture = nil
	m.mode = ModeNormal
	if err := g.editor.Rollback(); err != nil {
		log.Printf("rollback connector %d: %v", g.connID, err)
		return
	}
	log.Printf("bend: connector %d rolled back", g.connID)
}

// record executes a committed operation, which also writes the content
// model, and pushes it onto the undo stack.
func (m *model) record(id scene.ConnectorID, op bend.Operation) error {
	if op == nil {
		log.Printf("bend: connector %d unchanged", id)
		return nil
	}
	if err := op.Execute(); err != nil {
		return fmt.Errorf("apply bend: %w", err)
	}
	m.recordAction(ActionBend, op, nil)
	log.Printf("bend: connector %d committed", id)
	return nil
}

// editConnector runs a one-step edit on the connector under p and commits it.
func (m *model) editConnector(p vec.Vec2, edit func(*bend.Editor, *scene.Connector) error) error {
	view, _, err := m.connectorUnder(p)
	if err != nil {
		return err
	}
	ed := m.newEditor(view)
	if err := ed.Init(); err != nil {
		return err
	}
	if err := edit(ed, view); err != nil {
		ed.Rollback()
		return err
	}
	op, err := ed.Commit()
	if err != nil {
		ed.Rollback()
		return err
	}
	return m.record(view.ID, op)
}

func (m *model) makeExplicitAt(p vec.Vec2) error {
	return m.editConnector(p, func(ed *bend.Editor, view *scene.Connector) error {
		_, err := ed.MakeExplicit(0, len(view.Anchors())-1)
		return err
	})
}

func (m *model) normalizeAt(p vec.Vec2) error {
	return m.editConnector(p, func(ed *bend.Editor, _ *scene.Connector) error {
		return ed.Normalize()
	})
}

// setBendPoints replaces the bend points of a connector outside of a
// gesture, as one undoable step.
func (m *model) setBendPoints(view *scene.Connector, points []bend.BendPoint) error {
	canvas := m.getCanvas()
	hints := view.Hints()
	content := canvas.Content(view.ID)
	op := bend.Composite{
		bend.NewBendOperation(view, view.BendPoints(), points, hints, hints),
		bend.NewContentOperation(content, content.ContentBendPoints(), points),
	}
	if op.IsNoOp() {
		return nil
	}
	return m.record(view.ID, op)
}

func (m *model) toggleRouterAt(p vec.Vec2) error {
	view, _, err := m.connectorUnder(p)
	if err != nil {
		return err
	}
	old := scene.KindOf(view.Router())
	kind := scene.RouterStraight
	if old == scene.RouterStraight {
		kind = scene.RouterOrthogonal
	}
	m.getCanvas().SetRouter(view.ID, kind)
	m.recordAction(ActionRouter, RouterData{ID: view.ID, Kind: kind}, RouterData{ID: view.ID, Kind: old})
	return nil
}
