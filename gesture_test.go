package main

import (
	"errors"
	"testing"

	"bendterm/bend"
	"bendterm/scene"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
)

// testModel returns a model with an empty chart and a straight horizontal
// connector from (0,0) to (10,0).
func testModel(t *testing.T) *model {
	t.Helper()
	config := defaultConfig()
	config.StartMenu = false
	config.Confirmations = false
	config.Router = scene.RouterStraight
	m := initialModel(config)
	m.width, m.height = 40, 12

	m.getCanvas().RestoreConnector(Connector{
		ID:     1,
		Router: scene.RouterStraight,
		Points: []bend.BendPoint{bend.Static(pt(0, 0)), bend.Static(pt(10, 0))},
	})
	return &m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// checkPoints compares the bend points of connector 1 on both the scene
// and the content side.
func checkPoints(t *testing.T, m *model, want []vec.Vec2) {
	t.Helper()
	canvas := m.getCanvas()
	if diff := cmp.Diff(want, positions(canvas.View(1).BendPoints())); diff != "" {
		t.Errorf("view points (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, positions(canvas.Connector(1).Points)); diff != "" {
		t.Errorf("content points (-want +got):\n%s", diff)
	}
}

func TestKeyboardGestureInsertsBendPoint(t *testing.T) {
	m := testModel(t)
	m.cursorX, m.cursorY = 5, 0

	var tm tea.Model = *m
	tm, _ = tm.Update(key("i"))
	if got := tm.(model).mode; got != ModeBend {
		t.Fatalf("mode after 'i' = %v, want bend", got)
	}
	for range 3 {
		tm, _ = tm.Update(key("j"))
	}
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := tm.(model)
	if got.mode != ModeNormal || got.gesture != nil {
		t.Fatalf("gesture still active after Enter, mode %v", got.mode)
	}
	if got.errorMessage != "" {
		t.Fatalf("error: %s", got.errorMessage)
	}
	checkPoints(t, &got, []vec.Vec2{pt(0, 0), pt(5, 3), pt(10, 0)})
	if n := len(got.getCurrentBuffer().undoStack); n != 1 {
		t.Errorf("undo stack has %d entries, want 1", n)
	}

	got.undo()
	checkPoints(t, &got, []vec.Vec2{pt(0, 0), pt(10, 0)})
	got.redo()
	checkPoints(t, &got, []vec.Vec2{pt(0, 0), pt(5, 3), pt(10, 0)})
}

func TestMouseGesture(t *testing.T) {
	m := testModel(t)

	var tm tea.Model = *m
	tm, _ = tm.Update(tea.MouseMsg{X: 5, Y: 0, Type: tea.MouseLeft})
	tm, _ = tm.Update(tea.MouseMsg{X: 6, Y: 1, Type: tea.MouseMotion})
	tm, _ = tm.Update(tea.MouseMsg{X: 5, Y: 2, Type: tea.MouseMotion})
	tm, _ = tm.Update(tea.MouseMsg{X: 5, Y: 2, Type: tea.MouseRelease})

	got := tm.(model)
	if got.mode != ModeNormal {
		t.Fatalf("mode = %v, want normal", got.mode)
	}
	checkPoints(t, &got, []vec.Vec2{pt(0, 0), pt(5, 2), pt(10, 0)})
}

func TestMousePressOnEmptySpaceMovesCursor(t *testing.T) {
	m := testModel(t)

	var tm tea.Model = *m
	tm, _ = tm.Update(tea.MouseMsg{X: 7, Y: 6, Type: tea.MouseLeft})

	got := tm.(model)
	if got.mode != ModeNormal || got.errorMessage != "" {
		t.Errorf("mode %v, error %q", got.mode, got.errorMessage)
	}
	if got.cursorX != 7 || got.cursorY != 6 {
		t.Errorf("cursor = (%d, %d), want (7, 6)", got.cursorX, got.cursorY)
	}
}

func TestCancelGestureRollsBack(t *testing.T) {
	m := testModel(t)

	if err := m.beginGesture(pt(5, 0), false, false); err != nil {
		t.Fatalf("beginGesture: %v", err)
	}
	if err := m.nudgeGesture(0, 4); err != nil {
		t.Fatalf("nudgeGesture: %v", err)
	}
	m.cancelGesture()

	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(10, 0)})
	if n := len(m.getCurrentBuffer().undoStack); n != 0 {
		t.Errorf("undo stack has %d entries, want 0", n)
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
}

func TestUnchangedGestureIsNotRecorded(t *testing.T) {
	m := testModel(t)
	m.getCanvas().SetRouter(1, scene.RouterOrthogonal)

	if err := m.beginGesture(pt(5, 0), false, false); err != nil {
		t.Fatalf("beginGesture: %v", err)
	}
	if err := m.commitGesture(); err != nil {
		t.Fatalf("commitGesture: %v", err)
	}
	if n := len(m.getCurrentBuffer().undoStack); n != 0 {
		t.Errorf("undo stack has %d entries, want 0", n)
	}
}

func TestGestureWithoutConnector(t *testing.T) {
	m := testModel(t)
	err := m.beginGesture(pt(5, 5), false, false)
	if !errors.Is(err, errNothingToEdit) {
		t.Errorf("beginGesture = %v, want errNothingToEdit", err)
	}
	if m.gesture != nil || m.mode != ModeNormal {
		t.Error("failed gesture left state behind")
	}
}

func TestGestureHonoursPan(t *testing.T) {
	m := testModel(t)
	m.cursorX, m.cursorY = 0, 0
	m.zPanMode = true
	for range 5 {
		m.handleNavigation("l", 1)
	}
	m.zPanMode = false

	// world (5,0) is now at the screen origin
	if err := m.beginGesture(pt(0, 0), true, false); err != nil {
		t.Fatalf("beginGesture: %v", err)
	}
	if err := m.nudgeGesture(0, 2); err != nil {
		t.Fatalf("nudgeGesture: %v", err)
	}
	if err := m.commitGesture(); err != nil {
		t.Fatalf("commitGesture: %v", err)
	}
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(5, 2), pt(10, 0)})
}

func TestBendSurvivesConnectorDeleteAndUndo(t *testing.T) {
	m := testModel(t)
	if err := m.beginGesture(pt(5, 0), true, false); err != nil {
		t.Fatalf("beginGesture: %v", err)
	}
	if err := m.nudgeGesture(0, 3); err != nil {
		t.Fatalf("nudgeGesture: %v", err)
	}
	if err := m.commitGesture(); err != nil {
		t.Fatalf("commitGesture: %v", err)
	}

	m.deleteConnector(1)
	if m.getCanvas().Connector(1) != nil {
		t.Fatal("connector not deleted")
	}
	m.undo() // delete
	m.undo() // bend
	if m.errorMessage != "" {
		t.Fatalf("undo: %s", m.errorMessage)
	}
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(10, 0)})
}

// setRoute replaces the route of connector 1.
func setRoute(m *model, kind scene.RouterKind, pts ...vec.Vec2) {
	canvas := m.getCanvas()
	canvas.SetRouter(1, kind)
	points := make([]bend.BendPoint, len(pts))
	for i, p := range pts {
		points[i] = bend.Static(p)
	}
	canvas.View(1).SetBendPoints(points)
	canvas.Content(1).SetContentBendPoints(points)
}

func TestMakeExplicit(t *testing.T) {
	m := testModel(t)
	setRoute(m, scene.RouterOrthogonal, pt(0, 0), pt(10, 6))

	// the elbow sits at (0,6), the cursor on the vertical leg
	if err := m.makeExplicitAt(pt(0, 3)); err != nil {
		t.Fatalf("makeExplicitAt: %v", err)
	}
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(0, 6), pt(10, 6)})

	m.undo()
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(10, 6)})
}

func TestNormalize(t *testing.T) {
	m := testModel(t)
	setRoute(m, scene.RouterOrthogonal, pt(0, 0), pt(5, 0), pt(10, 0))

	if err := m.normalizeAt(pt(2, 0)); err != nil {
		t.Fatalf("normalizeAt: %v", err)
	}
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(10, 0)})

	// nothing left to remove
	if err := m.normalizeAt(pt(2, 0)); err != nil {
		t.Fatalf("normalizeAt: %v", err)
	}
	if n := len(m.getCurrentBuffer().undoStack); n != 1 {
		t.Fatalf("undo stack has %d entries, want 1", n)
	}

	m.undo()
	checkPoints(t, m, []vec.Vec2{pt(0, 0), pt(5, 0), pt(10, 0)})
}

func TestToggleRouterUndo(t *testing.T) {
	m := testModel(t)
	if err := m.toggleRouterAt(pt(5, 0)); err != nil {
		t.Fatalf("toggleRouterAt: %v", err)
	}
	canvas := m.getCanvas()
	if got := canvas.Connector(1).Router; got != scene.RouterOrthogonal {
		t.Errorf("router = %s, want orthogonal", got)
	}
	if !canvas.View(1).IsOrthogonal() {
		t.Error("view router not switched")
	}
	m.undo()
	if got := canvas.Connector(1).Router; got != scene.RouterStraight {
		t.Errorf("router after undo = %s, want straight", got)
	}
	m.redo()
	if got := canvas.Connector(1).Router; got != scene.RouterOrthogonal {
		t.Errorf("router after redo = %s, want orthogonal", got)
	}
}

func TestBoxWorkflow(t *testing.T) {
	m := testModel(t)
	m.cursorX, m.cursorY = 2, 4

	var tm tea.Model = *m
	tm, _ = tm.Update(key("b"))
	tm, _ = tm.Update(key("A"))
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := tm.(model)
	id := got.getCanvas().GetBoxAt(3, 5)
	if id == -1 {
		t.Fatal("no box created at the cursor")
	}
	if text := got.getCanvas().Box(id).GetText(); text != "A" {
		t.Errorf("box text = %q, want A", text)
	}

	tm, _ = tm.Update(key("m"))
	tm, _ = tm.Update(key("l"))
	tm, _ = tm.Update(key("l"))
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = tm.(model)
	if box := got.getCanvas().Box(id); box.X != 4 || box.Y != 4 {
		t.Errorf("box at (%d, %d), want (4, 4)", box.X, box.Y)
	}

	got.undo()
	if box := got.getCanvas().Box(id); box.X != 2 {
		t.Errorf("box X after undo = %d, want 2", box.X)
	}
	got.undo()
	if got.getCanvas().Box(id) != nil {
		t.Error("box still present after undoing its creation")
	}
}

func TestClipboardFormat(t *testing.T) {
	points := []bend.BendPoint{
		bend.Attached(pt(0, 0), scene.ShapeID(1)),
		bend.Static(pt(5, 2.5)),
		bend.Attached(pt(10, 0), scene.ShapeID(2)),
	}
	text := formatBendPoints(points)
	if text != "0,0@1 5,2.5 10,0@2" {
		t.Errorf("formatBendPoints = %q", text)
	}
	parsed, err := parseClipboardBendPoints(text)
	if err != nil {
		t.Fatalf("parseClipboardBendPoints: %v", err)
	}
	if diff := cmp.Diff(points, parsed); diff != "" {
		t.Errorf("parsed (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"1", "a,b", "1,2@x"} {
		if _, err := parseClipboardBendPoints(bad); err == nil {
			t.Errorf("parseClipboardBendPoints(%q) succeeded", bad)
		}
	}
}

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1,2 3,4", "1,2 3,4"},
		{"<div>1,2 3,4</div>", "1,2 3,4"},
		{"{\\rtf1\\ansi 1,2 3,4}", "1,2 3,4"},
		{"1,2\r\n3,4", "1,2\n3,4"},
	}
	for _, tt := range tests {
		if got := cleanClipboardText(tt.in); got != tt.want {
			t.Errorf("cleanClipboardText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
