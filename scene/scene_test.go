package scene

import (
	"testing"

	"bendterm/bend"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func TestOrthogonalRoute(t *testing.T) {
	tests := []struct {
		name string
		in   []vec.Vec2
		want []bend.Anchor
	}{
		{
			name: "aligned",
			in:   []vec.Vec2{pt(0, 0), pt(10, 0)},
			want: []bend.Anchor{
				{Kind: bend.Explicit, Position: pt(0, 0)},
				{Kind: bend.Explicit, Position: pt(10, 0)},
			},
		},
		{
			name: "nearly aligned",
			in:   []vec.Vec2{pt(0, 0), pt(10, 0.5)},
			want: []bend.Anchor{
				{Kind: bend.Explicit, Position: pt(0, 0)},
				{Kind: bend.Explicit, Position: pt(10, 0.5)},
			},
		},
		{
			name: "wide",
			in:   []vec.Vec2{pt(0, 0), pt(20, 10)},
			want: []bend.Anchor{
				{Kind: bend.Explicit, Position: pt(0, 0)},
				{Kind: bend.Implicit, Position: pt(0, 10)},
				{Kind: bend.Explicit, Position: pt(20, 10)},
			},
		},
		{
			name: "tall",
			in:   []vec.Vec2{pt(0, 0), pt(10, 20)},
			want: []bend.Anchor{
				{Kind: bend.Explicit, Position: pt(0, 0)},
				{Kind: bend.Implicit, Position: pt(10, 0)},
				{Kind: bend.Explicit, Position: pt(10, 20)},
			},
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrthogonalRouter{}.Route(tt.in)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Route (-want +got):\n%s", d)
			}
		})
	}
}

func TestStraightRouteIsExplicit(t *testing.T) {
	got := StraightRouter{}.Route([]vec.Vec2{pt(0, 0), pt(20, 10), pt(5, 5)})
	if len(got) != 3 {
		t.Fatalf("expected 3 anchors, got %d", len(got))
	}
	for i, a := range got {
		if a.IsImplicit() {
			t.Errorf("anchor %d is implicit", i)
		}
	}
}

func TestOrientation(t *testing.T) {
	r := OrthogonalRouter{}
	if o := r.Orientation(pt(0, 5), pt(30, 5.5)); o != bend.Horizontal {
		t.Errorf("got %v, want horizontal", o)
	}
	if o := r.Orientation(pt(5, 0), pt(5, 30)); o != bend.Vertical {
		t.Errorf("got %v, want vertical", o)
	}
}

func TestRouterKinds(t *testing.T) {
	for _, kind := range []RouterKind{RouterStraight, RouterOrthogonal} {
		if got := KindOf(NewRouter(kind)); got != kind {
			t.Errorf("KindOf(NewRouter(%q)) = %q", kind, got)
		}
	}
	if got := KindOf(NewRouter("bogus")); got != RouterOrthogonal {
		t.Errorf("unknown kind resolved to %q", got)
	}
}

func TestShapeBorder(t *testing.T) {
	sh := NewShape(1, 0, 0, 20, 10)

	tests := []struct {
		name string
		fn   func(vec.Vec2) vec.Vec2
		in   vec.Vec2
		want vec.Vec2
	}{
		{"project outside", sh.Project, pt(30, 5), pt(20, 5)},
		{"project corner", sh.Project, pt(-5, -5), pt(0, 0)},
		{"project inside left", sh.Project, pt(2, 5), pt(0, 5)},
		{"project inside bottom", sh.Project, pt(10, 9), pt(10, 10)},
		{"chop right", sh.Chop, pt(40, 5), pt(20, 5)},
		{"chop up", sh.Chop, pt(10, -50), pt(10, 0)},
		{"chop diagonal", sh.Chop, pt(30, 25), pt(15, 10)},
		{"chop center", sh.Chop, pt(10, 5), pt(10, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.in)
			if d := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	s := New()
	s.SetPan(10, 5)
	p := pt(3, 4)
	sp := s.ToScene(p)
	if d := cmp.Diff(pt(-7, -1), sp, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("ToScene (-want +got):\n%s", d)
	}
	if d := cmp.Diff(p, s.ToWorld(sp), cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

func TestElementsAt(t *testing.T) {
	s := New()
	s.AddShape(NewShape(1, 0, 0, 10, 10))
	s.AddShape(NewShape(2, 5, 5, 10, 10))
	s.AddConnector(3, StraightRouter{}, []bend.BendPoint{
		bend.Static(pt(0, 8)), bend.Static(pt(40, 8)),
	})
	s.SetPan(5, 0)

	var models []any
	for _, el := range s.ElementsAt(pt(2, 8)) {
		models = append(models, el.Model())
	}
	want := []any{ShapeID(2), ShapeID(1), ConnectorID(3)}
	if d := cmp.Diff(want, models); d != "" {
		t.Errorf("ElementsAt (-want +got):\n%s", d)
	}

	if els := s.ElementsAt(pt(30, 30)); len(els) != 0 {
		t.Errorf("expected nothing at (30, 30), got %d elements", len(els))
	}
}

func TestAttachedEndpointsFollowShapes(t *testing.T) {
	s := New()
	a := NewShape(1, 0, 0, 10, 10)
	b := NewShape(2, 40, 0, 10, 10)
	s.AddShape(a)
	s.AddShape(b)
	c := s.AddConnector(1, StraightRouter{}, []bend.BendPoint{
		bend.Attached(pt(5, 5), ShapeID(1)),
		bend.Attached(pt(45, 5), ShapeID(2)),
	})
	if d := cmp.Diff([]vec.Vec2{pt(10, 5), pt(40, 5)}, c.Points()); d != "" {
		t.Errorf("chopped endpoints (-want +got):\n%s", d)
	}
	if c.Anchors()[0].Anchorage != ShapeID(1) {
		t.Errorf("start anchor lost its anchorage")
	}

	b.Min, b.Max = pt(40, 30), pt(50, 40)
	s.Refresh()
	want := []vec.Vec2{pt(10, 8.75), pt(40, 31.25)}
	if d := cmp.Diff(want, c.Points(), cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("after moving a shape (-want +got):\n%s", d)
	}

	hint := pt(0, 2)
	c.SetHints(bend.Hints{Start: &hint})
	if got := c.Points()[0]; got != pt(0, 2) {
		t.Errorf("hinted start at %v, want (0, 2)", got)
	}
}

func TestPicking(t *testing.T) {
	s := New()
	c := s.AddConnector(1, OrthogonalRouter{}, []bend.BendPoint{
		bend.Static(pt(0, 0)), bend.Static(pt(10, 20)),
	})
	// route: (0,0) -> (10,0) -> (10,20)
	if seg, ok := c.SegmentAt(pt(5, 0.5), 1); !ok || seg != 0 {
		t.Errorf("SegmentAt(5, 0.5) = %d, %v", seg, ok)
	}
	if seg, ok := c.SegmentAt(pt(10.5, 12), 1); !ok || seg != 1 {
		t.Errorf("SegmentAt(10.5, 12) = %d, %v", seg, ok)
	}
	if _, ok := c.SegmentAt(pt(5, 10), 1); ok {
		t.Errorf("SegmentAt(5, 10) found a segment")
	}
	if idx, ok := c.AnchorAt(pt(9, 1), 2); !ok || idx != 1 {
		t.Errorf("AnchorAt(9, 1) = %d, %v", idx, ok)
	}
	if !c.IsOrthogonal() {
		t.Errorf("orthogonal connector not reported as such")
	}
	c.SetRouter(StraightRouter{})
	if len(c.Anchors()) != 2 {
		t.Errorf("straight route has %d anchors", len(c.Anchors()))
	}
}
