package bend

import "seehuhn.de/go/geom/vec"

// ResolveBendPoint decides what a bend point dropped at the local position p
// becomes. Unless canConnect is set the result is static. Otherwise the
// elements under p are searched, nearest first, for one that can provide an
// anchor; the connector itself is skipped. The first such element becomes the
// anchorage of the returned bend point.
func ResolveBendPoint(conn Connection, hit HitTester, p vec.Vec2, canConnect bool) BendPoint {
	if !canConnect || hit == nil {
		return Static(p)
	}
	self := conn.Model()
	for _, el := range hit.ElementsAt(conn.LocalToScene(p)) {
		model := el.Model()
		if model == nil || model == self {
			continue
		}
		if ap, ok := el.(AnchorProvider); ok && ap.CanProvideAnchor() {
			return Attached(p, model)
		}
	}
	return Static(p)
}
