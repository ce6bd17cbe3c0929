package bend

import (
	"errors"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func anchorsOf(kinds ...AnchorKind) []Anchor {
	res := make([]Anchor, len(kinds))
	for i, k := range kinds {
		res[i] = Anchor{Kind: k, Position: vec.Vec2{X: float64(10 * i)}}
	}
	return res
}

func TestConnectionIndex(t *testing.T) {
	anchors := anchorsOf(Explicit, Implicit, Implicit, Explicit, Implicit, Explicit)

	tests := []struct {
		explicit int
		want     int
		wantErr  bool
	}{
		{explicit: 0, want: 0},
		{explicit: 1, want: 3},
		{explicit: 2, want: 5},
		{explicit: 3, wantErr: true},
		{explicit: -1, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ConnectionIndex(anchors, tt.explicit)
		if tt.wantErr {
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("ConnectionIndex(%d): expected ErrIndexOutOfRange, got %v", tt.explicit, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ConnectionIndex(%d): %v", tt.explicit, err)
		}
		if got != tt.want {
			t.Errorf("ConnectionIndex(%d) = %d, want %d", tt.explicit, got, tt.want)
		}
	}
}

func TestExplicitIndexRounding(t *testing.T) {
	anchors := anchorsOf(Explicit, Implicit, Implicit, Explicit, Implicit, Explicit)

	tests := []struct {
		conn       int
		wantBefore int
		wantAfter  int
	}{
		{conn: 0, wantBefore: 0, wantAfter: 0},
		{conn: 1, wantBefore: 0, wantAfter: 1},
		{conn: 2, wantBefore: 0, wantAfter: 1},
		{conn: 3, wantBefore: 1, wantAfter: 1},
		{conn: 4, wantBefore: 1, wantAfter: 2},
		{conn: 5, wantBefore: 2, wantAfter: 2},
	}

	for _, tt := range tests {
		before, err := ExplicitIndexAtOrBefore(anchors, tt.conn)
		if err != nil {
			t.Fatalf("ExplicitIndexAtOrBefore(%d): %v", tt.conn, err)
		}
		after, err := ExplicitIndexAtOrAfter(anchors, tt.conn)
		if err != nil {
			t.Fatalf("ExplicitIndexAtOrAfter(%d): %v", tt.conn, err)
		}
		if before != tt.wantBefore || after != tt.wantAfter {
			t.Errorf("connection index %d: got (%d, %d), want (%d, %d)",
				tt.conn, before, after, tt.wantBefore, tt.wantAfter)
		}
	}
}

func TestExplicitIndexRoundTrip(t *testing.T) {
	anchors := anchorsOf(Explicit, Implicit, Explicit, Explicit, Implicit, Implicit, Explicit)
	for i := 0; i < explicitCount(anchors); i++ {
		ci, err := ConnectionIndex(anchors, i)
		if err != nil {
			t.Fatal(err)
		}
		back, err := ExplicitIndexAtOrBefore(anchors, ci)
		if err != nil {
			t.Fatal(err)
		}
		if back != i {
			t.Errorf("explicit %d -> connection %d -> explicit %d", i, ci, back)
		}
	}
}

func TestImplicitFirstAnchorIsInvariantViolation(t *testing.T) {
	anchors := anchorsOf(Implicit, Explicit)

	if _, err := ExplicitIndexAtOrBefore(anchors, 0); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
	if err := checkEndpoints(anchors); !errors.Is(err, ErrInvariant) {
		t.Errorf("checkEndpoints: expected ErrInvariant, got %v", err)
	}
	if _, err := ExplicitIndexAtOrAfter(anchorsOf(Explicit, Implicit), 1); !errors.Is(err, ErrInvariant) {
		t.Errorf("trailing implicit anchor: expected ErrInvariant, got %v", err)
	}
}

func TestIsRedundant(t *testing.T) {
	tests := []struct {
		name            string
		prev, cur, next vec.Vec2
		want            bool
	}{
		{"collinear horizontal", vec.Vec2{X: 0}, vec.Vec2{X: 5}, vec.Vec2{X: 10}, true},
		{"collinear vertical", vec.Vec2{Y: 0}, vec.Vec2{Y: 5}, vec.Vec2{Y: -3}, true},
		{"corner", vec.Vec2{X: 0}, vec.Vec2{X: 5}, vec.Vec2{X: 5, Y: 5}, false},
		{"degenerate incoming", vec.Vec2{X: 5}, vec.Vec2{X: 5}, vec.Vec2{X: 5, Y: 5}, true},
		{"within tolerance", vec.Vec2{X: 0}, vec.Vec2{X: 5, Y: 0.4}, vec.Vec2{X: 10}, true},
		{"diagonal collinear", vec.Vec2{}, vec.Vec2{X: 3, Y: 3}, vec.Vec2{X: 6, Y: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRedundant(tt.prev, tt.cur, tt.next); got != tt.want {
				t.Errorf("isRedundant = %v, want %v", got, tt.want)
			}
		})
	}
}
