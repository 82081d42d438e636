package geom

import (
	"math"
	"testing"
)

func square(x, y, size float64) []Segment {
	a, b, c, d := Pt(x, y), Pt(x+size, y), Pt(x+size, y+size), Pt(x, y+size)
	return []Segment{{a, b}, {b, c}, {c, d}, {d, a}}
}

func TestSignedArea(t *testing.T) {
	if got := SignedArea(square(0, 0, 2)); got != 4 {
		t.Errorf("SignedArea(ccw square) = %v, want 4", got)
	}

	segs := square(0, 0, 2)
	rev := make([]Segment, len(segs))
	for i, s := range segs {
		rev[len(segs)-1-i] = Segment{Start: s.End, End: s.Start}
	}
	if got := SignedArea(rev); got != -4 {
		t.Errorf("SignedArea(cw square) = %v, want -4", got)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		segs   []Segment
		want   Point
		wantOK bool
	}{
		{"unit square", square(0, 0, 1), Pt(0.5, 0.5), true},
		{"offset square", square(10, 20, 4), Pt(12, 22), true},
		{"empty", nil, Point{}, false},
		{"collapsed", []Segment{{Pt(0, 0), Pt(1, 1)}, {Pt(1, 1), Pt(0, 0)}}, Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Centroid(tt.segs)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("Centroid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	b := Rect(0, 0, 10, 5)
	if !b.Valid() {
		t.Error("Rect(0,0,10,5) should be valid")
	}
	if b.Width() != 10 || b.Height() != 5 {
		t.Errorf("size = %vx%v, want 10x5", b.Width(), b.Height())
	}
	if !b.Contains(Pt(10, 5)) {
		t.Error("Contains should include the edges")
	}
	if b.Contains(Pt(10.1, 0)) {
		t.Error("Contains should reject points outside")
	}
	if (Bounds{}).Valid() {
		t.Error("zero bounds should not be valid")
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {0.3, 0.3}, {2, 1}} {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
