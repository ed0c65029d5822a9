package math

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2Rotated(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		angle float64
		want  Vec2
	}{
		{"zero", Vec2{1, 0}, 0, Vec2{1, 0}},
		{"quarter", Vec2{1, 0}, math.Pi / 2, Vec2{0, 1}},
		{"half", Vec2{2, 3}, math.Pi, Vec2{-2, -3}},
		{"negative quarter", Vec2{0, 1}, -math.Pi / 2, Vec2{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Rotated(tt.angle)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("Rotated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3AngleZ(t *testing.T) {
	if got := (Vec3{1, 0, 0}).AngleZ(); !near(got, 0) {
		t.Errorf("horizontal AngleZ = %v, want 0", got)
	}
	if got := (Vec3{1, 0, 1}).AngleZ(); !near(got, math.Pi/4) {
		t.Errorf("45 degree AngleZ = %v, want pi/4", got)
	}
}

func TestPlaneGetZ(t *testing.T) {
	floor := HorizontalPlane(32, true)
	if got := floor.GetZ(Vec2{100, -5}); !near(got, 32) {
		t.Errorf("floor GetZ = %v, want 32", got)
	}
	ceil := HorizontalPlane(128, false)
	if got := ceil.GetZ(Vec2{7, 7}); !near(got, 128) {
		t.Errorf("ceiling GetZ = %v, want 128", got)
	}

	slope := PlaneFromPoints(Vec3{0, 0, 0}, Vec3{64, 0, 64}, Vec3{0, 64, 0})
	if got := slope.GetZ(Vec2{32, 10}); !near(got, 32) {
		t.Errorf("slope GetZ = %v, want 32", got)
	}
}

func TestPlaneDistanceAndInvert(t *testing.T) {
	p := HorizontalPlane(10, true)
	if d := p.Distance(Vec3{0, 0, 15}); !near(d, 5) {
		t.Errorf("Distance above = %v, want 5", d)
	}
	inv := p.Inverted()
	if d := inv.Distance(Vec3{0, 0, 15}); !near(d, -5) {
		t.Errorf("inverted Distance = %v, want -5", d)
	}
	if !near(inv.GetZ(Vec2{3, 4}), 10) {
		t.Error("inverted plane should keep its height")
	}
}

func TestPlaneIntersection(t *testing.T) {
	p := HorizontalPlane(0, true)
	u, ok := p.Intersection(Vec3{0, 0, 10}, Vec3{0, 0, 0})
	if !ok || !near(u, 1) {
		t.Errorf("Intersection = %v, %v, want 1, true", u, ok)
	}
	u, ok = p.Intersection(Vec3{0, 0, 10}, Vec3{10, 0, 5})
	if !ok || !near(u, 2) {
		t.Errorf("Intersection = %v, %v, want 2, true", u, ok)
	}
	if _, ok := p.Intersection(Vec3{0, 0, 10}, Vec3{10, 0, 10}); ok {
		t.Error("parallel segment should not intersect")
	}
}

func TestLineSideAndDistance(t *testing.T) {
	l := Line2D{Start: Vec2{0, 0}, End: Vec2{10, 0}}
	if s := l.SideOf(Vec2{5, -1}); s >= 0 {
		t.Errorf("right side should be negative, got %v", s)
	}
	if s := l.SideOf(Vec2{5, 1}); s <= 0 {
		t.Errorf("left side should be positive, got %v", s)
	}
	if d := l.Distance(Vec2{5, 3}); !near(d, 3) {
		t.Errorf("Distance = %v, want 3", d)
	}
	if d := l.Distance(Vec2{13, 4}); !near(d, 5) {
		t.Errorf("Distance past end = %v, want 5", d)
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720.5, 359.5},
	}
	for _, tt := range tests {
		if got := ClampAngle(tt.in); !near(got, tt.want) {
			t.Errorf("ClampAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	l := Line2D{Start: Vec2{0, 0}, End: Vec2{0, -5}}
	if got := RadToDeg(l.Angle()); !near(got, 270) {
		t.Errorf("Angle = %v, want 270", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, m, want float64
	}{
		{5, 64, 5},
		{70, 64, 6},
		{-1, 64, 63},
		{-64, 64, 0},
		{128, 32, 0},
	}
	for _, tt := range tests {
		got := Wrap(tt.v, tt.m)
		if !near(got, tt.want) {
			t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.m, got, tt.want)
		}
		if got < 0 || got >= tt.m {
			t.Errorf("Wrap(%v, %v) = %v out of range", tt.v, tt.m, got)
		}
	}
}
