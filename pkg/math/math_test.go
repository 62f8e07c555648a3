package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
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

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	got := Vec3{}.Normalize()
	if got != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero vector", got)
	}
}

func TestVec3Reflect(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		n    Vec3
		want Vec3
	}{
		{"head-on", Vec3{1, 0, 0}, Vec3{1, 0, 0}, Vec3{-1, 0, 0}},
		{"grazing", Vec3{1, 1, 0}, Vec3{0, 1, 0}, Vec3{1, -1, 0}},
		{"parallel to plane", Vec3{0, 0, 1}, Vec3{1, 0, 0}, Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Reflect(tt.n); got != tt.want {
				t.Errorf("Reflect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3ReflectInvolution(t *testing.T) {
	v := Vec3{0.3, -1.7, 2.2}
	n := Vec3{0, 0, 1}
	got := v.Reflect(n).Reflect(n)
	if got.Sub(v).Length() > 1e-6 {
		t.Errorf("Reflect twice = %v, want %v", got, v)
	}
	// Reflecting across -n must give the same result as across n.
	if v.Reflect(n) != v.Reflect(n.Neg()) {
		t.Error("Reflect should be sign-invariant in the normal")
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.Mul(Identity())
	if got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
}

func TestMat4TransformPoint(t *testing.T) {
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 2, 2}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
}

func TestLookAtForward(t *testing.T) {
	// Camera at origin looking down -Z: view transform of a point ahead
	// must land on the negative view-space Z axis.
	view := LookAt(Vec3{}, Vec3{0, 0, -1}, Vec3{0, 1, 0})
	p := view.TransformPoint(Vec3{0, 0, -5})
	if p.X != 0 || p.Y != 0 || p.Z >= 0 {
		t.Errorf("LookAt transform = %v, want on -Z axis", p)
	}
}
