package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformVec3(Vec3{1, 2, 3})

	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformDirection(Vec3{0, 1, 0})
	if got != (Vec3{0, 1, 0}) {
		t.Errorf("TransformDirection: got %v, want (0, 1, 0)", got)
	}
}

func TestComposeMatchesTRS(t *testing.T) {
	pos := Vec3{1.5, -2, 4}
	rot := QuatFromAxisAngle(Vec3{0, 0.6, 0.8}, 1.1)
	scale := Vec3{0.5, 2, 3}

	got := Compose(pos, rot, scale)
	want := Translate(pos.X, pos.Y, pos.Z).Mul(rot.ToMat4()).Mul(Scale(scale.X, scale.Y, scale.Z))

	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestComposeAgainstMathGL(t *testing.T) {
	axis := mgl32.Vec3{1, 2, 2}.Normalize()
	angle := float32(0.7)

	want := mgl32.Translate3D(3, 4, 5).
		Mul4(mgl32.QuatRotate(angle, axis).Mat4()).
		Mul4(mgl32.Scale3D(2, 2, 2))

	got := Compose(Vec3{3, 4, 5}, QuatFromAxisAngle(Vec3{axis[0], axis[1], axis[2]}, angle), Vec3{2, 2, 2})

	for i := 0; i < 16; i++ {
		if abs(got[i]-want[i]) > 1e-5 {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	pos := Vec3{-7, 0.25, 9}
	rot := QuatFromAxisAngle(UnitZ, float32(math.Pi/3))
	scale := Vec3{0.3, 4, 1}

	p, r, s := Compose(pos, rot, scale).Decompose()

	if !p.ApproxEqual(pos, 1e-5) {
		t.Errorf("position: got %v, want %v", p, pos)
	}
	if !s.ApproxEqual(scale, 1e-5) {
		t.Errorf("scale: got %v, want %v", s, scale)
	}
	if !r.ApproxEqual(rot, 1e-5) {
		t.Errorf("rotation: got %v, want %v", r, rot)
	}
}

func TestDecomposeNegativeScale(t *testing.T) {
	_, _, s := Scale(-2, 1, 1).Decompose()
	if abs(s.X+2) > 1e-6 {
		t.Errorf("negative determinant should fold into X scale, got %v", s)
	}
}

func TestDecomposeCollapsedAxes(t *testing.T) {
	pos := Vec3{1, 2, 3}
	rot := QuatFromAxisAngle(Vec3{1, 1, 0}.Normalize(), 0.7)

	tests := []struct {
		name  string
		scale Vec3
		want  Quat
	}{
		{"zero y", Vec3{0.5, 0, 0.5}, rot},
		{"zero x", Vec3{0, 2, 3}, rot},
		{"zero z", Vec3{1, 1, 0}, rot},
		{"only y", Vec3{0, 4, 0}, QuatFromUnitVectors(UnitY, rot.Rotate(UnitY))},
		{"all zero", Vec3{}, QuatIdentity()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r, s := Compose(pos, rot, tt.scale).Decompose()

			if !p.ApproxEqual(pos, 1e-5) {
				t.Errorf("position: got %v, want %v", p, pos)
			}
			if !s.ApproxEqual(tt.scale, 1e-5) {
				t.Errorf("scale: got %v, want %v", s, tt.scale)
			}
			if n := abs(r.Dot(r) - 1); n > 1e-5 {
				t.Errorf("rotation %v is not unit length", r)
			}
			if !r.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("rotation: got %v, want %v", r, tt.want)
			}
		})
	}
}

func TestDecomposeCollapsedStrutKeepsDirection(t *testing.T) {
	// A strut with zero radius still points along its axis.
	dir := Vec3{0, 0, -1}
	rot := QuatFromUnitVectors(UnitY, dir)
	_, r, _ := Compose(Vec3{}, rot, Vec3{0, 3, 0}).Decompose()

	if got := r.Rotate(UnitY); !got.ApproxEqual(dir, 1e-5) {
		t.Errorf("axis: got %v, want %v", got, dir)
	}
}

func TestRotationIgnoresScale(t *testing.T) {
	rot := QuatFromAxisAngle(UnitY, 0.4)
	m := Compose(Vec3{1, 1, 1}, rot, Vec3{5, 5, 5})

	if got := m.Rotation(); !got.ApproxEqual(rot, 1e-5) {
		t.Errorf("Rotation: got %v, want %v", got, rot)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(Vec3{1, 2, 3}, QuatFromAxisAngle(UnitX, 0.9), Vec3{2, 2, 2})
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, UnitY)

	// The eye lands at the origin of view space.
	if got := m.TransformVec3(Vec3{0, 0, 5}); !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt eye: got %v, want origin", got)
	}
	// The target sits straight ahead on -Z.
	if got := m.TransformVec3(Vec3{}); !got.ApproxEqual(Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("LookAt center: got %v, want (0, 0, -5)", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
