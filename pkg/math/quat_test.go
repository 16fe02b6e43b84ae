package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(UnitY, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(UnitZ, float32(math.Pi/2))
	got := q.Rotate(UnitX)

	if !got.ApproxEqual(UnitY, 1e-6) {
		t.Errorf("90 deg about Z should take X to Y, got %v", got)
	}
}

func TestQuatMulOrder(t *testing.T) {
	a := QuatFromAxisAngle(UnitZ, 0.8)
	b := QuatFromAxisAngle(UnitX, -0.3)
	v := Vec3{0.2, -1, 3}

	// (a*b) applies b first.
	got := a.Mul(b).Rotate(v)
	want := a.Rotate(b.Rotate(v))
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Mul order: got %v, want %v", got, want)
	}
}

func TestQuatMulAgainstMathGL(t *testing.T) {
	ax := mgl32.Vec3{0, 0, 1}
	bx := mgl32.Vec3{1, 1, 0}.Normalize()
	want := mgl32.QuatRotate(1.2, ax).Mul(mgl32.QuatRotate(0.5, bx))

	got := QuatFromAxisAngle(UnitZ, 1.2).Mul(QuatFromAxisAngle(Vec3{bx[0], bx[1], bx[2]}, 0.5))

	if abs(got.W-want.W) > 1e-5 || abs(got.X-want.V[0]) > 1e-5 ||
		abs(got.Y-want.V[1]) > 1e-5 || abs(got.Z-want.V[2]) > 1e-5 {
		t.Errorf("Mul: got %+v, want %+v", got, want)
	}
}

func TestQuatFromRotationMatrix(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
	}{
		{"identity", QuatIdentity()},
		{"z 60", QuatFromAxisAngle(UnitZ, float32(math.Pi/3))},
		{"x 170", QuatFromAxisAngle(UnitX, float32(170*math.Pi/180))},
		{"y 180", QuatFromAxisAngle(UnitY, float32(math.Pi))},
		{"z 180", QuatFromAxisAngle(UnitZ, float32(math.Pi))},
		{"oblique", QuatFromAxisAngle(Vec3{1, 1, 1}.Normalize(), 2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromRotationMatrix(tt.q.ToMat4())
			if !got.ApproxEqual(tt.q, 1e-5) {
				t.Errorf("got %+v, want %+v", got, tt.q)
			}
		})
	}
}

func TestQuatFromUnitVectors(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec3
	}{
		{"same", UnitY, UnitY},
		{"quarter", UnitY, UnitX},
		{"oblique", UnitY, Vec3{1, 2, -3}.Normalize()},
		{"opposite", UnitY, Vec3{0, -1, 0}},
		{"opposite x", UnitX, Vec3{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromUnitVectors(tt.from, tt.to)
			if got := q.Rotate(tt.from); !got.ApproxEqual(tt.to, 1e-5) {
				t.Errorf("rotated %v to %v, want %v", tt.from, got, tt.to)
			}
		})
	}
}

func TestQuatFromUnitVectorsZeroTarget(t *testing.T) {
	q := QuatFromUnitVectors(UnitY, Vec3{})
	if q != QuatIdentity() {
		t.Errorf("zero target should give identity, got %+v", q)
	}
}

func TestQuatFromEulerYaw(t *testing.T) {
	q := QuatFromEuler(0, float32(math.Pi/2), 0)
	want := QuatFromAxisAngle(UnitY, float32(math.Pi/2))
	if !q.ApproxEqual(want, 1e-6) {
		t.Errorf("pure yaw: got %+v, want %+v", q, want)
	}
}

func TestQuatFromEulerOrder(t *testing.T) {
	pitch, yaw := float32(0.4), float32(-1.1)
	got := QuatFromEuler(pitch, yaw, 0)
	want := QuatFromAxisAngle(UnitY, yaw).Mul(QuatFromAxisAngle(UnitX, pitch))
	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("YXZ order: got %+v, want %+v", got, want)
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 0.6, 0.8}, 2)
	v := Vec3{3, -1, 2}
	if got := q.Conjugate().Rotate(q.Rotate(v)); !got.ApproxEqual(v, 1e-5) {
		t.Errorf("conjugate round trip: got %v, want %v", got, v)
	}
}
