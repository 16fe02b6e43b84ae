package snapshot

import (
	"image"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hexfractal/internal/batch"
	"github.com/Faultbox/hexfractal/internal/config"
	"github.com/Faultbox/hexfractal/internal/engine/primitive"
	"github.com/Faultbox/hexfractal/pkg/fractal"
	"github.com/Faultbox/hexfractal/pkg/math"
)

func smallOptions() Options {
	opt := DefaultOptions()
	opt.Width, opt.Height = 64, 48
	opt.Eye = math.Vec3{Z: 12}
	return opt
}

func depthZero(t *testing.T) fractal.Instances {
	t.Helper()
	p := fractal.DefaultParams()
	p.Depth = 0
	p.JointRadius = 1
	inst, err := fractal.Generate(p)
	require.NoError(t, err)
	return inst
}

func rgb8(img image.Image, x, y int) [3]int {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
}

func near(a, b [3]int, tol int) bool {
	for i := range a {
		d := a[i] - b[i]
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}

func TestRenderInstances(t *testing.T) {
	opt := smallOptions()
	img, err := RenderInstances(depthZero(t), opt)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	bg := [3]int{0x0b, 0x0b, 0x0f}
	assert.True(t, near(rgb8(img, 0, 0), bg, 2), "corner should show the background, got %v", rgb8(img, 0, 0))
	// The apex joint sits on the view axis.
	assert.False(t, near(rgb8(img, 32, 24), bg, 2), "center should show the apex joint")
}

func TestRenderWithoutSupersample(t *testing.T) {
	opt := smallOptions()
	opt.Supersample = 0
	img, err := RenderInstances(depthZero(t), opt)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestRenderEmpty(t *testing.T) {
	_, err := Render(nil, nil, smallOptions())
	assert.ErrorIs(t, err, ErrEmpty)

	set := batch.NewSet[*batch.HostBuffer](batch.HostAllocator{})
	defer set.Close()
	_, err = RenderSet(set, smallOptions())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRenderInvalidSize(t *testing.T) {
	opt := smallOptions()
	opt.Width = 0
	_, err := RenderInstances(depthZero(t), opt)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmpty)
}

func TestRenderSkipsCollapsedInstances(t *testing.T) {
	sphere := &batch.HostBuffer{Kind: batch.Joints}
	flat := math.Scale(1, 0, 1)
	sphere.Data = append(sphere.Data, flat[:]...)

	mesh := instanceMesh(primitive.Sphere(8, 8), sphere)
	assert.Empty(t, mesh.Triangles)
}

func TestToMatrixMatchesTransform(t *testing.T) {
	m := math.Compose(
		math.Vec3{X: 1, Y: -2, Z: 3},
		math.QuatFromAxisAngle(math.Vec3{X: 1, Y: 1}.Normalize(), 0.7),
		math.Vec3{X: 2, Y: 0.5, Z: 1.5},
	)
	p := math.Vec3{X: 0.3, Y: 4, Z: -1}

	want := m.TransformVec3(p)
	got := fromVector(toMatrix(m).MulPosition(toVector(p)))
	assert.True(t, got.ApproxEqual(want, 1e-4), "got %v want %v", got, want)
}

func TestNormalBasisKeepsNormalsPerpendicular(t *testing.T) {
	// A squashed sphere: the tangent stays perpendicular to the
	// transformed normal only with the inverse-transpose.
	xf := math.Scale(4, 1, 1)
	n := math.Vec3{X: 1, Y: 1}.Normalize()
	tangent := math.Vec3{X: 1, Y: -1}

	nn := normalBasis(xf).TransformDirection(n)
	tt := xf.TransformDirection(tangent)
	assert.InDelta(t, 0, nn.Dot(tt), 1e-5)
}

func TestShaderOutputsClipSpace(t *testing.T) {
	opt := smallOptions()
	s := &rigShader{matrix: toMatrix(opt.ViewProjection())}
	v := s.Vertex(fauxgl.Vertex{Position: fauxgl.Vector{}})
	assert.InDelta(t, 0, v.Output.X/v.Output.W, 1e-6)
	assert.InDelta(t, 0, v.Output.Y/v.Output.W, 1e-6)
}

func TestFromConfig(t *testing.T) {
	opt := FromConfig(config.SnapshotConfig{Width: 320, Height: 200, Supersample: 3},
		config.CameraConfig{FOV: 60, Distance: 25})

	assert.Equal(t, 320, opt.Width)
	assert.Equal(t, 200, opt.Height)
	assert.Equal(t, 3, opt.Supersample)
	assert.Equal(t, float32(60), opt.FOV)
	assert.Equal(t, math.Vec3{Z: 25}, opt.Eye)
	// Unset values keep the defaults.
	assert.Equal(t, float32(0.1), opt.Near)
	assert.Equal(t, float32(2000), opt.Far)
}
