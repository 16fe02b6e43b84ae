// Package snapshot renders the fractal in software so that images can be
// produced without a window or GPU.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	gomath "math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"

	"github.com/Faultbox/hexfractal/internal/batch"
	"github.com/Faultbox/hexfractal/internal/config"
	"github.com/Faultbox/hexfractal/internal/engine/lighting"
	"github.com/Faultbox/hexfractal/internal/engine/primitive"
	"github.com/Faultbox/hexfractal/pkg/fractal"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// ErrEmpty is returned when there is nothing to render.
var ErrEmpty = errors.New("no instances to render")

// Options controls a software render.
type Options struct {
	Width       int
	Height      int
	Supersample int

	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3
	FOV    float32 // degrees
	Near   float32
	Far    float32

	SphereSegments   int
	CylinderSegments int

	Rig lighting.Rig
}

// DefaultOptions frames the fractal the way the viewer opens.
func DefaultOptions() Options {
	return Options{
		Width:            1024,
		Height:           768,
		Supersample:      2,
		Eye:              math.Vec3{Z: 40},
		Up:               math.UnitY,
		FOV:              45,
		Near:             0.1,
		Far:              2000,
		SphereSegments:   12,
		CylinderSegments: 8,
		Rig:              lighting.DefaultRig(),
	}
}

// FromConfig applies the snapshot and camera settings to DefaultOptions.
// Zero values keep the defaults.
func FromConfig(snap config.SnapshotConfig, cam config.CameraConfig) Options {
	o := DefaultOptions()
	if snap.Width > 0 {
		o.Width = snap.Width
	}
	if snap.Height > 0 {
		o.Height = snap.Height
	}
	if snap.Supersample > 0 {
		o.Supersample = snap.Supersample
	}
	if cam.FOV > 0 {
		o.FOV = cam.FOV
	}
	if cam.Near > 0 {
		o.Near = cam.Near
	}
	if cam.Far > 0 {
		o.Far = cam.Far
	}
	if cam.Distance > 0 {
		o.Eye = math.Vec3{Z: cam.Distance}
	}
	return o
}

// ViewProjection returns the combined camera matrix of the options.
func (o Options) ViewProjection() math.Mat4 {
	aspect := float32(o.Width) / float32(o.Height)
	proj := math.Perspective(o.FOV*gomath.Pi/180, aspect, o.Near, o.Far)
	return proj.Mul(math.LookAt(o.Eye, o.Target, o.Up))
}

// RenderInstances uploads inst to host buffers and renders them.
func RenderInstances(inst fractal.Instances, opt Options) (image.Image, error) {
	set := batch.NewSet[*batch.HostBuffer](batch.HostAllocator{})
	defer set.Close()

	if err := set.Rebuild(inst); err != nil {
		return nil, err
	}
	return RenderSet(set, opt)
}

// RenderSet renders the current buffers of set.
func RenderSet(set *batch.Set[*batch.HostBuffer], opt Options) (image.Image, error) {
	joints, struts, ok := set.Current()
	if !ok {
		return nil, ErrEmpty
	}
	return Render(joints, struts, opt)
}

// Render draws joint spheres and strut cylinders and returns an image of
// opt.Width x opt.Height, downsampled from the supersampled render.
func Render(joints, struts *batch.HostBuffer, opt Options) (image.Image, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", opt.Width, opt.Height)
	}
	if joints.Len()+struts.Len() == 0 {
		return nil, ErrEmpty
	}
	ss := max(opt.Supersample, 1)

	ctx := fauxgl.NewContext(opt.Width*ss, opt.Height*ss)
	ctx.ClearColorBufferWith(toColor(opt.Rig.Background))
	ctx.ClearDepthBuffer()
	ctx.Cull = fauxgl.CullNone

	matrix := toMatrix(opt.ViewProjection())
	eye := toVector(opt.Eye)

	sphere := primitive.Sphere(opt.SphereSegments, opt.SphereSegments)
	cylinder := primitive.Cylinder(opt.CylinderSegments)

	ctx.Shader = &rigShader{matrix: matrix, eye: eye, rig: &opt.Rig, material: opt.Rig.Joint}
	ctx.DrawMesh(instanceMesh(sphere, joints))

	ctx.Shader = &rigShader{matrix: matrix, eye: eye, rig: &opt.Rig, material: opt.Rig.Strut}
	ctx.DrawMesh(instanceMesh(cylinder, struts))

	img := ctx.Image()
	if ss > 1 {
		img = resize.Resize(uint(opt.Width), uint(opt.Height), img, resize.Bilinear)
	}
	return img, nil
}

// instanceMesh bakes every instance of a unit mesh into one world-space
// triangle mesh. Instances with a collapsed axis are skipped.
func instanceMesh(m *primitive.Mesh, instances *batch.HostBuffer) *fauxgl.Mesh {
	n := instances.Len()
	tris := make([]*fauxgl.Triangle, 0, n*len(m.Indices)/3)
	for i := 0; i < n; i++ {
		xf := instances.At(i)
		if collapsed(xf) {
			continue
		}
		normalXf := normalBasis(xf)
		for k := 0; k < len(m.Indices); k += 3 {
			t := &fauxgl.Triangle{
				V1: vertex(m, int(m.Indices[k]), xf, normalXf),
				V2: vertex(m, int(m.Indices[k+1]), xf, normalXf),
				V3: vertex(m, int(m.Indices[k+2]), xf, normalXf),
			}
			tris = append(tris, t)
		}
	}
	return fauxgl.NewTriangleMesh(tris)
}

func vertex(m *primitive.Mesh, i int, xf, normalXf math.Mat4) fauxgl.Vertex {
	return fauxgl.Vertex{
		Position: toVector(xf.TransformVec3(m.Position(i))),
		Normal:   toVector(normalXf.TransformDirection(m.Normal(i)).Normalize()),
	}
}

// collapsed reports whether any axis of the instance has zero length.
func collapsed(xf math.Mat4) bool {
	_, _, s := xf.Decompose()
	const eps = 1e-9
	return s.X*s.X < eps || s.Y*s.Y < eps || s.Z*s.Z < eps
}

// normalBasis returns the inverse-transpose of the instance's linear part.
func normalBasis(xf math.Mat4) math.Mat4 {
	linear := xf
	linear[12], linear[13], linear[14] = 0, 0, 0
	inv := linear.Inverse()
	var t math.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[c*4+r] = inv[r*4+c]
		}
	}
	return t
}

// rigShader lights fragments with the same model as the GL shader.
type rigShader struct {
	matrix   fauxgl.Matrix
	eye      fauxgl.Vector
	rig      *lighting.Rig
	material lighting.Material
}

func (s *rigShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *rigShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	toEye := s.eye.Sub(v.Position)
	dist := toEye.Length()
	c := s.rig.Shade(s.material, fromVector(v.Normal.Normalize()), fromVector(toEye.Normalize()))
	return toColor(s.rig.Fog(c, float32(dist)))
}

func toVector(v math.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func fromVector(v fauxgl.Vector) math.Vec3 {
	return math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func toColor(c math.Vec3) fauxgl.Color {
	return fauxgl.Color{R: float64(c.X), G: float64(c.Y), B: float64(c.Z), A: 1}
}

// toMatrix converts a column-major matrix to fauxgl's row-major layout.
func toMatrix(m math.Mat4) fauxgl.Matrix {
	return fauxgl.Matrix{
		X00: float64(m[0]), X01: float64(m[4]), X02: float64(m[8]), X03: float64(m[12]),
		X10: float64(m[1]), X11: float64(m[5]), X12: float64(m[9]), X13: float64(m[13]),
		X20: float64(m[2]), X21: float64(m[6]), X22: float64(m[10]), X23: float64(m[14]),
		X30: float64(m[3]), X31: float64(m[7]), X32: float64(m[11]), X33: float64(m[15]),
	}
}
