package fractal

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// ErrBudgetExceeded is returned when a generation pass would produce more
// instances than its budget allows.
var ErrBudgetExceeded = errors.New("instance budget exceeded")

// MaxInstances is the default instance budget: the total produced at
// MaxDepth.
var MaxInstances = func() int {
	j, s := Counts(MaxDepth)
	return j + s
}()

// Instances is the output of a generation pass. Joints hold sphere
// transforms and Struts hold cylinder transforms, both in pre-order of
// the node tree.
type Instances struct {
	Joints []math.Mat4
	Struts []math.Mat4
}

// Len returns the total number of instances.
func (in Instances) Len() int {
	return len(in.Joints) + len(in.Struts)
}

// Counts returns how many joints and struts Generate produces at depth.
// Node counts grow as 6^level. Results saturate at the largest int.
func Counts(depth int) (joints, struts int) {
	if depth < 0 {
		depth = 0
	}
	nodes := 0 // nodes at levels 1..depth
	level := 1
	for l := 1; l <= depth; l++ {
		if level > gomath.MaxInt/(RingSize*(RingSize+2)) {
			return gomath.MaxInt, gomath.MaxInt
		}
		level *= RingSize
		nodes += level
	}
	if nodes > gomath.MaxInt/(RingSize+2)-1 {
		return gomath.MaxInt, gomath.MaxInt
	}
	joints = len(anchorPoints) + RingSize*nodes
	struts = len(edges) * (1 + nodes)
	return joints, struts
}

// Generate runs a generation pass with the default budget.
func Generate(p Params) (Instances, error) {
	return GenerateWithBudget(p, MaxInstances)
}

// GenerateWithBudget runs a generation pass, refusing before any
// allocation when the predicted instance count exceeds maxInstances.
//
// Parameters are used as given. Out-of-range values produce degenerate
// instances rather than errors; a negative depth is treated as zero.
func GenerateWithBudget(p Params, maxInstances int) (Instances, error) {
	depth := p.Depth
	if depth < 0 {
		depth = 0
	}

	nj, ns := Counts(depth)
	if nj > maxInstances || ns > maxInstances-nj {
		return Instances{}, fmt.Errorf("depth %d needs %d+%d instances, budget %d: %w",
			p.Depth, nj, ns, maxInstances, ErrBudgetExceeded)
	}

	g := generator{
		params: p,
		depth:  depth,
		out: Instances{
			Joints: make([]math.Mat4, 0, nj),
			Struts: make([]math.Mat4, 0, ns),
		},
	}
	g.run()
	return g.out, nil
}

// frame is one pending node of the tree.
type frame struct {
	level     int
	transform math.Mat4
	rotation  math.Quat
	scale     float32
}

type generator struct {
	params Params
	depth  int
	stack  []frame
	world  [RingSize + 1]math.Vec3
	out    Instances
}

func (g *generator) run() {
	g.stack = append(g.stack[:0], frame{
		transform: math.Identity(),
		rotation:  math.QuatIdentity(),
		scale:     1,
	})
	for len(g.stack) > 0 {
		f := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
		g.visit(f)
	}
}

// visit emits the instances of one node and schedules its children.
func (g *generator) visit(f frame) {
	scale := g.params.BaseScale * f.scale

	for i, a := range anchorPoints {
		g.world[i] = f.transform.TransformVec3(a.Scale(scale))
	}

	joint := g.params.JointRadius * scale
	for i := range anchorPoints {
		if i == ApexIndex && f.level > 0 {
			continue
		}
		g.out.Joints = append(g.out.Joints,
			math.Compose(g.world[i], math.QuatIdentity(), math.Vec3{X: joint, Y: joint, Z: joint}))
	}

	strut := g.params.StrutRadius * scale
	for _, e := range edges {
		g.out.Struts = append(g.out.Struts, StrutTransform(g.world[e.A], g.world[e.B], strut))
	}

	if f.level >= g.depth {
		return
	}

	next := f.scale * g.params.ScaleReduction
	offset := math.Vec3{Z: -HexRadius}.Scale(g.params.BaseScale * next)

	// Pushed in reverse so children pop in anchor order.
	for i := RingSize - 1; i >= 0; i-- {
		rot := f.rotation.Mul(growthDirections[i])
		pos := g.world[i].Add(rot.Rotate(offset))
		g.stack = append(g.stack, frame{
			level:     f.level + 1,
			transform: math.Compose(pos, rot, math.One3),
			rotation:  rot,
			scale:     next,
		})
	}
}

// StrutTransform returns the transform that stretches a unit cylinder
// (radius 1, height 1 along +Y, centered on the origin) between a and b.
// Coincident endpoints give a zero-length strut with identity rotation.
func StrutTransform(a, b math.Vec3, radius float32) math.Mat4 {
	dir := b.Sub(a)
	rot := math.QuatFromUnitVectors(math.UnitY, dir.Normalize())
	return math.Compose(a.Midpoint(b), rot, math.Vec3{X: radius, Y: dir.Length(), Z: radius})
}
