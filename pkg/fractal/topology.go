// Package fractal generates instance transforms for the hexagonal
// branching fractal: a fixed seven-anchor base shape repeated recursively
// along six growth directions.
package fractal

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hexfractal/pkg/math"
)

const (
	// HexRadius is the distance of every anchor from the shape's origin.
	HexRadius = 3

	// RingSize is the number of anchors on the hexagon ring.
	RingSize = 6

	// ApexIndex is the anchor index of the apex above the ring.
	ApexIndex = 6
)

// Edge is an ordered pair of anchor indices joined by a strut.
type Edge struct {
	A, B int
}

var (
	anchorPoints     = buildAnchorPoints()
	edges            = buildEdges()
	growthDirections = buildGrowthDirections()
)

// AnchorPoints returns the seven anchor offsets of the base shape:
// six ring points at i*60+90 degrees followed by the apex on +Z.
func AnchorPoints() []math.Vec3 {
	return append([]math.Vec3(nil), anchorPoints...)
}

// Edges returns the eight struts of the base shape: the six ring edges
// then the two apex edges.
//
// The second apex edge joins the apex to itself. This matches the shape
// the fractal has always been drawn with and yields a zero-length strut.
func Edges() []Edge {
	return append([]Edge(nil), edges...)
}

// GrowthDirections returns one rotation per ring anchor, (i+1)*60 degrees
// about +Z, that orients the child subtree grown from that anchor.
func GrowthDirections() []math.Quat {
	return append([]math.Quat(nil), growthDirections...)
}

func buildAnchorPoints() []math.Vec3 {
	points := make([]math.Vec3, 0, RingSize+1)
	for i := 0; i < RingSize; i++ {
		angle := float32(i)*gomath.Pi/3 + gomath.Pi/2
		s, c := math32.Sincos(angle)
		points = append(points, math.Vec3{X: c * HexRadius, Y: s * HexRadius, Z: 0})
	}
	return append(points, math.Vec3{X: 0, Y: 0, Z: HexRadius})
}

func buildEdges() []Edge {
	e := make([]Edge, 0, RingSize+2)
	for i := 0; i < RingSize; i++ {
		e = append(e, Edge{A: i, B: (i + 1) % RingSize})
	}
	for i := RingSize - 1; i <= ApexIndex; i++ {
		e = append(e, Edge{A: ApexIndex, B: i})
	}
	return e
}

func buildGrowthDirections() []math.Quat {
	dirs := make([]math.Quat, 0, RingSize)
	for i := 1; i <= RingSize; i++ {
		dirs = append(dirs, math.QuatFromAxisAngle(math.UnitZ, float32(i)*gomath.Pi/3))
	}
	return dirs
}
