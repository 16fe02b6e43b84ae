// Package primitive builds the unit meshes the fractal is instanced from.
package primitive

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// VertexStride is the number of floats per vertex: position then normal.
const VertexStride = 6

// Mesh is an indexed triangle list with interleaved positions and normals.
// Triangles wind counterclockwise seen from outside.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math.Vec3 {
	v := m.Vertices[i*VertexStride:]
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) math.Vec3 {
	v := m.Vertices[i*VertexStride:]
	return math.Vec3{X: v[3], Y: v[4], Z: v[5]}
}

func (m *Mesh) add(pos, normal math.Vec3) uint32 {
	m.Vertices = append(m.Vertices, pos.X, pos.Y, pos.Z, normal.X, normal.Y, normal.Z)
	return uint32(m.VertexCount() - 1)
}

// Sphere returns a UV sphere of radius 1 centered on the origin.
func Sphere(widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	m := &Mesh{}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		sv, cv := math32.Sincos(v * gomath.Pi)
		grid[iy] = make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			su, cu := math32.Sincos(u * 2 * gomath.Pi)
			p := math.Vec3{X: -cu * sv, Y: cv, Z: su * sv}
			grid[iy][ix] = m.add(p, p)
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// The pole rows would otherwise produce degenerate triangles.
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Cylinder returns a capped cylinder of radius 1 and height 1 along +Y,
// centered on the origin.
func Cylinder(radialSegments int) *Mesh {
	radialSegments = max(radialSegments, 3)
	const half = 0.5

	m := &Mesh{}

	// Side
	var rows [2][]uint32
	for y := 0; y < 2; y++ {
		py := half - float32(y)
		rows[y] = make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			s, c := math32.Sincos(float32(x) / float32(radialSegments) * 2 * gomath.Pi)
			rows[y][x] = m.add(math.Vec3{X: s, Y: py, Z: c}, math.Vec3{X: s, Y: 0, Z: c})
		}
	}
	for x := 0; x < radialSegments; x++ {
		a, b := rows[0][x], rows[1][x]
		c, d := rows[1][x+1], rows[0][x+1]
		m.Indices = append(m.Indices, a, b, d, b, c, d)
	}

	m.addCap(radialSegments, true)
	m.addCap(radialSegments, false)
	return m
}

func (m *Mesh) addCap(radialSegments int, top bool) {
	sign := float32(1)
	if !top {
		sign = -1
	}
	y := sign * 0.5
	normal := math.Vec3{Y: sign}

	center := uint32(m.VertexCount())
	for x := 0; x < radialSegments; x++ {
		m.add(math.Vec3{Y: y}, normal)
	}
	rim := uint32(m.VertexCount())
	for x := 0; x <= radialSegments; x++ {
		s, c := math32.Sincos(float32(x) / float32(radialSegments) * 2 * gomath.Pi)
		m.add(math.Vec3{X: s, Y: y, Z: c}, normal)
	}

	for x := uint32(0); x < uint32(radialSegments); x++ {
		c, i := center+x, rim+x
		if top {
			m.Indices = append(m.Indices, i, i+1, c)
		} else {
			m.Indices = append(m.Indices, i+1, i, c)
		}
	}
}
