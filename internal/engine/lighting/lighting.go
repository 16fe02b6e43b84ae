// Package lighting describes the fractal's light rig and materials and
// evaluates them on the CPU. The instanced GLSL shader mirrors Shade and
// Fog so that software snapshots match the live view.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// MaxLights is the number of directional lights the shader accepts.
const MaxLights = 4

// HexColor converts 0xRRGGBB to an RGB vector in [0,1].
func HexColor(c uint32) math.Vec3 {
	return math.Vec3{
		X: float32(c>>16&0xff) / 255,
		Y: float32(c>>8&0xff) / 255,
		Z: float32(c&0xff) / 255,
	}
}

// Light is a directional light shining from Position toward the origin.
type Light struct {
	Position  math.Vec3
	Color     math.Vec3
	Intensity float32
}

// Direction returns the unit vector from the origin toward the light.
func (l Light) Direction() math.Vec3 {
	return l.Position.Normalize()
}

// Radiance returns the light color scaled by its intensity.
func (l Light) Radiance() math.Vec3 {
	return l.Color.Scale(l.Intensity)
}

// Material is a metal/roughness surface description.
type Material struct {
	Color     math.Vec3
	Emissive  math.Vec3
	Metalness float32
	Roughness float32
}

// Shininess maps roughness to a Blinn-Phong exponent.
func (m Material) Shininess() float32 {
	r := math32.Max(m.Roughness, 0.05)
	return math32.Max(1, math32.Min(2/(r*r*r*r)-2, 1024))
}

// Specular returns the reflectance at normal incidence.
func (m Material) Specular() math.Vec3 {
	return math.Vec3{X: 0.04, Y: 0.04, Z: 0.04}.Lerp(m.Color, m.Metalness)
}

// Rig is the full lighting environment of the scene.
type Rig struct {
	Background       math.Vec3
	FogDensity       float32
	Ambient          math.Vec3
	AmbientIntensity float32
	Lights           []Light

	Joint Material
	Strut Material
}

// DefaultRig returns the dark violet-rimmed look the fractal is shown in.
func DefaultRig() Rig {
	return Rig{
		Background:       HexColor(0x0b0b0f),
		FogDensity:       0.02,
		Ambient:          HexColor(0x404040),
		AmbientIntensity: 2,
		Lights: []Light{
			{Position: math.Vec3{X: 10, Y: 10, Z: 10}, Color: HexColor(0xffffff), Intensity: 2},
			{Position: math.Vec3{X: -10, Y: 0, Z: -5}, Color: HexColor(0x8a6eff), Intensity: 2},
		},
		Joint: Material{
			Color:     HexColor(0xffffff),
			Emissive:  HexColor(0x220044),
			Metalness: 0.9,
			Roughness: 0.1,
		},
		Strut: Material{
			Color:     HexColor(0x222222),
			Metalness: 0.5,
			Roughness: 0.8,
		},
	}
}

// Shade returns the lit color of a surface point, before fog. normal and
// toEye must be unit vectors.
func (r *Rig) Shade(m Material, normal, toEye math.Vec3) math.Vec3 {
	diffuse := m.Color.Scale(1 - m.Metalness)
	spec := m.Specular()
	shininess := m.Shininess()

	c := mul(diffuse, r.Ambient.Scale(r.AmbientIntensity))
	for i, l := range r.Lights {
		if i == MaxLights {
			break
		}
		dir := l.Direction()
		ndotl := normal.Dot(dir)
		if ndotl <= 0 {
			continue
		}
		radiance := l.Radiance().Scale(ndotl)
		c = c.Add(mul(diffuse, radiance))

		half := dir.Add(toEye).Normalize()
		s := math32.Pow(math32.Max(normal.Dot(half), 0), shininess)
		c = c.Add(mul(spec, radiance).Scale(s))
	}
	return saturate(c.Add(m.Emissive))
}

// Fog blends color toward the background by exponential-squared fog.
func (r *Rig) Fog(color math.Vec3, distance float32) math.Vec3 {
	d := r.FogDensity * distance
	f := 1 - math32.Exp(-d*d)
	return color.Lerp(r.Background, math32.Max(0, math32.Min(1, f)))
}

func mul(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func saturate(c math.Vec3) math.Vec3 {
	clamp := func(f float32) float32 { return math32.Max(0, math32.Min(1, f)) }
	return math.Vec3{X: clamp(c.X), Y: clamp(c.Y), Z: clamp(c.Z)}
}
