package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/hexfractal/pkg/math"
)

func TestHexColor(t *testing.T) {
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, HexColor(0xffffff))
	assert.Equal(t, math.Vec3{}, HexColor(0))
	c := HexColor(0x8a6eff)
	assert.InDelta(t, 138.0/255, c.X, 1e-6)
	assert.InDelta(t, 110.0/255, c.Y, 1e-6)
	assert.InDelta(t, 1, c.Z, 1e-6)
}

func TestDefaultRig(t *testing.T) {
	r := DefaultRig()
	assert.Len(t, r.Lights, 2)
	assert.LessOrEqual(t, len(r.Lights), MaxLights)
	assert.Equal(t, float32(0.02), r.FogDensity)
	assert.Equal(t, HexColor(0x220044), r.Joint.Emissive)
}

func TestShadeFacingAway(t *testing.T) {
	r := Rig{
		Lights: []Light{{Position: math.Vec3{Y: 10}, Color: math.One3, Intensity: 1}},
	}
	m := Material{Color: math.One3, Emissive: math.Vec3{X: 0.1}, Roughness: 1}

	// Only emission remains on the dark side.
	c := r.Shade(m, math.Vec3{Y: -1}, math.Vec3{Z: 1})
	assert.True(t, c.ApproxEqual(math.Vec3{X: 0.1}, 1e-6), "got %v", c)
}

func TestShadeLambert(t *testing.T) {
	r := Rig{
		Lights: []Light{{Position: math.Vec3{Y: 10}, Color: math.One3, Intensity: 0.5}},
	}
	m := Material{Color: math.Vec3{X: 1, Y: 0.5, Z: 0}, Roughness: 1}

	lit := r.Shade(m, math.Vec3{Y: 1}, math.Vec3{Z: 1})
	grazing := r.Shade(m, math.Vec3{X: 0.6, Y: 0.8}, math.Vec3{Z: 1})

	// Diffuse plus a faint dielectric highlight.
	assert.InDelta(t, 0.5, lit.X, 0.03)
	assert.InDelta(t, 0.25, lit.Y, 0.03)
	assert.Less(t, grazing.X, lit.X)
}

func TestShadeSaturates(t *testing.T) {
	r := DefaultRig()
	c := r.Shade(r.Joint, math.Vec3{X: 1, Y: 1, Z: 1}.Normalize(), math.Vec3{X: 1, Y: 1, Z: 1}.Normalize())
	for _, v := range []float32{c.X, c.Y, c.Z} {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
	// Looking straight down the main light gives a highlight.
	assert.Greater(t, c.X, float32(0.9))
}

func TestShininess(t *testing.T) {
	smooth := Material{Roughness: 0.1}.Shininess()
	rough := Material{Roughness: 0.8}.Shininess()
	assert.Greater(t, smooth, rough)
	assert.LessOrEqual(t, Material{Roughness: 0}.Shininess(), float32(1024))
}

func TestFog(t *testing.T) {
	r := Rig{Background: math.Vec3{X: 0, Y: 0, Z: 1}, FogDensity: 0.02}
	white := math.One3

	assert.Equal(t, white, r.Fog(white, 0))

	far := r.Fog(white, 10000)
	assert.True(t, far.ApproxEqual(r.Background, 1e-4), "got %v", far)

	// At 50 units: 1 - exp(-1) of the way to the background.
	mid := r.Fog(white, 50)
	assert.InDelta(t, 0.3679, mid.X, 1e-3)
}
