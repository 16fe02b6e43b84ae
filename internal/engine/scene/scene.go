// Package scene draws the instanced fractal: joints as spheres and struts
// as cylinders under the lighting rig.
package scene

import (
	"fmt"

	"github.com/Faultbox/hexfractal/internal/engine/instancing"
	"github.com/Faultbox/hexfractal/internal/engine/lighting"
	"github.com/Faultbox/hexfractal/internal/engine/primitive"
	"github.com/Faultbox/hexfractal/internal/engine/scene/shaders"
	"github.com/Faultbox/hexfractal/internal/engine/shader"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// Mesh resolution of the instanced primitives.
const (
	SphereSegments   = 16
	CylinderSegments = 8
)

// Scene manages the fractal's GPU meshes and shader.
type Scene struct {
	Rig lighting.Rig

	program  *shader.Program
	sphere   *instancing.Mesh
	cylinder *instancing.Mesh
}

// New compiles the shader and uploads the unit meshes. Requires a current
// GL context.
func New(rig lighting.Rig) (*Scene, error) {
	program, err := shader.NewProgram(shaders.InstancedVertexShader, shaders.InstancedFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("instanced shader: %w", err)
	}

	return &Scene{
		Rig:      rig,
		program:  program,
		sphere:   instancing.NewMesh(primitive.Sphere(SphereSegments, SphereSegments)),
		cylinder: instancing.NewMesh(primitive.Cylinder(CylinderSegments)),
	}, nil
}

// Close releases GPU resources.
func (s *Scene) Close() {
	s.sphere.Delete()
	s.cylinder.Delete()
	s.program.Delete()
}

// Draw renders both instance buffers. Either may be nil.
func (s *Scene) Draw(view, projection math.Mat4, eye math.Vec3, joints, struts *instancing.Buffer) {
	p := s.program
	p.Use()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", projection)
	p.SetVec3("uEye", eye)
	p.SetVec3("uAmbient", s.Rig.Ambient.Scale(s.Rig.AmbientIntensity))
	p.SetVec3("uFogColor", s.Rig.Background)
	p.SetFloat("uFogDensity", s.Rig.FogDensity)

	n := min(len(s.Rig.Lights), lighting.MaxLights)
	p.SetInt("uLightCount", int32(n))
	for i, l := range s.Rig.Lights[:n] {
		p.SetVec3(fmt.Sprintf("uLightDir[%d]", i), l.Direction())
		p.SetVec3(fmt.Sprintf("uLightRadiance[%d]", i), l.Radiance())
	}

	s.setMaterial(s.Rig.Joint)
	s.sphere.Draw(joints)

	s.setMaterial(s.Rig.Strut)
	s.cylinder.Draw(struts)
}

func (s *Scene) setMaterial(m lighting.Material) {
	s.program.SetVec3("uDiffuse", m.Color.Scale(1-m.Metalness))
	s.program.SetVec3("uSpecular", m.Specular())
	s.program.SetVec3("uEmissive", m.Emissive)
	s.program.SetFloat("uShininess", m.Shininess())
}
