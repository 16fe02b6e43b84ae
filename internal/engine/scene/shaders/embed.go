// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// InstancedVertexShader transforms a unit mesh by a per-instance model matrix.
//
//go:embed instanced.vert
var InstancedVertexShader string

// InstancedFragmentShader lights instances with the directional rig and fog.
//
//go:embed instanced.frag
var InstancedFragmentShader string
