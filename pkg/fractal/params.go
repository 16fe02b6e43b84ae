package fractal

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrOutOfRange is returned by Params.Validate for a field outside its range.
var ErrOutOfRange = errors.New("parameter out of range")

// MaxDepth is the deepest recursion the parameter ranges allow.
const MaxDepth = 6

// Params are the tunables of a generation pass.
type Params struct {
	Depth          int     `yaml:"depth"`
	BaseScale      float32 `yaml:"base_scale"`
	ScaleReduction float32 `yaml:"scale_reduction"`
	JointRadius    float32 `yaml:"joint_radius"`
	StrutRadius    float32 `yaml:"strut_radius"`
}

// DefaultParams returns the parameters the fractal opens with.
func DefaultParams() Params {
	return Params{
		Depth:          2,
		BaseScale:      1,
		ScaleReduction: 0.5,
		JointRadius:    0.3,
		StrutRadius:    0.15,
	}
}

// Field identifies one tunable of Params.
type Field int

const (
	FieldDepth Field = iota
	FieldBaseScale
	FieldScaleReduction
	FieldJointRadius
	FieldStrutRadius
)

// Range describes the allowed values of a field.
type Range struct {
	Field Field
	Name  string // config key
	Label string // display name
	Min   float32
	Max   float32
	Step  float32
}

var ranges = []Range{
	{FieldDepth, "depth", "Depth", 0, MaxDepth, 1},
	{FieldBaseScale, "base_scale", "Base Size", 0.5, 3, 0.1},
	{FieldScaleReduction, "scale_reduction", "Scale Reduction", 0, 3, 0.001},
	{FieldJointRadius, "joint_radius", "Joint Size", 0, 1, 0.01},
	{FieldStrutRadius, "strut_radius", "Stick Thickness", 0, 0.5, 0.01},
}

// Ranges returns the range table in display order.
func Ranges() []Range {
	return append([]Range(nil), ranges...)
}

// RangeOf returns the range of a single field.
func RangeOf(f Field) Range {
	return ranges[f]
}

// Clamp limits v to the range.
func (r Range) Clamp(v float32) float32 {
	return math32.Max(r.Min, math32.Min(r.Max, v))
}

// Snap rounds v to the nearest step above Min and clamps it.
func (r Range) Snap(v float32) float32 {
	if r.Step <= 0 {
		return r.Clamp(v)
	}
	steps := math32.Round((v - r.Min) / r.Step)
	return r.Clamp(r.Min + steps*r.Step)
}

// Get returns a field as a float.
func (p Params) Get(f Field) float32 {
	switch f {
	case FieldDepth:
		return float32(p.Depth)
	case FieldBaseScale:
		return p.BaseScale
	case FieldScaleReduction:
		return p.ScaleReduction
	case FieldJointRadius:
		return p.JointRadius
	case FieldStrutRadius:
		return p.StrutRadius
	}
	return 0
}

// With returns a copy of p with one field replaced. Depth is rounded to
// the nearest integer.
func (p Params) With(f Field, v float32) Params {
	switch f {
	case FieldDepth:
		p.Depth = int(math32.Round(v))
	case FieldBaseScale:
		p.BaseScale = v
	case FieldScaleReduction:
		p.ScaleReduction = v
	case FieldJointRadius:
		p.JointRadius = v
	case FieldStrutRadius:
		p.StrutRadius = v
	}
	return p
}

// Clamp returns a copy with every field limited to its range.
func (p Params) Clamp() Params {
	for _, r := range ranges {
		p = p.With(r.Field, r.Clamp(p.Get(r.Field)))
	}
	return p
}

// Validate reports the first field outside its range.
func (p Params) Validate() error {
	for _, r := range ranges {
		v := p.Get(r.Field)
		if v < r.Min || v > r.Max || math32.IsNaN(v) {
			return fmt.Errorf("%s = %g, want [%g, %g]: %w", r.Name, v, r.Min, r.Max, ErrOutOfRange)
		}
	}
	return nil
}
