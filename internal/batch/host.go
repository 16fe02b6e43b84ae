package batch

import (
	"errors"
	"fmt"

	"github.com/Faultbox/hexfractal/pkg/math"
)

// ErrTooManyInstances is returned by HostAllocator when a transform list
// exceeds its limit.
var ErrTooManyInstances = errors.New("too many instances")

// HostBuffer holds transforms in CPU memory as 16 floats per instance,
// column-major.
type HostBuffer struct {
	Kind Kind
	Data []float32
}

// Len returns the instance count.
func (b *HostBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Data) / 16
}

// At returns the transform of instance i.
func (b *HostBuffer) At(i int) math.Mat4 {
	var m math.Mat4
	copy(m[:], b.Data[i*16:(i+1)*16])
	return m
}

// Release drops the data.
func (b *HostBuffer) Release() error {
	if b != nil {
		b.Data = nil
	}
	return nil
}

// HostAllocator copies transforms into HostBuffers. A MaxInstances of
// zero means no limit.
type HostAllocator struct {
	MaxInstances int
}

// Allocate implements Allocator.
func (a HostAllocator) Allocate(kind Kind, transforms []math.Mat4) (*HostBuffer, error) {
	if a.MaxInstances > 0 && len(transforms) > a.MaxInstances {
		return nil, fmt.Errorf("%s: %d > %d: %w", kind, len(transforms), a.MaxInstances, ErrTooManyInstances)
	}
	buf := &HostBuffer{Kind: kind, Data: make([]float32, 0, len(transforms)*16)}
	for i := range transforms {
		buf.Data = append(buf.Data, transforms[i][:]...)
	}
	return buf, nil
}
