package batch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hexfractal/pkg/fractal"
	"github.com/Faultbox/hexfractal/pkg/math"
)

type fakeBuffer struct {
	id       int
	n        int
	released bool
}

func (b *fakeBuffer) Len() int { return b.n }

func (b *fakeBuffer) Release() error {
	if b.released {
		return errors.New("double release")
	}
	b.released = true
	return nil
}

// fakeAllocator fails the allocation of failKind when fail is set.
type fakeAllocator struct {
	fail     bool
	failKind Kind
	next     int
	buffers  []*fakeBuffer
}

var errAlloc = errors.New("out of memory")

func (a *fakeAllocator) Allocate(kind Kind, transforms []math.Mat4) (*fakeBuffer, error) {
	if a.fail && kind == a.failKind {
		return nil, errAlloc
	}
	a.next++
	b := &fakeBuffer{id: a.next, n: len(transforms)}
	a.buffers = append(a.buffers, b)
	return b, nil
}

func instances(t *testing.T, depth int) fractal.Instances {
	t.Helper()
	p := fractal.DefaultParams()
	p.Depth = depth
	inst, err := fractal.Generate(p)
	require.NoError(t, err)
	return inst
}

func TestRebuildSwaps(t *testing.T) {
	alloc := &fakeAllocator{}
	set := NewSet[*fakeBuffer](alloc)

	_, _, ok := set.Current()
	assert.False(t, ok)

	require.NoError(t, set.Rebuild(instances(t, 0)))
	joints, struts, ok := set.Current()
	require.True(t, ok)
	assert.Equal(t, 7, joints.Len())
	assert.Equal(t, 8, struts.Len())
	assert.Equal(t, uint64(1), set.Generation())

	require.NoError(t, set.Rebuild(instances(t, 1)))
	newJoints, newStruts, _ := set.Current()
	assert.Equal(t, 43, newJoints.Len())
	assert.Equal(t, 56, newStruts.Len())
	assert.True(t, joints.released)
	assert.True(t, struts.released)
	assert.False(t, newJoints.released)
	assert.Equal(t, uint64(2), set.Generation())
}

func TestRebuildKeepsLastGoodState(t *testing.T) {
	for _, kind := range []Kind{Joints, Struts} {
		t.Run(kind.String(), func(t *testing.T) {
			alloc := &fakeAllocator{}
			set := NewSet[*fakeBuffer](alloc)
			require.NoError(t, set.Rebuild(instances(t, 0)))
			joints, struts, _ := set.Current()

			alloc.fail, alloc.failKind = true, kind
			err := set.Rebuild(instances(t, 1))
			require.Error(t, err)
			assert.ErrorIs(t, err, errAlloc)

			gotJoints, gotStruts, ok := set.Current()
			require.True(t, ok)
			assert.Same(t, joints, gotJoints)
			assert.Same(t, struts, gotStruts)
			assert.False(t, joints.released)
			assert.False(t, struts.released)
			assert.Equal(t, uint64(1), set.Generation())

			// Anything built during the failed pass was released.
			for _, b := range alloc.buffers[2:] {
				assert.True(t, b.released, "buffer %d leaked", b.id)
			}
		})
	}
}

func TestFirstRebuildFailure(t *testing.T) {
	set := NewSet[*fakeBuffer](&fakeAllocator{fail: true, failKind: Struts})
	require.Error(t, set.Rebuild(instances(t, 0)))

	_, _, ok := set.Current()
	assert.False(t, ok)
	assert.Zero(t, set.Generation())
	assert.NoError(t, set.Close())
}

func TestClose(t *testing.T) {
	alloc := &fakeAllocator{}
	set := NewSet[*fakeBuffer](alloc)
	require.NoError(t, set.Rebuild(instances(t, 0)))

	require.NoError(t, set.Close())
	for _, b := range alloc.buffers {
		assert.True(t, b.released)
	}
	_, _, ok := set.Current()
	assert.False(t, ok)

	assert.ErrorIs(t, set.Rebuild(instances(t, 0)), ErrClosed)
	assert.NoError(t, set.Close())
}

func TestHostAllocator(t *testing.T) {
	inst := instances(t, 0)

	buf, err := HostAllocator{}.Allocate(Struts, inst.Struts)
	require.NoError(t, err)
	assert.Equal(t, 8, buf.Len())
	assert.Len(t, buf.Data, 8*16)
	for i, m := range inst.Struts {
		assert.Equal(t, m, buf.At(i))
	}

	require.NoError(t, buf.Release())
	assert.Zero(t, buf.Len())

	_, err = HostAllocator{MaxInstances: 7}.Allocate(Struts, inst.Struts)
	assert.ErrorIs(t, err, ErrTooManyInstances)
}

func TestHostSetLastGoodState(t *testing.T) {
	set := NewSet[*HostBuffer](HostAllocator{MaxInstances: 50})
	require.NoError(t, set.Rebuild(instances(t, 0)))

	// Depth 1 has 56 struts.
	err := set.Rebuild(instances(t, 1))
	assert.ErrorIs(t, err, ErrTooManyInstances)

	joints, struts, ok := set.Current()
	require.True(t, ok)
	assert.Equal(t, 7, joints.Len())
	assert.Equal(t, 8, struts.Len())
}
