// Package batch keeps the joint and strut instance buffers of the
// fractal current, replacing them atomically on every regeneration.
package batch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/hexfractal/pkg/fractal"
	"github.com/Faultbox/hexfractal/pkg/math"
)

// ErrClosed is returned by Rebuild after Close.
var ErrClosed = errors.New("batch set closed")

// Kind selects which mesh a buffer instances.
type Kind int

const (
	Joints Kind = iota
	Struts
)

func (k Kind) String() string {
	switch k {
	case Joints:
		return "joints"
	case Struts:
		return "struts"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Buffer is an uploaded list of instance transforms.
type Buffer interface {
	Len() int
	Release() error
}

// Allocator turns a transform list into a Buffer.
type Allocator[B Buffer] interface {
	Allocate(kind Kind, transforms []math.Mat4) (B, error)
}

// Set owns the current joint and strut buffers.
type Set[B Buffer] struct {
	mu         sync.Mutex
	alloc      Allocator[B]
	joints     B
	struts     B
	ready      bool
	closed     bool
	generation uint64
}

// NewSet creates an empty set backed by alloc.
func NewSet[B Buffer](alloc Allocator[B]) *Set[B] {
	return &Set[B]{alloc: alloc}
}

// Rebuild uploads inst into fresh buffers and swaps them in. If either
// allocation fails the partial result is released and the previous
// buffers stay current.
func (s *Set[B]) Rebuild(inst fractal.Instances) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	joints, err := s.alloc.Allocate(Joints, inst.Joints)
	if err != nil {
		return fmt.Errorf("allocate joints: %w", err)
	}
	struts, err := s.alloc.Allocate(Struts, inst.Struts)
	if err != nil {
		return errors.Join(fmt.Errorf("allocate struts: %w", err), joints.Release())
	}

	oldJoints, oldStruts, hadOld := s.joints, s.struts, s.ready
	s.joints, s.struts, s.ready = joints, struts, true
	s.generation++

	if hadOld {
		return releaseAll(oldJoints, oldStruts)
	}
	return nil
}

// Current returns the current buffers. ok is false before the first
// successful Rebuild and after Close.
func (s *Set[B]) Current() (joints, struts B, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joints, s.struts, s.ready
}

// Generation returns the number of successful rebuilds.
func (s *Set[B]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close releases the current buffers. Further rebuilds fail with ErrClosed.
func (s *Set[B]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if !s.ready {
		return nil
	}

	var zero B
	joints, struts := s.joints, s.struts
	s.joints, s.struts, s.ready = zero, zero, false
	return releaseAll(joints, struts)
}

func releaseAll[B Buffer](bufs ...B) error {
	var errs []error
	for _, b := range bufs {
		if err := b.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
