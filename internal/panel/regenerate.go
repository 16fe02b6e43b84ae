package panel

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/internal/batch"
	"github.com/Faultbox/hexfractal/pkg/fractal"
)

// Regenerator rebuilds a batch set from parameters. It is meant to be
// used as a panel's ChangeFunc.
type Regenerator[B batch.Buffer] struct {
	set *batch.Set[B]
	log *zap.Logger

	mu   sync.Mutex
	last fractal.Instances
}

// NewRegenerator creates a regenerator feeding set. A nil log discards
// output.
func NewRegenerator[B batch.Buffer](set *batch.Set[B], log *zap.Logger) *Regenerator[B] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Regenerator[B]{set: set, log: log}
}

// Regenerate generates instances for p and rebuilds the set. On failure
// the set keeps its previous buffers.
func (r *Regenerator[B]) Regenerate(p fractal.Params) error {
	start := time.Now()

	inst, err := fractal.Generate(p)
	if err != nil {
		r.log.Warn("generation refused, keeping previous fractal",
			zap.Int("depth", p.Depth), zap.Error(err))
		return err
	}
	if err := r.set.Rebuild(inst); err != nil {
		r.log.Error("instance upload failed, keeping previous fractal",
			zap.Int("depth", p.Depth), zap.Error(err))
		return err
	}

	r.mu.Lock()
	r.last = inst
	r.mu.Unlock()

	r.log.Info("fractal regenerated",
		zap.Int("depth", p.Depth),
		zap.Int("joints", len(inst.Joints)),
		zap.Int("struts", len(inst.Struts)),
		zap.Uint64("generation", r.set.Generation()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Last returns the instances of the last successful regeneration.
func (r *Regenerator[B]) Last() fractal.Instances {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
