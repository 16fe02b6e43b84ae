// Package panel holds the tunable fractal parameters and notifies a
// handler whenever they change.
package panel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Faultbox/hexfractal/pkg/fractal"
)

// ChangeFunc is invoked with the new parameters after every change.
type ChangeFunc func(fractal.Params) error

// Panel is a list of sliders over fractal.Params with one slider selected.
type Panel struct {
	notifyMu sync.Mutex // serializes change notifications
	mu       sync.Mutex // guards the fields below
	params   fractal.Params
	sliders  []fractal.Range
	selected int
	onChange ChangeFunc
}

// New creates a panel starting at p (clamped to the slider ranges).
// onChange may be nil.
func New(p fractal.Params, onChange ChangeFunc) *Panel {
	return &Panel{
		params:   p.Clamp(),
		sliders:  fractal.Ranges(),
		onChange: onChange,
	}
}

// Params returns the current parameters.
func (p *Panel) Params() fractal.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// Sliders returns the slider table in display order.
func (p *Panel) Sliders() []fractal.Range {
	return append([]fractal.Range(nil), p.sliders...)
}

// Selected returns the selected slider.
func (p *Panel) Selected() fractal.Range {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sliders[p.selected]
}

// Select moves the selection by delta, wrapping around.
func (p *Panel) Select(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.sliders)
	p.selected = ((p.selected+delta)%n + n) % n
}

// Set changes one field, snapped to its slider step and clamped to its
// range. It reports whether the value changed; the change handler only
// runs when it did. If the handler fails the previous parameters are
// restored, so the panel always shows what was last generated.
func (p *Panel) Set(field fractal.Field, value float32) (bool, error) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	prev := p.params
	r := fractal.RangeOf(field)
	next := prev.With(field, r.Snap(value))
	p.params = next
	p.mu.Unlock()

	if next == prev {
		return false, nil
	}
	if err := p.notify(next); err != nil {
		p.mu.Lock()
		p.params = prev
		p.mu.Unlock()
		return true, err
	}
	return true, nil
}

// Nudge moves the selected slider by steps increments.
func (p *Panel) Nudge(steps int) (bool, error) {
	p.mu.Lock()
	r := p.sliders[p.selected]
	value := p.params.Get(r.Field) + float32(steps)*r.Step
	p.mu.Unlock()

	return p.Set(r.Field, value)
}

// Regenerate runs the change handler with the current parameters.
func (p *Panel) Regenerate() error {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	return p.notify(p.Params())
}

func (p *Panel) notify(params fractal.Params) error {
	if p.onChange == nil {
		return nil
	}
	return p.onChange(params)
}

// Status returns a one-line summary with the selected slider bracketed.
func (p *Panel) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	parts := make([]string, len(p.sliders))
	for i, r := range p.sliders {
		s := r.Label + " " + FormatValue(r, p.params.Get(r.Field))
		if i == p.selected {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return strings.Join(parts, "  ")
}

// FormatValue prints v with as many decimals as the slider step needs.
func FormatValue(r fractal.Range, v float32) string {
	switch {
	case r.Step >= 1:
		return fmt.Sprintf("%.0f", v)
	case r.Step >= 0.1:
		return fmt.Sprintf("%.1f", v)
	case r.Step >= 0.01:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
