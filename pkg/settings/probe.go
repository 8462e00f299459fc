package settings

import (
	"time"

	drifterrors "github.com/go-drift/drift/pkg/errors"
)

// DeviceCheck reports whether the running device is subject to a regional
// restriction. It has no error channel.
type DeviceCheck func() bool

// CapabilityProbe runs a DeviceCheck off the UI thread and reports whether
// the capability is available on this device.
type CapabilityProbe struct {
	check   DeviceCheck
	preview bool
	run     func(func())
}

// ProbeOption configures a CapabilityProbe.
type ProbeOption func(*CapabilityProbe)

// WithPreview short-circuits the probe to true without calling the check.
// Used for previews and tests that must not touch the device.
func WithPreview(preview bool) ProbeOption {
	return func(p *CapabilityProbe) {
		p.preview = preview
	}
}

// WithRunner replaces the function that runs the check. The default starts
// a goroutine.
func WithRunner(run func(func())) ProbeOption {
	return func(p *CapabilityProbe) {
		if run != nil {
			p.run = run
		}
	}
}

// NewCapabilityProbe wraps check.
func NewCapabilityProbe(check DeviceCheck, opts ...ProbeOption) *CapabilityProbe {
	p := &CapabilityProbe{
		check: check,
		run:   func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preview reports whether the probe is in preview mode.
func (p *CapabilityProbe) Preview() bool {
	return p.preview
}

// CheckAsync runs the check on the probe's runner and calls done with the
// result. done runs on the runner, not on the UI thread. Calling CheckAsync
// again starts another independent check.
func (p *CapabilityProbe) CheckAsync(done func(available bool)) {
	p.run(func() {
		available := p.Check()
		if done != nil {
			done(available)
		}
	})
}

// Check runs the check synchronously. A capability is available when the
// device is not restricted. An indeterminate check resolves to false.
func (p *CapabilityProbe) Check() (available bool) {
	if p.preview {
		return true
	}
	if p.check == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			drifterrors.ReportPanic(&drifterrors.PanicError{
				Op:         "settings.CapabilityProbe.Check",
				Value:      r,
				StackTrace: drifterrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			available = false
		}
	}()
	return !p.check()
}
