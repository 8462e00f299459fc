package settings

import "sync/atomic"

// Phase is the progress of the capability probe for one mounted screen.
type Phase int

const (
	// PhaseInitial renders the loading placeholder; no probe has started.
	PhaseInitial Phase = iota
	// PhaseProbing means the probe was dispatched and has not resolved.
	PhaseProbing
	// PhaseResolved is terminal for the mount.
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseProbing:
		return "probing"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// ScreenState is the screen-local state behind the capability row.
// CapabilityAvailable is meaningful only when Loading is false.
type ScreenState struct {
	Loading             bool
	CapabilityAvailable bool
}

// mountToken ties a probe to the mount that started it.
type mountToken struct {
	dead atomic.Bool
}

// capabilityMachine drives Initial -> Probing -> Resolved once per mount.
// All methods except the token check run on the UI thread.
type capabilityMachine struct {
	phase    Phase
	state    ScreenState
	token    *mountToken
	onChange func(Phase)
}

func newCapabilityMachine(onChange func(Phase)) *capabilityMachine {
	return &capabilityMachine{
		phase:    PhaseInitial,
		state:    ScreenState{Loading: true},
		token:    &mountToken{},
		onChange: onChange,
	}
}

// begin moves Initial -> Probing and returns the token the probe result
// must present. It returns false if the probe already started or the
// mount is gone.
func (m *capabilityMachine) begin() (*mountToken, bool) {
	if m.phase != PhaseInitial || m.token.dead.Load() {
		return nil, false
	}
	m.transition(PhaseProbing)
	return m.token, true
}

// resolve moves Probing -> Resolved, setting the result and clearing the
// loading flag together. Results from another mount, after unmount or
// after resolution are dropped.
func (m *capabilityMachine) resolve(token *mountToken, available bool) bool {
	if token == nil || token != m.token || token.dead.Load() || m.phase != PhaseProbing {
		return false
	}
	m.state = ScreenState{Loading: false, CapabilityAvailable: available}
	m.transition(PhaseResolved)
	return true
}

// cancel marks the mount dead. Pending results become no-ops.
func (m *capabilityMachine) cancel() {
	m.token.dead.Store(true)
}

func (m *capabilityMachine) transition(to Phase) {
	m.phase = to
	if m.onChange != nil {
		m.onChange(to)
	}
}

// live reports whether the token still belongs to a mounted screen.
func (t *mountToken) live() bool {
	return t != nil && !t.dead.Load()
}
