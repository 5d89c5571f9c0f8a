package main

// ActionLedger records at most one pending night target per acting role.
// Re-submission by the same actor overwrites the previous target for that
// role (last-write-wins per actor). The session mutex serializes access.
type ActionLedger struct {
	targets map[RoleID]string
}

func newActionLedger() ActionLedger {
	return ActionLedger{targets: make(map[RoleID]string)}
}

// Submit validates and records a night action. window is the role whose
// turn is open (the session's currentTurn). A submission is accepted when
// the actor's own role matches the window, with one exception: a dame
// submitting during the mafia window is recorded on the dame track, since
// she wakes with the mafia but acts independently.
func (l *ActionLedger) Submit(actor *Participant, window RoleID, target *Participant) error {
	if actor == nil || !actor.IsAlive || actor.IsNarrator {
		return ErrInvalidActor
	}
	if actor.Role != window && !(actor.Role == RoleDame && window == RoleMafia) {
		return ErrInvalidActor
	}
	if target == nil || !target.IsAlive || target.IsNarrator || target.ID == actor.ID {
		return ErrInvalidTarget
	}
	l.targets[actor.Role] = target.ID
	return nil
}

// Resolve consumes and returns the full target map, clearing it in the same
// step. A single atomic read-and-clear keeps a concurrent submission from
// being half-counted; the state machine calls it exactly once per night.
func (l *ActionLedger) Resolve() map[RoleID]string {
	resolved := l.targets
	l.targets = make(map[RoleID]string)
	return resolved
}

// Clear drops all pending targets without resolving them.
func (l *ActionLedger) Clear() {
	l.targets = make(map[RoleID]string)
}

// Pending returns a copy of the current target map for snapshots.
func (l *ActionLedger) Pending() map[RoleID]string {
	out := make(map[RoleID]string, len(l.targets))
	for role, id := range l.targets {
		out[role] = id
	}
	return out
}
