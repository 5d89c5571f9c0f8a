package main

// Roster construction helpers shared across the unit tests.

func alive(id string, role RoleID) *Participant {
	return &Participant{ID: id, Name: id, Role: role, IsAlive: true}
}

func dead(id string, role RoleID) *Participant {
	p := alive(id, role)
	p.IsAlive = false
	return p
}

func narratorParticipant(id string) *Participant {
	return &Participant{ID: id, Name: id, Role: RoleNarrator, IsAlive: true, IsNarrator: true}
}

// sessionWithRoles builds a session mid-game with a fixed roster, skipping
// the lobby and the shuffle. The host "host" is the narrator.
func sessionWithRoles(phase Phase, players ...*Participant) *Session {
	s := NewSession("ABC123", Config{MafiaCount: 1}, "host", "Host")
	s.participant("host").Role = RoleNarrator
	s.roster = append(s.roster, players...)
	s.phase = phase
	if phase == PhaseNight {
		if first, ok := firstTurn(s.roster); ok {
			s.currentTurn = first
		}
	}
	return s
}
