package room

import (
	"github.com/pixil98/go-arena/internal/arena"
)

// IdentityManager maps client-supplied persistent tab identifiers to team
// assignments and live sessions. The team mapping is durable for the life of
// the room so a page refresh reconnects to the same team; only the session
// mapping is cleaned up on leave.
//
// It is owned by the room and must be called with the room's lock held.
type IdentityManager struct {
	sessions map[string]string     // tabId -> current sessionId
	teams    map[string]arena.Team // tabId -> durable team, never removed on leave
}

func NewIdentityManager() *IdentityManager {
	return &IdentityManager{
		sessions: make(map[string]string),
		teams:    make(map[string]arena.Team),
	}
}

// Assign resolves the team for a new session. live reports whether a session
// id is currently connected; counts are the present-moment team tallies used
// for balance assignment.
func (m *IdentityManager) Assign(sessionId, tabId string, live func(string) bool, counts map[arena.Team]int) arena.Team {
	if tabId == "" {
		// Anonymous join: balance only, no durable record.
		return balanceTeam(counts)
	}

	team, hasTeam := m.teams[tabId]

	if existing, ok := m.sessions[tabId]; ok {
		if live(existing) {
			// Duplicate live connection (e.g. accidental double connect).
			// Reuse the durable team for the new session but leave the
			// existing mapping alone so the original connection is not
			// silently reassigned.
			if hasTeam {
				return team
			}
			return balanceTeam(counts)
		}

		// Reconnection: the old session is gone, repoint to the new one.
		if !hasTeam {
			team = balanceTeam(counts)
			m.teams[tabId] = team
		}
		m.sessions[tabId] = sessionId
		return team
	}

	if hasTeam {
		// Session cleanup already ran before the rejoin; the durable team
		// record survived it.
		m.sessions[tabId] = sessionId
		return team
	}

	// Entirely new tab.
	team = balanceTeam(counts)
	m.teams[tabId] = team
	m.sessions[tabId] = sessionId
	return team
}

// Release removes the session mapping for the departing session. The durable
// team record is retained until room teardown.
func (m *IdentityManager) Release(sessionId string) {
	for tabId, sid := range m.sessions {
		if sid == sessionId {
			delete(m.sessions, tabId)
		}
	}
}

// balanceTeam assigns the team with fewer players; ties favor Red.
func balanceTeam(counts map[arena.Team]int) arena.Team {
	if counts[arena.TeamRed] <= counts[arena.TeamBlue] {
		return arena.TeamRed
	}
	return arena.TeamBlue
}
