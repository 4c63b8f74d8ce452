package arena

import (
	"fmt"
	"math"
)

// Team identifies which side a player scores for.
type Team string

const (
	TeamRed  Team = "Red"
	TeamBlue Team = "Blue"
	TeamNone Team = "none"
)

// ParseTeam converts a client-supplied team string into a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "Red":
		return TeamRed, nil
	case "Blue":
		return TeamBlue, nil
	default:
		return TeamNone, fmt.Errorf("unknown team: %q", s)
	}
}

// ItemStatus is the lifecycle state of a capturable item. Items are never
// destroyed individually; a round reset replaces the whole batch.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemDropped   ItemStatus = "dropped"
	ItemCarried   ItemStatus = "carried"
	ItemScored    ItemStatus = "scored"
)

// Vec is a 2D vector in world meters.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input is the latest buffered movement intent for one session. DX is
// lateral (+right), DY is forward with +1 meaning toward screen-down.
type Input struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Player is one vehicle in the arena, human or AI. Positions are meters
// relative to the world origin, heading in radians with 0 along +X.
type Player struct {
	SessionId string  `json:"sessionId"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Heading   float64 `json:"heading"`
	Team      Team    `json:"team"`

	// JustReset is set for one tick after a hazard reset so the room can
	// notify the affected client, then cleared.
	JustReset bool `json:"justReset"`

	AI bool `json:"ai"`
}

// Item is a capturable pickup. Position is meaningless while carried; the
// carried-item sync step glues it back to its carrier every tick.
type Item struct {
	Id        string     `json:"id"`
	Status    ItemStatus `json:"status"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	CarrierId string     `json:"carrierId,omitempty"`
	LastSteal int64      `json:"lastSteal"` // server clock, unix ms
}

// State is the shared arena state synchronized to clients.
type State struct {
	Players       map[string]*Player `json:"players"`
	Items         []*Item            `json:"items"`
	RedScore      int                `json:"redScore"`
	BlueScore     int                `json:"blueScore"`
	TimeRemaining float64            `json:"gameTimeRemaining"`
}

// NewState returns an empty arena state with the round clock set.
func NewState(roundTime float64) *State {
	return &State{
		Players:       make(map[string]*Player),
		TimeRemaining: roundTime,
	}
}

// TeamCounts tallies current players per team. Used for balance assignment;
// it always reflects the players present right now, never historical counts.
func (s *State) TeamCounts() map[Team]int {
	counts := make(map[Team]int)
	for _, p := range s.Players {
		counts[p.Team]++
	}
	return counts
}

// HasHumans reports whether any non-AI player is present.
func (s *State) HasHumans() bool {
	for _, p := range s.Players {
		if !p.AI {
			return true
		}
	}
	return false
}

// CarriedBy returns the item carried by the given session, if any.
func (s *State) CarriedBy(sessionId string) *Item {
	for _, it := range s.Items {
		if it.Status == ItemCarried && it.CarrierId == sessionId {
			return it
		}
	}
	return nil
}

// DropCarried releases any item carried by the given session at the given
// position. Used on leave and when a carrier vanishes mid-round.
func (s *State) DropCarried(sessionId string, x, y float64) {
	for _, it := range s.Items {
		if it.Status == ItemCarried && it.CarrierId == sessionId {
			it.Status = ItemDropped
			it.CarrierId = ""
			it.X = x
			it.Y = y
		}
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
