package arena

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// StealCheck records the last carrier/stealer coordinate pair evaluated by
// the steal pass. Broadcast to clients as a best-effort diagnostic.
type StealCheck struct {
	Carrier Vec `json:"carrier"`
	Stealer Vec `json:"stealer"`
}

// Rules runs the pickup, scoring, round-reset and stealing passes over the
// shared state each tick. It is the only writer for the duration of a tick,
// so it needs no locking of its own.
type Rules struct {
	tun *Tuning
	now func() time.Time
	rng *rand.Rand

	itemSeq   int
	lastSteal *StealCheck
}

type RulesOpt func(*Rules)

// WithClock overrides the server clock, used by steal cooldowns.
func WithClock(now func() time.Time) RulesOpt {
	return func(r *Rules) {
		r.now = now
	}
}

// WithRand overrides the spawn randomness source.
func WithRand(rng *rand.Rand) RulesOpt {
	return func(r *Rules) {
		r.rng = rng
	}
}

func NewRules(tun *Tuning, opts ...RulesOpt) *Rules {
	r := &Rules{
		tun: tun,
		now: time.Now,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Apply runs one full rules pass in the tick order the simulation depends
// on: pickup, scoring, round reset, stealing, carried-item sync.
func (r *Rules) Apply(s *State) {
	r.Pickup(s)
	r.Score(s)
	r.ResetRound(s)
	r.Steal(s)
	r.SyncCarried(s)
}

// Pickup claims at most one loose item per tick. Players are scanned in
// session-id order and the first player/item pair within the pickup radius
// wins; two players racing for the same item resolve by iteration order,
// not proximity. This tie-break is intentional.
func (r *Rules) Pickup(s *State) bool {
	radSq := r.tun.PickupRadius * r.tun.PickupRadius
	for _, id := range sortedSessions(s) {
		p := s.Players[id]
		for _, it := range s.Items {
			if it.Status != ItemAvailable && it.Status != ItemDropped {
				continue
			}
			if distSq(p.X, p.Y, it.X, it.Y) > radSq {
				continue
			}
			it.Status = ItemCarried
			it.CarrierId = p.SessionId
			// Position is meaningless while carried; the sync pass glues it
			// back to the carrier before anything is broadcast.
			it.X, it.Y = math.NaN(), math.NaN()
			return true
		}
	}
	return false
}

// Score delivers carried items whose carrier is inside its own team's base
// radius. An item whose carrier no longer resolves is dropped in place
// rather than left dangling.
func (r *Rules) Score(s *State) {
	radSq := r.tun.ScoreRadius * r.tun.ScoreRadius
	for _, it := range s.Items {
		if it.Status != ItemCarried {
			continue
		}

		carrier, ok := s.Players[it.CarrierId]
		if !ok {
			r.dropOrphan(it)
			continue
		}
		if carrier.Team == TeamNone {
			continue
		}

		// Test the front of the vehicle, not its center.
		fx := carrier.X + math.Cos(carrier.Heading)*r.tun.CarryOffset
		fy := carrier.Y + math.Sin(carrier.Heading)*r.tun.CarryOffset

		base := r.tun.BasePos(carrier.Team)
		if distSq(fx, fy, base.X, base.Y) > radSq {
			continue
		}

		switch carrier.Team {
		case TeamRed:
			s.RedScore++
		case TeamBlue:
			s.BlueScore++
		}
		it.Status = ItemScored
		it.CarrierId = ""
		it.X, it.Y = base.X, base.Y
	}
}

// ResetRound respawns a fresh item batch once every item has been scored.
// Team scores are cumulative across rounds and untouched here.
func (r *Rules) ResetRound(s *State) bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, it := range s.Items {
		if it.Status != ItemScored {
			return false
		}
	}

	s.Items = nil
	r.SpawnItems(s)
	return true
}

// SpawnItems creates a fresh batch of available items, each at a uniformly
// random point within the spawn radius of the origin.
func (r *Rules) SpawnItems(s *State) {
	for i := 0; i < r.tun.NumItems; i++ {
		r.itemSeq++
		angle := r.rng.Float64() * 2 * math.Pi
		radius := r.tun.SpawnRadius * math.Sqrt(r.rng.Float64())
		s.Items = append(s.Items, &Item{
			Id:     fmt.Sprintf("item-%d", r.itemSeq),
			Status: ItemAvailable,
			X:      math.Cos(angle) * radius,
			Y:      math.Sin(angle) * radius,
		})
	}
}

// Steal reassigns at most one carried item per tick to the first other
// player found within the collision radius, once the item's cooldown has
// elapsed. Same-team collisions hand the item off just like enemy steals.
func (r *Rules) Steal(s *State) bool {
	radSq := r.tun.CollisionRadius * r.tun.CollisionRadius
	nowMs := r.now().UnixMilli()

	for _, it := range s.Items {
		if it.Status != ItemCarried {
			continue
		}
		if nowMs-it.LastSteal < r.tun.StealCooldown {
			continue
		}

		carrier, ok := s.Players[it.CarrierId]
		if !ok {
			r.dropOrphan(it)
			continue
		}

		for _, id := range sortedSessions(s) {
			if id == carrier.SessionId {
				continue
			}
			p := s.Players[id]
			r.lastSteal = &StealCheck{
				Carrier: Vec{X: carrier.X, Y: carrier.Y},
				Stealer: Vec{X: p.X, Y: p.Y},
			}
			if distSq(carrier.X, carrier.Y, p.X, p.Y) > radSq {
				continue
			}
			it.CarrierId = p.SessionId
			it.LastSteal = nowMs
			return true
		}
	}
	return false
}

// SyncCarried glues every carried item to its carrier's latest position.
// Runs last each tick so clients never see a carried item lag its carrier.
func (r *Rules) SyncCarried(s *State) {
	for _, it := range s.Items {
		if it.Status != ItemCarried {
			continue
		}
		if carrier, ok := s.Players[it.CarrierId]; ok {
			it.X, it.Y = carrier.X, carrier.Y
		}
	}
}

// LastStealCheck returns the most recent pair evaluated by Steal, or nil.
func (r *Rules) LastStealCheck() *StealCheck {
	return r.lastSteal
}

// dropOrphan releases an item whose carrier has vanished. The item's own
// coordinates may be stale; if they are not even finite it falls back to
// the origin so the state stays consistent.
func (r *Rules) dropOrphan(it *Item) {
	it.Status = ItemDropped
	it.CarrierId = ""
	if !finite(it.X) || !finite(it.Y) {
		it.X, it.Y = 0, 0
	}
}

func sortedSessions(s *State) []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
