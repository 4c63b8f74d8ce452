package room

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pixil98/go-arena/internal/arena"
)

const (
	// MaxTickDelta is the large-hiccup guard: a tick whose elapsed time
	// exceeds this is skipped wholesale so a stall never teleports players.
	MaxTickDelta = 0.1

	DefaultGracePeriod      = 5 * time.Second
	DefaultBroadcastDivisor = 3
	DefaultMaxAI            = 8
)

// Publisher delivers room output to clients: point-to-point by session id,
// or broadcast to everyone in the room.
type Publisher interface {
	SendTo(sessionId string, data []byte) error
	Broadcast(data []byte) error
}

// RoadStatus is the stale-tolerant road cache read by the tick loop.
type RoadStatus interface {
	Refresh(ctx context.Context, sessionId string, x, y float64)
	OnRoad(sessionId string) bool
	Forget(sessionId string)
}

// Room owns one match: the shared state, the identity maps, the per-session
// input and velocity buffers, and the tick logic. A single driver tick is
// the only writer of the state for its duration; joins, leaves and inbound
// messages serialize against it through the room lock and are observed by
// the next tick.
type Room struct {
	mu sync.Mutex

	state    *arena.State
	tun      *arena.Tuning
	rules    *arena.Rules
	identity *IdentityManager
	roads    RoadStatus
	pub      Publisher

	inputs     map[string]arena.Input
	vels       map[string]*arena.Vec
	live       map[string]bool
	cleanupGen map[string]uint64

	playerSeq int
	aiSeq     int
	tick      uint64

	grace          time.Duration
	broadcastEvery int
	maxAI          int
	schedule       func(time.Duration, func())
	rng            *rand.Rand
}

type RoomOpt func(*Room)

// WithGracePeriod sets the delay before a non-consented leave is cleaned up.
func WithGracePeriod(d time.Duration) RoomOpt {
	return func(r *Room) {
		r.grace = d
	}
}

// WithBroadcastDivisor broadcasts state every n-th tick.
func WithBroadcastDivisor(n int) RoomOpt {
	return func(r *Room) {
		if n > 0 {
			r.broadcastEvery = n
		}
	}
}

// WithMaxAI caps how many AI players the room accepts.
func WithMaxAI(n int) RoomOpt {
	return func(r *Room) {
		r.maxAI = n
	}
}

// WithScheduler overrides how delayed cleanups are scheduled.
func WithScheduler(schedule func(time.Duration, func())) RoomOpt {
	return func(r *Room) {
		r.schedule = schedule
	}
}

// WithSpawnRand overrides the randomness used for player spawn points.
func WithSpawnRand(rng *rand.Rand) RoomOpt {
	return func(r *Room) {
		r.rng = rng
	}
}

func NewRoom(tun *arena.Tuning, rules *arena.Rules, roads RoadStatus, pub Publisher, opts ...RoomOpt) *Room {
	r := &Room{
		state:          arena.NewState(tun.RoundTime),
		tun:            tun,
		rules:          rules,
		identity:       NewIdentityManager(),
		roads:          roads,
		pub:            pub,
		inputs:         make(map[string]arena.Input),
		vels:           make(map[string]*arena.Vec),
		live:           make(map[string]bool),
		cleanupGen:     make(map[string]uint64),
		grace:          DefaultGracePeriod,
		broadcastEvery: DefaultBroadcastDivisor,
		maxAI:          DefaultMaxAI,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(r)
	}

	rules.SpawnItems(r.state)
	return r
}

// Join registers a new session, resolving its team through the identity
// manager and spawning its player near the origin. Returns the assigned team.
func (r *Room) Join(sessionId, name, tabId string) arena.Team {
	r.mu.Lock()

	team := r.identity.Assign(sessionId, tabId, r.isLive, r.state.TeamCounts())

	r.playerSeq++
	if name == "" {
		name = fmt.Sprintf("Player %d", r.playerSeq)
	}

	x, y := r.spawnPoint()
	r.state.Players[sessionId] = &arena.Player{
		SessionId: sessionId,
		Name:      name,
		X:         x,
		Y:         y,
		Team:      team,
	}
	r.inputs[sessionId] = arena.Input{}
	r.vels[sessionId] = &arena.Vec{}
	r.live[sessionId] = true
	r.mu.Unlock()

	r.sendTo(sessionId, joinedMessage{Type: "joined", SessionId: sessionId, Team: team})

	slog.Info("player joined", "session", sessionId, "name", name, "team", team)
	return team
}

// Leave handles a departing session. The carried item is dropped immediately
// in every case so stealing checks never target a vanished carrier. A
// consented leave cleans up at once; a network drop waits out a grace period
// first, because a reconnection under the same tab id may race ahead of it.
func (r *Room) Leave(sessionId string, consented bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.state.Players[sessionId]
	if !ok {
		return
	}

	delete(r.live, sessionId)
	r.state.DropCarried(sessionId, p.X, p.Y)

	if consented {
		r.cleanupLocked(sessionId)
		return
	}

	// The generation counter invalidates this callback if a newer event for
	// the same session supersedes it.
	r.cleanupGen[sessionId]++
	gen := r.cleanupGen[sessionId]
	r.schedule(r.grace, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.cleanupGen[sessionId] != gen {
			return
		}
		if _, ok := r.state.Players[sessionId]; !ok {
			return
		}
		r.cleanupLocked(sessionId)
	})
}

// cleanupLocked removes the session's player and all per-session bookkeeping,
// then culls AI players if no humans remain. Caller holds the lock.
func (r *Room) cleanupLocked(sessionId string) {
	r.identity.Release(sessionId)
	delete(r.state.Players, sessionId)
	delete(r.inputs, sessionId)
	delete(r.vels, sessionId)
	delete(r.cleanupGen, sessionId)
	r.roads.Forget(sessionId)

	slog.Info("player removed", "session", sessionId)

	if r.state.HasHumans() {
		return
	}
	for id, p := range r.state.Players {
		if !p.AI {
			continue
		}
		r.state.DropCarried(id, p.X, p.Y)
		delete(r.state.Players, id)
		delete(r.inputs, id)
		delete(r.vels, id)
		r.roads.Forget(id)
	}
}

// HandleInput buffers the latest movement intent for a session. Last value
// wins; the next tick reads a consistent snapshot.
func (r *Room) HandleInput(sessionId string, msg InputMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inputs[sessionId]; !ok {
		return
	}
	r.inputs[sessionId] = arena.Input{
		DX: clamp(msg.DX, -1, 1),
		DY: clamp(msg.DY, -1, 1),
	}
}

// AddAI spawns one AI player on the requested team. Invalid teams are
// rejected silently with a warning, per the room protocol.
func (r *Room) AddAI(teamStr string) {
	team, err := arena.ParseTeam(teamStr)
	if err != nil {
		slog.Warn("rejecting add_ai", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	aiCount := 0
	for _, p := range r.state.Players {
		if p.AI {
			aiCount++
		}
	}
	if aiCount >= r.maxAI {
		slog.Warn("rejecting add_ai, room is full of bots", "max", r.maxAI)
		return
	}

	r.aiSeq++
	sessionId := fmt.Sprintf("ai-%d", r.aiSeq)
	x, y := r.spawnPoint()
	r.state.Players[sessionId] = &arena.Player{
		SessionId: sessionId,
		Name:      fmt.Sprintf("Bot %d", r.aiSeq),
		X:         x,
		Y:         y,
		Team:      team,
		AI:        true,
	}
	r.vels[sessionId] = &arena.Vec{}

	slog.Info("ai added", "session", sessionId, "team", team)
}

// Tick advances the simulation by dt seconds. Step order is load-bearing:
// road refresh, AI movement, human movement plus the game clock, the rules
// pass, then reset notifications and the state broadcast.
func (r *Room) Tick(ctx context.Context, dt float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dt > MaxTickDelta {
		slog.Warn("skipping oversized tick", "dt", dt)
		return nil
	}

	for id, p := range r.state.Players {
		r.roads.Refresh(ctx, id, p.X, p.Y)
	}

	ids := r.sortedPlayerIds()

	for _, id := range ids {
		p := r.state.Players[id]
		if p.AI {
			arena.StepAI(r.state, p, r.vels[id], r.roads.OnRoad(id), dt, r.tun)
		}
	}

	humans := false
	for _, id := range ids {
		p := r.state.Players[id]
		if p.AI {
			continue
		}
		humans = true
		arena.StepDriver(p, r.vels[id], r.inputs[id], r.roads.OnRoad(id), dt, r.tun)
	}
	if humans {
		// One global clock decrement per human-occupied tick, not one per
		// player.
		r.state.TimeRemaining = math.Max(0, r.state.TimeRemaining-dt)
	}

	r.rules.Apply(r.state)

	for _, id := range ids {
		p, ok := r.state.Players[id]
		if !ok || p.AI || !p.JustReset {
			continue
		}
		r.sendTo(id, waterResetMessage{Type: "water_reset"})
		p.JustReset = false
	}

	r.tick++
	if r.tick%uint64(r.broadcastEvery) == 0 {
		r.broadcastState()
	}

	return nil
}

func (r *Room) broadcastState() {
	data, err := json.Marshal(stateMessage{Type: "state", State: r.state})
	if err != nil {
		slog.Warn("marshalling state", "error", err)
		return
	}
	if err := r.pub.Broadcast(data); err != nil {
		slog.Debug("broadcasting state", "error", err)
		return
	}

	// Best-effort diagnostic, sent after the state patch.
	if check := r.rules.LastStealCheck(); check != nil {
		msg := stealCheckMessage{
			Type:    "debug_steal_check_positions",
			Carrier: check.Carrier,
			Stealer: check.Stealer,
		}
		if data, err := json.Marshal(msg); err == nil {
			_ = r.pub.Broadcast(data)
		}
	}
}

func (r *Room) sendTo(sessionId string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("marshalling message", "session", sessionId, "error", err)
		return
	}
	if err := r.pub.SendTo(sessionId, data); err != nil {
		slog.Warn("sending message", "session", sessionId, "error", err)
	}
}

// isLive reports whether the transport currently has a connection for the
// session. Called by the identity manager with the room lock held.
func (r *Room) isLive(sessionId string) bool {
	return r.live[sessionId]
}

func (r *Room) spawnPoint() (float64, float64) {
	angle := r.rng.Float64() * 2 * math.Pi
	radius := r.tun.SpawnRadius * math.Sqrt(r.rng.Float64())
	return math.Cos(angle) * radius, math.Sin(angle) * radius
}

func (r *Room) sortedPlayerIds() []string {
	ids := make([]string, 0, len(r.state.Players))
	for id := range r.state.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
