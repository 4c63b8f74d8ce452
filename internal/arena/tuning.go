package arena

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Rect is an axis-aligned rectangle in world meters.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Contains reports whether the point is inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Tuning holds every numeric knob of the simulation. Profiles are loaded
// from asset files; DefaultTuning is the compiled-in profile.
type Tuning struct {
	MaxSpeed      float64 `json:"max_speed"`       // m/s, off-road limit
	RoadSpeedMult float64 `json:"road_speed_mult"` // >1, applied while on a road
	Friction      float64 `json:"friction"`        // fraction of velocity retained per second
	Accel         float64 `json:"accel"`           // m/s^2 at the base speed limit
	TurnSpeed     float64 `json:"turn_speed"`      // rad/s toward the target heading

	AISpeedMult float64 `json:"ai_speed_mult"` // <1, bots are deliberately slower
	AIAccelMult float64 `json:"ai_accel_mult"` // <1
	AIEpsilon   float64 `json:"ai_epsilon"`    // meters, hold direction when this close to target

	PickupRadius    float64 `json:"pickup_radius"`    // meters
	ScoreRadius     float64 `json:"score_radius"`     // meters around the base
	CollisionRadius float64 `json:"collision_radius"` // meters, player-to-player steal range
	CarryOffset     float64 `json:"carry_offset"`     // meters ahead of the carrier for the score test
	StealCooldown   int64   `json:"steal_cooldown_ms"`

	SpawnRadius float64 `json:"spawn_radius"` // meters around the origin
	NumItems    int     `json:"num_items"`
	RoundTime   float64 `json:"round_time"` // seconds

	RedBase  Vec  `json:"red_base"`
	BlueBase Vec  `json:"blue_base"`
	Hazard   Rect `json:"hazard"`
}

// DefaultTuning returns the built-in profile.
func DefaultTuning() *Tuning {
	return &Tuning{
		MaxSpeed:      12,
		RoadSpeedMult: 1.8,
		Friction:      0.1,
		Accel:         24,
		TurnSpeed:     6,

		AISpeedMult: 0.7,
		AIAccelMult: 0.6,
		AIEpsilon:   0.5,

		PickupRadius:    4,
		ScoreRadius:     8,
		CollisionRadius: 3,
		CarryOffset:     1.5,
		StealCooldown:   3000,

		SpawnRadius: 150,
		NumItems:    5,
		RoundTime:   300,

		RedBase:  Vec{X: -120, Y: 0},
		BlueBase: Vec{X: 120, Y: 0},
		Hazard:   Rect{MinX: -20, MinY: 60, MaxX: 20, MaxY: 100},
	}
}

// BasePos returns the scoring base for a team. TeamNone scores nowhere; the
// origin is returned so callers always get a finite point.
func (t *Tuning) BasePos(team Team) Vec {
	switch team {
	case TeamRed:
		return t.RedBase
	case TeamBlue:
		return t.BlueBase
	default:
		return Vec{}
	}
}

func (t *Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.MaxSpeed <= 0 {
		el.Add(fmt.Errorf("max_speed must be positive"))
	}
	if t.RoadSpeedMult <= 1 {
		el.Add(fmt.Errorf("road_speed_mult must be greater than 1"))
	}
	if t.Friction <= 0 || t.Friction >= 1 {
		el.Add(fmt.Errorf("friction must be between 0 and 1"))
	}
	if t.Accel <= 0 {
		el.Add(fmt.Errorf("accel must be positive"))
	}
	if t.TurnSpeed <= 0 {
		el.Add(fmt.Errorf("turn_speed must be positive"))
	}
	if t.AISpeedMult <= 0 || t.AISpeedMult >= 1 {
		el.Add(fmt.Errorf("ai_speed_mult must be between 0 and 1"))
	}
	if t.AIAccelMult <= 0 || t.AIAccelMult >= 1 {
		el.Add(fmt.Errorf("ai_accel_mult must be between 0 and 1"))
	}
	if t.PickupRadius <= 0 {
		el.Add(fmt.Errorf("pickup_radius must be positive"))
	}
	if t.ScoreRadius <= 0 {
		el.Add(fmt.Errorf("score_radius must be positive"))
	}
	if t.CollisionRadius <= 0 {
		el.Add(fmt.Errorf("collision_radius must be positive"))
	}
	if t.StealCooldown <= 0 {
		el.Add(fmt.Errorf("steal_cooldown_ms must be positive"))
	}
	if t.SpawnRadius <= 0 {
		el.Add(fmt.Errorf("spawn_radius must be positive"))
	}
	if t.NumItems <= 0 {
		el.Add(fmt.Errorf("num_items must be positive"))
	}
	if t.RoundTime <= 0 {
		el.Add(fmt.Errorf("round_time must be positive"))
	}
	if t.Hazard.MinX >= t.Hazard.MaxX || t.Hazard.MinY >= t.Hazard.MaxY {
		el.Add(fmt.Errorf("hazard rectangle is degenerate"))
	}

	return el.Err()
}
