package arena

import (
	"log/slog"
	"math"
)

// StepDriver advances one human player by dt seconds using its latest
// buffered input. Velocity is owned by the caller (the room keeps a
// per-session velocity map) and is mutated in place.
//
// Input dy uses the client's screen convention (+1 = toward screen-down),
// so it is inverted into world-forward here.
func StepDriver(p *Player, vel *Vec, in Input, onRoad bool, dt float64, tun *Tuning) {
	dir, hasDir := worldDirection(in)

	limit := tun.MaxSpeed
	if onRoad {
		limit *= tun.RoadSpeedMult
	}

	nx, ny := integrate(p, vel, dir, hasDir, limit, tun.Accel, tun.Friction, dt)

	if tun.Hazard.Contains(nx, ny) {
		// Hazard reset: snap home instead of moving.
		p.X, p.Y = 0, 0
		vel.X, vel.Y = 0, 0
		p.JustReset = true
	} else {
		p.X, p.Y = nx, ny
	}

	if hasDir {
		turnToward(p, dir, dt, tun)
	}
}

// worldDirection converts raw input into a unit world-space direction.
// Returns false when the input is zero (or degenerate), meaning the player
// is coasting and only friction applies.
func worldDirection(in Input) (Vec, bool) {
	dx, dy := in.DX, -in.DY
	mag := math.Hypot(dx, dy)
	if mag == 0 || !finite(mag) {
		return Vec{}, false
	}
	return Vec{X: dx / mag, Y: dy / mag}, true
}

// integrate applies the shared friction/acceleration model and returns the
// candidate position. The caller decides whether to commit it.
func integrate(p *Player, vel *Vec, dir Vec, hasDir bool, limit, accel, friction, dt float64) (float64, float64) {
	if !finite(vel.X) || !finite(vel.Y) {
		slog.Warn("invalid velocity, zeroing", "session", p.SessionId, "vx", vel.X, "vy", vel.Y)
		vel.X, vel.Y = 0, 0
	}

	// Exponential friction keeps the decay stable across variable dt.
	decay := math.Pow(friction, dt)
	vel.X *= decay
	vel.Y *= decay

	if hasDir {
		// Scale acceleration relative to the limit so boosted speed modes
		// reach their cap in the same feel-time as the base mode.
		f := accel * dt / limit
		if f > 1 {
			f = 1
		}
		vel.X += (dir.X*limit - vel.X) * f
		vel.Y += (dir.Y*limit - vel.Y) * f
	}

	return p.X + vel.X*dt, p.Y + vel.Y*dt
}

// turnToward interpolates heading toward the direction of travel along the
// shortest angle. The factor turnSpeed*dt is deliberately unclamped; with a
// conservatively tuned turn speed it never exceeds 1 at nominal tick rates,
// but an oversized dt could overshoot the target angle.
func turnToward(p *Player, dir Vec, dt float64, tun *Tuning) {
	target := math.Atan2(dir.Y, dir.X)
	p.Heading = lerpAngle(p.Heading, target, tun.TurnSpeed*dt)
}

// lerpAngle interpolates from a to b by f along the shortest arc.
func lerpAngle(a, b, f float64) float64 {
	diff := normalizeAngle(b - a)
	return normalizeAngle(a + diff*f)
}

// normalizeAngle wraps an angle into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
