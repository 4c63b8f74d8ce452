package arena

import "math"

// AITarget picks the point an AI player should drive toward, in priority
// order: deliver a carried item to its own base, chase the nearest loose
// item, then chase the nearest enemy carrier. Returns false when there is
// nothing to do and the bot should coast to rest.
func AITarget(s *State, p *Player, tun *Tuning) (Vec, bool) {
	if s.CarriedBy(p.SessionId) != nil {
		return tun.BasePos(p.Team), true
	}

	if v, ok := nearestLooseItem(s, p); ok {
		return v, true
	}

	if v, ok := nearestEnemyCarrier(s, p); ok {
		return v, true
	}

	return Vec{}, false
}

func nearestLooseItem(s *State, p *Player) (Vec, bool) {
	best := math.Inf(1)
	var target Vec
	found := false
	for _, it := range s.Items {
		if it.Status != ItemAvailable && it.Status != ItemDropped {
			continue
		}
		if d := distSq(p.X, p.Y, it.X, it.Y); d < best {
			best = d
			target = Vec{X: it.X, Y: it.Y}
			found = true
		}
	}
	return target, found
}

func nearestEnemyCarrier(s *State, p *Player) (Vec, bool) {
	best := math.Inf(1)
	var target Vec
	found := false
	for _, it := range s.Items {
		if it.Status != ItemCarried {
			continue
		}
		carrier, ok := s.Players[it.CarrierId]
		if !ok || carrier.Team == p.Team {
			continue
		}
		if d := distSq(p.X, p.Y, carrier.X, carrier.Y); d < best {
			best = d
			target = Vec{X: carrier.X, Y: carrier.Y}
			found = true
		}
	}
	return target, found
}

// StepAI advances one AI player by dt seconds. Bots share the human
// friction/acceleration model but with reduced speed and acceleration, and
// they never trigger the hazard reset.
func StepAI(s *State, p *Player, vel *Vec, onRoad bool, dt float64, tun *Tuning) {
	target, hasTarget := AITarget(s, p, tun)

	var dir Vec
	hasDir := false
	if hasTarget {
		dx, dy := target.X-p.X, target.Y-p.Y
		mag := math.Hypot(dx, dy)
		// Hold direction inside the epsilon to avoid jitter at the target.
		if mag > tun.AIEpsilon {
			dir = Vec{X: dx / mag, Y: dy / mag}
			hasDir = true
		}
	}

	limit := tun.MaxSpeed * tun.AISpeedMult
	if onRoad {
		limit *= tun.RoadSpeedMult
	}

	nx, ny := integrate(p, vel, dir, hasDir, limit, tun.Accel*tun.AIAccelMult, tun.Friction, dt)
	p.X, p.Y = nx, ny

	if hasDir {
		turnToward(p, dir, dt, tun)
	}
}

func distSq(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return dx*dx + dy*dy
}
