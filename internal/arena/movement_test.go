package arena

import (
	"math"
	"testing"

	"github.com/pixil98/go-testutil"
)

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, expected %v (±%v)", name, got, want, tol)
	}
}

func TestStepDriver_InvertsScreenDown(t *testing.T) {
	tun := DefaultTuning()
	p := &Player{SessionId: "s1"}
	vel := &Vec{}

	// dy = -1 is screen-up, which is world +Y.
	StepDriver(p, vel, Input{DX: 0, DY: -1}, false, 1.0/60, tun)

	if vel.Y <= 0 {
		t.Errorf("expected positive Y velocity, got %v", vel.Y)
	}
	testutil.AssertEqual(t, "x velocity", vel.X, 0.0)
	if p.Y <= 0 {
		t.Errorf("expected player to move toward +Y, got %v", p.Y)
	}
}

func TestStepDriver_FrictionOnlyWhenCoasting(t *testing.T) {
	tun := DefaultTuning()
	p := &Player{SessionId: "s1"}
	vel := &Vec{X: 10}

	dt := 0.5
	StepDriver(p, vel, Input{}, false, dt, tun)

	approx(t, "vx after friction", vel.X, 10*math.Pow(tun.Friction, dt), 1e-9)
	approx(t, "x after friction", p.X, vel.X*dt, 1e-9)
}

// steadySpeed drives straight for ten simulated seconds and returns the
// resulting speed. Friction pulls the steady state well below the nominal
// limit; the limit is the lerp target, not the cruising speed.
func steadySpeed(tun *Tuning, onRoad bool) float64 {
	p := &Player{SessionId: "s1"}
	vel := &Vec{}
	dt := 1.0 / 60
	for i := 0; i < 600; i++ {
		StepDriver(p, vel, Input{DX: 1}, onRoad, dt, tun)
	}
	return math.Hypot(vel.X, vel.Y)
}

func TestStepDriver_SpeedLimit(t *testing.T) {
	tun := DefaultTuning()
	// Keep the hazard out of the way of a long straight drive.
	tun.Hazard = Rect{MinX: 1e5, MinY: 1e5, MaxX: 1e5 + 1, MaxY: 1e5 + 1}

	offRoad := steadySpeed(tun, false)
	onRoad := steadySpeed(tun, true)

	if offRoad <= 0 || onRoad <= 0 {
		t.Fatalf("vehicle never moved: offRoad=%v onRoad=%v", offRoad, onRoad)
	}
	if offRoad > tun.MaxSpeed {
		t.Errorf("off-road speed %v exceeds limit %v", offRoad, tun.MaxSpeed)
	}
	if onRoad > tun.MaxSpeed*tun.RoadSpeedMult {
		t.Errorf("on-road speed %v exceeds boosted limit %v", onRoad, tun.MaxSpeed*tun.RoadSpeedMult)
	}
	if onRoad <= offRoad {
		t.Errorf("road boost had no effect: onRoad=%v offRoad=%v", onRoad, offRoad)
	}
}

func TestStepDriver_HazardReset(t *testing.T) {
	tun := DefaultTuning()
	p := &Player{SessionId: "s1", X: 0, Y: 55}
	vel := &Vec{Y: 200}

	StepDriver(p, vel, Input{}, false, 0.05, tun)

	testutil.AssertEqual(t, "x", p.X, 0.0)
	testutil.AssertEqual(t, "y", p.Y, 0.0)
	testutil.AssertEqual(t, "vx", vel.X, 0.0)
	testutil.AssertEqual(t, "vy", vel.Y, 0.0)
	testutil.AssertEqual(t, "justReset", p.JustReset, true)
}

func TestStepDriver_InvalidVelocityZeroed(t *testing.T) {
	tun := DefaultTuning()
	p := &Player{SessionId: "s1", X: 3, Y: 4}
	vel := &Vec{X: math.NaN(), Y: math.Inf(1)}

	StepDriver(p, vel, Input{}, false, 1.0/60, tun)

	testutil.AssertEqual(t, "vx", vel.X, 0.0)
	testutil.AssertEqual(t, "vy", vel.Y, 0.0)
	testutil.AssertEqual(t, "x", p.X, 3.0)
	testutil.AssertEqual(t, "y", p.Y, 4.0)
}

func TestStepDriver_Heading(t *testing.T) {
	tun := DefaultTuning()

	t.Run("holds without input", func(t *testing.T) {
		p := &Player{SessionId: "s1", Heading: 1.2}
		StepDriver(p, &Vec{}, Input{}, false, 1.0/60, tun)
		testutil.AssertEqual(t, "heading", p.Heading, 1.2)
	})

	t.Run("turns toward travel direction", func(t *testing.T) {
		p := &Player{SessionId: "s1", Heading: math.Pi / 2}
		StepDriver(p, &Vec{}, Input{DX: 1}, false, 1.0/60, tun)
		if p.Heading >= math.Pi/2 {
			t.Errorf("heading %v did not turn toward 0", p.Heading)
		}
		if p.Heading < 0 {
			t.Errorf("heading %v overshot the target", p.Heading)
		}
	})
}

func TestLerpAngle_ShortestArc(t *testing.T) {
	tests := map[string]struct {
		from, to, f float64
		exp         float64
	}{
		"simple": {
			from: 0, to: 1, f: 0.5,
			exp: 0.5,
		},
		"wraps across pi": {
			from: math.Pi - 0.1, to: -math.Pi + 0.1, f: 0.5,
			exp: math.Pi, // halfway along the short arc through pi
		},
		"no movement": {
			from: 0.7, to: 0.7, f: 0.5,
			exp: 0.7,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := lerpAngle(tt.from, tt.to, tt.f)
			approx(t, "angle", math.Abs(got), math.Abs(tt.exp), 1e-9)
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	approx(t, "above pi", normalizeAngle(3*math.Pi/2), -math.Pi/2, 1e-9)
	approx(t, "below -pi", normalizeAngle(-3*math.Pi/2), math.Pi/2, 1e-9)
	approx(t, "in range", normalizeAngle(1), 1, 1e-9)
}
