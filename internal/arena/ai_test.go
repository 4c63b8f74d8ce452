package arena

import (
	"math"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestAITarget(t *testing.T) {
	tun := DefaultTuning()

	tests := map[string]struct {
		state     func() *State
		expTarget Vec
		expFound  bool
	}{
		"carrying drives home": {
			state: func() *State {
				s := NewState(tun.RoundTime)
				s.Players["bot"] = &Player{SessionId: "bot", Team: TeamRed, AI: true}
				s.Items = []*Item{
					{Id: "item-1", Status: ItemCarried, CarrierId: "bot"},
					{Id: "item-2", Status: ItemAvailable, X: 1, Y: 1},
				}
				return s
			},
			expTarget: tun.RedBase,
			expFound:  true,
		},
		"nearest loose item": {
			state: func() *State {
				s := NewState(tun.RoundTime)
				s.Players["bot"] = &Player{SessionId: "bot", Team: TeamRed, AI: true}
				s.Items = []*Item{
					{Id: "item-1", Status: ItemAvailable, X: 50, Y: 0},
					{Id: "item-2", Status: ItemDropped, X: 10, Y: 0},
					{Id: "item-3", Status: ItemScored, X: 1, Y: 0},
				}
				return s
			},
			expTarget: Vec{X: 10},
			expFound:  true,
		},
		"chases enemy carrier": {
			state: func() *State {
				s := NewState(tun.RoundTime)
				s.Players["bot"] = &Player{SessionId: "bot", Team: TeamRed, AI: true}
				s.Players["enemy"] = &Player{SessionId: "enemy", Team: TeamBlue, X: 30, Y: 40}
				s.Players["friend"] = &Player{SessionId: "friend", Team: TeamRed, X: 5, Y: 5}
				s.Items = []*Item{
					{Id: "item-1", Status: ItemCarried, CarrierId: "enemy"},
					{Id: "item-2", Status: ItemCarried, CarrierId: "friend"},
				}
				return s
			},
			expTarget: Vec{X: 30, Y: 40},
			expFound:  true,
		},
		"nothing to do": {
			state: func() *State {
				s := NewState(tun.RoundTime)
				s.Players["bot"] = &Player{SessionId: "bot", Team: TeamRed, AI: true}
				s.Players["friend"] = &Player{SessionId: "friend", Team: TeamRed, X: 5, Y: 5}
				s.Items = []*Item{
					{Id: "item-1", Status: ItemScored},
					{Id: "item-2", Status: ItemCarried, CarrierId: "friend"},
				}
				return s
			},
			expFound: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := tt.state()
			target, found := AITarget(s, s.Players["bot"], tun)
			testutil.AssertEqual(t, "found", found, tt.expFound)
			if tt.expFound {
				testutil.AssertEqual(t, "target", target, tt.expTarget)
			}
		})
	}
}

func TestStepAI_SlowerThanHumans(t *testing.T) {
	tun := DefaultTuning()
	s := NewState(tun.RoundTime)
	bot := &Player{SessionId: "bot", Team: TeamRed, AI: true}
	s.Players["bot"] = bot
	s.Items = []*Item{{Id: "item-1", Status: ItemAvailable, X: 1e4, Y: 0}}

	vel := &Vec{}
	dt := 1.0 / 60
	for i := 0; i < 600; i++ {
		StepAI(s, bot, vel, false, dt, tun)
	}

	speed := math.Hypot(vel.X, vel.Y)
	limit := tun.MaxSpeed * tun.AISpeedMult
	if speed > limit*1.001 {
		t.Errorf("bot speed %v exceeds limit %v", speed, limit)
	}
	if speed >= tun.MaxSpeed {
		t.Errorf("bot speed %v should stay below the human cap %v", speed, tun.MaxSpeed)
	}
}

func TestStepAI_HoldsInsideEpsilon(t *testing.T) {
	tun := DefaultTuning()
	s := NewState(tun.RoundTime)
	bot := &Player{SessionId: "bot", Team: TeamRed, AI: true, X: 10, Y: 10}
	s.Players["bot"] = bot
	// Loose item a hair away, inside the jitter guard.
	s.Items = []*Item{{Id: "item-1", Status: ItemAvailable, X: 10 + tun.AIEpsilon/2, Y: 10}}

	vel := &Vec{X: 2}
	dt := 0.5
	StepAI(s, bot, vel, false, dt, tun)

	// No steering: velocity only decays.
	approx(t, "vx", vel.X, 2*math.Pow(tun.Friction, dt), 1e-9)
	testutil.AssertEqual(t, "vy", vel.Y, 0.0)
}

func TestStepAI_IgnoresHazard(t *testing.T) {
	tun := DefaultTuning()
	s := NewState(tun.RoundTime)
	// Drop the bot right inside the hazard rect with speed to spare.
	bot := &Player{SessionId: "bot", Team: TeamRed, AI: true, X: 0, Y: 70}
	s.Players["bot"] = bot
	s.Items = []*Item{{Id: "item-1", Status: ItemAvailable, X: 0, Y: 90}}

	vel := &Vec{}
	StepAI(s, bot, vel, false, 1.0/60, tun)

	if !tun.Hazard.Contains(bot.X, bot.Y) {
		t.Errorf("bot at (%v, %v) should still be inside the hazard", bot.X, bot.Y)
	}
	testutil.AssertEqual(t, "justReset", bot.JustReset, false)
}
