package room

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pixil98/go-arena/internal/arena"
)

// Inbound messages are tagged JSON, validated here before they touch the
// simulation.

type InputMessage struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type AddAIMessage struct {
	Team string `json:"team"`
}

type LeaveMessage struct{}

type envelope struct {
	Type string `json:"type"`
}

// DecodeMessage parses one inbound client message into its typed form.
func DecodeMessage(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing message: %w", err)
	}

	switch env.Type {
	case "input":
		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parsing input message: %w", err)
		}
		if !isFinite(msg.DX) || !isFinite(msg.DY) {
			return nil, fmt.Errorf("non-finite input vector")
		}
		return msg, nil

	case "add_ai":
		var msg AddAIMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parsing add_ai message: %w", err)
		}
		return msg, nil

	case "leave":
		return LeaveMessage{}, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

// Outbound messages.

type joinedMessage struct {
	Type      string     `json:"type"`
	SessionId string     `json:"sessionId"`
	Team      arena.Team `json:"team"`
}

type waterResetMessage struct {
	Type string `json:"type"`
}

type stateMessage struct {
	Type  string       `json:"type"`
	State *arena.State `json:"state"`
}

type stealCheckMessage struct {
	Type    string    `json:"type"`
	Carrier arena.Vec `json:"carrier"`
	Stealer arena.Vec `json:"stealer"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
