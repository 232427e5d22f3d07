package web

import (
	"github.com/Alia5/analogdpad/apitypes"
	"github.com/Alia5/analogdpad/dpad"
)

// ClientMessage is sent by the page.
//
//	{"type":"sample","x":0.3,"y":-0.9}
//	{"type":"settings","settings":{...},"save":true}
type ClientMessage struct {
	Type     string         `json:"type"`
	X        float64        `json:"x,omitempty"`
	Y        float64        `json:"y,omitempty"`
	Settings *dpad.Settings `json:"settings,omitempty"`
	Save     bool           `json:"save,omitempty"`
}

// ServerMessage is sent to the page. Type is "state", "settings" or "error".
type ServerMessage struct {
	Type string `json:"type"`

	// state
	X              float64                    `json:"x,omitempty"`
	Y              float64                    `json:"y,omitempty"`
	Dpad           uint8                      `json:"dpad"`
	Direction      string                     `json:"direction,omitempty"`
	Classification *apitypes.ClassifyResponse `json:"classification,omitempty"`

	Settings *dpad.Settings `json:"settings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func newStateMessage(s dpad.Sample, tracked dpad.Direction, mode dpad.Mode, st dpad.State) ServerMessage {
	c := apitypes.NewClassifyResponse(mode, st)
	return ServerMessage{
		Type:           "state",
		X:              s.X,
		Y:              s.Y,
		Dpad:           uint8(tracked),
		Direction:      tracked.String(),
		Classification: &c,
	}
}

func newSettingsMessage(s dpad.Settings) ServerMessage {
	return ServerMessage{Type: "settings", Settings: &s}
}

func newErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: "error", Error: err.Error()}
}
