package apitypes

import (
	"fmt"
	"time"

	"github.com/Alia5/analogdpad/dpad"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// SettingsResponse carries the persisted addon settings.
type SettingsResponse struct {
	Settings dpad.Settings `json:"settings"`
}

// SettingsRevision is one saved version of the settings.
type SettingsRevision struct {
	ID        string        `json:"id"`
	ParentID  string        `json:"parentId,omitempty"`
	Active    bool          `json:"active"`
	Settings  dpad.Settings `json:"settings"`
	CreatedAt time.Time     `json:"createdAt"`
}

// HistoryRequest is the optional payload of config/history. A zero Limit
// lists every revision.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

type HistoryResponse struct {
	Revisions []SettingsRevision `json:"revisions"`
}

type RollbackRequest struct {
	ID string `json:"id"`
}

// ClassifyRequest is the payload of classify/{mode}. When Settings is nil the
// server uses its persisted settings; fields missing from Settings take their
// default values.
type ClassifyRequest struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Settings *dpad.Settings `json:"settings,omitempty"`
}

// ClassifyResponse describes one classification.
type ClassifyResponse struct {
	Mode      dpad.Mode `json:"mode"`
	Kind      string    `json:"kind"`
	Tier      string    `json:"tier"`
	Axis      string    `json:"axis"`
	Direction string    `json:"direction"`
	Dpad      uint8     `json:"dpad"`
	Hat       uint8     `json:"hat"`
}

// NewClassifyResponse flattens a dpad.State for the wire.
func NewClassifyResponse(mode dpad.Mode, st dpad.State) ClassifyResponse {
	return ClassifyResponse{
		Mode:      mode,
		Kind:      st.Kind.String(),
		Tier:      st.Tier().String(),
		Axis:      st.Axis().String(),
		Direction: st.Dir.String(),
		Dpad:      uint8(st.Dir),
		Hat:       st.Dir.Hat(),
	}
}

type ClassifyBatchRequest struct {
	Samples  []dpad.Sample  `json:"samples"`
	Settings *dpad.Settings `json:"settings,omitempty"`
}

type ClassifyBatchResponse struct {
	Results []ClassifyResponse `json:"results"`
}

// PreviewRequest is the payload of preview/{mode}. Zero sizes fall back to
// the server defaults.
type PreviewRequest struct {
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	Settings *dpad.Settings `json:"settings,omitempty"`
}

// PreviewResponse carries a base64 encoded PNG.
type PreviewResponse struct {
	Mode   dpad.Mode `json:"mode"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	PNG    []byte    `json:"png"`
}
