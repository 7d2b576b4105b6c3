package dto

import "time"

// WorkspaceEventMessage is the wire shape of one workspace event on the
// in-process bus.
type WorkspaceEventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
