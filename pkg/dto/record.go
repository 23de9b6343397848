package dto

import (
	"encoding/json"
	"time"
)

type RecordResponse struct {
	Path      string          `json:"path"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UpdateRecordRequest struct {
	Fields  map[string]any `json:"fields"`
	Version int64          `json:"version"`
}

// SnapshotEvent is the payload of a realtime snapshot event.
type SnapshotEvent struct {
	Path    string           `json:"path"`
	Records []RecordResponse `json:"records"`
}

// ErrorResponse is the body of errors that carry a machine readable code.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Requested int    `json:"requested,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
}
