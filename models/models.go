package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a single pengajuan row as stored by the remote backend.
// Keys are opaque to the gateway apart from the fields named below.
type Record map[string]interface{}

// Well-known record fields
const (
	FieldID           = "id"
	FieldTanggalAjuan = "tanggalAjuan"
	FieldRelawan      = "relawan"
	FieldAction       = "action"
	FieldStatus       = "status"
	FieldAlasan       = "alasan"
)

// Relawan returns the stringified relawan field. ok is false when the
// field is missing or holds a falsy value (null, false, 0, "").
func (r Record) Relawan() (string, bool) {
	v, exists := r[FieldRelawan]
	if !exists {
		return "", false
	}

	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return strconv.FormatBool(val), val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), val != 0
	case json.Number:
		f, err := val.Float64()
		return val.String(), err != nil || f != 0
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// NormalizeRelawan trims and lower-cases a relawan name for comparison
func NormalizeRelawan(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Envelope is the {status, data, message} shape used by every gateway operation
type Envelope struct {
	Status  string   `json:"status"`
	Data    []Record `json:"data"`
	Message string   `json:"message,omitempty"`

	// Raw holds the response body the envelope was decoded from, if any.
	Raw json.RawMessage `json:"-"`
}

// EmptyEnvelope returns a success envelope with no records
func EmptyEnvelope() Envelope {
	return Envelope{
		Status: StatusSuccess,
		Data:   []Record{},
	}
}

// IsSuccess reports whether the envelope carries the success status
func (e Envelope) IsSuccess() bool {
	return e.Status == StatusSuccess
}

// HasData reports whether the envelope carries at least one record
func (e Envelope) HasData() bool {
	return len(e.Data) > 0
}

// UpdateRequest is the body sent to the backend when changing a pengajuan status
type UpdateRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
	Status string `json:"status"`
	Alasan string `json:"alasan"`
}

// StatusUpdate is the body accepted by the local API for status changes
type StatusUpdate struct {
	Status string `json:"status"`
	Alasan string `json:"alasan,omitempty"`
}
