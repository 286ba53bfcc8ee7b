package models

// ResolutionSource tags which stage of the relawan lookup produced a result
type ResolutionSource string

const (
	// SourcePrimary means the server-side filter returned records.
	SourcePrimary ResolutionSource = "primary"
	// SourceFallback means records came from filtering the full dataset locally.
	SourceFallback ResolutionSource = "fallback"
	// SourceEmpty means neither stage could produce a usable dataset.
	SourceEmpty ResolutionSource = "empty"
)

// Resolution is the outcome of a relawan lookup
type Resolution struct {
	Source   ResolutionSource `json:"source"`
	Envelope Envelope         `json:"envelope"`
}

// RelawanList is returned when listing distinct relawan names
type RelawanList struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
	Total  int      `json:"total"`
}

// ConnectionStatus is returned by the connectivity check endpoint
type ConnectionStatus struct {
	Status    string `json:"status"`
	Result    string `json:"result"`
	Connected bool   `json:"connected"`
}
