package models

import "time"

// Missing-field tags produced by extraction.
const (
	MissingService  = "servicio"
	MissingDateTime = "fecha y hora"
)

// ExtractionResult is the best-effort structured reading of an utterance.
// LocalStart is a naive wall-clock instant to be interpreted in the
// professional's timezone. Empty/zero fields mean "not resolved".
type ExtractionResult struct {
	Service     string     `json:"service,omitempty"`
	LocalStart  *time.Time `json:"localStart,omitempty"`
	DurationMin int        `json:"durationMin,omitempty"`
	Modality    Modality   `json:"modality,omitempty"`
	Missing     []string   `json:"missing"`
	Clarify     string     `json:"clarify,omitempty"`
}

// Complete reports whether enough was resolved to proceed to availability.
func (r ExtractionResult) Complete() bool {
	return len(r.Missing) == 0
}
