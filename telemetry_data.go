// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filesig

import (
	"context"
	"encoding/json"
	"time"
)

const (
	operationIdentify = "identify"
	operationExtract  = "extract"
)

// TelemetryData holds all telemetry data of one identification or extraction.
type TelemetryData struct {
	// Operation is either "identify" or "extract"
	Operation string `json:"operation"`

	// Path is the path of the inspected file
	Path string `json:"path"`

	// Label is the identified type label, or the label extraction was asked for
	Label string `json:"label"`

	// Source is how the label was determined (identification only)
	Source Source `json:"source,omitempty"`

	// Strategy is the extraction strategy that was used (extraction only)
	Strategy string `json:"strategy,omitempty"`

	// Outcome is the kind of the extraction result (extraction only)
	Outcome string `json:"outcome,omitempty"`

	// Duration is the time the call took
	Duration time.Duration `json:"duration"`

	// InputSize is the number of bytes read from the file
	InputSize int64 `json:"input_size"`

	// PayloadSize is the size of the extracted payload
	PayloadSize int64 `json:"payload_size"`

	// LastError is the error that ended the call, if any
	LastError error `json:"last_error"`
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastError != nil {
		lastError = m.LastError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastError string `json:"last_error"`
		*Alias
	}{
		LastError: lastError,
		Alias:     (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after an identification or extraction has finished, which can be used to submit
// the [TelemetryData] to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// now is a function point that returns time.Now to the caller.
var now = time.Now

// captureDuration captures the duration of the call
func captureDuration(td *TelemetryData, start time.Time) {
	td.Duration = now().Sub(start)
}
