package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wire keys used by /status and push frames.
const (
	KeyLCDOn     = "lcd_on"
	KeySpeakerOn = "speaker_on"
)

// PartialState is a device state delta. A nil field means "no change",
// never "off".
type PartialState struct {
	LCDOn     *bool `json:"lcd_on,omitempty"`
	SpeakerOn *bool `json:"speaker_on,omitempty"`
}

// Empty reports whether the delta carries no field at all.
func (p PartialState) Empty() bool {
	return p.LCDOn == nil && p.SpeakerOn == nil
}

var errNotObject = errors.New("device state payload is not a JSON object")

// ParsePartialState decodes a device state delta field by field. A field of
// the wrong type is skipped and reported in the returned error; the other
// fields are still returned. A payload that is not a JSON object yields an
// empty state and an error.
func ParsePartialState(data []byte) (PartialState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return PartialState{}, fmt.Errorf("%w: %v", errNotObject, err)
	}
	if raw == nil {
		return PartialState{}, errNotObject
	}

	var (
		out  PartialState
		errs []error
	)
	for key, dst := range map[string]**bool{
		KeyLCDOn:     &out.LCDOn,
		KeySpeakerOn: &out.SpeakerOn,
	} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var v *bool
		if err := json.Unmarshal(msg, &v); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		// explicit null is treated like an absent field
		*dst = v
	}
	return out, errors.Join(errs...)
}

// Bool returns a pointer to v, for building partial states.
func Bool(v bool) *bool { return &v }

// Source tags where a field's current value came from.
type Source string

const (
	SourceUnknown    Source = "unknown"
	SourceOptimistic Source = "optimistic"
	SourceConfirmed  Source = "confirmed"
)

// FieldState is one boolean output as last known by the client.
type FieldState struct {
	On     bool   `json:"on"`
	Known  bool   `json:"known"`
	Source Source `json:"source"`
}

// DeviceSnapshot is a value copy of both outputs.
type DeviceSnapshot struct {
	LCD     FieldState `json:"lcd"`
	Speaker FieldState `json:"speaker"`
}

// Target names a toggleable output.
type Target string

const (
	TargetLCD     Target = "lcd"
	TargetSpeaker Target = "speaker"
)

// Endpoint returns the device path that toggles t.
func (t Target) Endpoint() (string, bool) {
	switch t {
	case TargetLCD:
		return "/lcd_toggle", true
	case TargetSpeaker:
		return "/speaker_toggle", true
	default:
		return "", false
	}
}
