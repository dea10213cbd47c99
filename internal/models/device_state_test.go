package models

import "testing"

func TestParsePartialState(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		wantLCD     *bool
		wantSpeaker *bool
		wantErr     bool
	}{
		{"both_fields", `{"lcd_on":true,"speaker_on":false}`, Bool(true), Bool(false), false},
		{"lcd_only", `{"lcd_on":false}`, Bool(false), nil, false},
		{"empty_object", `{}`, nil, nil, false},
		{"null_field_means_no_change", `{"lcd_on":null,"speaker_on":true}`, nil, Bool(true), false},
		{"bad_field_keeps_good_one", `{"lcd_on":"yes","speaker_on":true}`, nil, Bool(true), true},
		{"unknown_keys_ignored", `{"fan_on":true}`, nil, nil, false},
		{"not_json", `lcd_on=true`, nil, nil, true},
		{"array", `[true]`, nil, nil, true},
		{"null_payload", `null`, nil, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePartialState([]byte(tc.in))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tc.wantErr)
			}
			if !sameBool(got.LCDOn, tc.wantLCD) {
				t.Errorf("LCDOn: got %v, want %v", deref(got.LCDOn), deref(tc.wantLCD))
			}
			if !sameBool(got.SpeakerOn, tc.wantSpeaker) {
				t.Errorf("SpeakerOn: got %v, want %v", deref(got.SpeakerOn), deref(tc.wantSpeaker))
			}
		})
	}
}

func TestTargetEndpoint(t *testing.T) {
	if ep, ok := TargetLCD.Endpoint(); !ok || ep != "/lcd_toggle" {
		t.Fatalf("lcd endpoint: %q %v", ep, ok)
	}
	if ep, ok := TargetSpeaker.Endpoint(); !ok || ep != "/speaker_toggle" {
		t.Fatalf("speaker endpoint: %q %v", ep, ok)
	}
	if _, ok := Target("fan").Endpoint(); ok {
		t.Fatalf("unknown target must not resolve")
	}
}

func sameBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(b *bool) any {
	if b == nil {
		return "<nil>"
	}
	return *b
}
