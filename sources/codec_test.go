package sources

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

type testPayload struct {
	Title string  `cbor:"title"`
	Rank  float64 `cbor:"rank"`
}

func TestEncodeDecodeEnvelope(t *testing.T) {
	data, err := EncodeEnvelope("cand-1", "backfill", 2.5, testPayload{Title: "hello", Rank: 0.9})
	if err != nil {
		t.Fatalf("EncodeEnvelope() error = %v", err)
	}

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}

	if env.ID != "cand-1" {
		t.Errorf("env.ID = %s, want cand-1", env.ID)
	}
	if env.Origin != "backfill" {
		t.Errorf("env.Origin = %s, want backfill", env.Origin)
	}
	if env.Score != 2.5 {
		t.Errorf("env.Score = %v, want 2.5", env.Score)
	}

	c, err := DecodeCandidate[testPayload](env, "")
	if err != nil {
		t.Fatalf("DecodeCandidate() error = %v", err)
	}
	if c.Payload.Title != "hello" || c.Payload.Rank != 0.9 {
		t.Errorf("payload = %+v, want {hello 0.9}", c.Payload)
	}
	if c.Origin != "backfill" {
		t.Errorf("c.Origin = %s, want backfill (from envelope)", c.Origin)
	}
	if c.Score != 2.5 {
		t.Errorf("c.Score = %v, want 2.5", c.Score)
	}
}

func TestDecodeCandidate_OriginOverride(t *testing.T) {
	data, err := EncodeEnvelope("cand-1", "upstream", 0, testPayload{Title: "x"})
	if err != nil {
		t.Fatalf("EncodeEnvelope() error = %v", err)
	}
	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}

	c, err := DecodeCandidate[testPayload](env, "stream")
	if err != nil {
		t.Fatalf("DecodeCandidate() error = %v", err)
	}
	if c.Origin != "stream" {
		t.Errorf("c.Origin = %s, want stream (override)", c.Origin)
	}
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "empty data",
			data:    nil,
			wantErr: ErrInvalidEnvelope,
		},
		{
			name:    "garbage bytes",
			data:    []byte{0xff, 0x00, 0x12},
			wantErr: ErrInvalidEnvelope,
		},
		{
			name: "missing id",
			data: mustEncode(t, map[string]any{
				"payload": []byte{0x01},
			}),
			wantErr: ErrMissingID,
		},
		{
			name: "missing payload",
			data: mustEncode(t, map[string]any{
				"id": "cand-1",
			}),
			wantErr: ErrMissingPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeEnvelope() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := cbor.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode test fixture: %v", err)
	}
	return data
}
