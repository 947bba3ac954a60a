// Package sources provides reusable candidate sources for the ranking
// pipeline: SQL-backed, Redis-backed, and a resilient WebSocket stream. All
// three speak a common CBOR wire envelope so producers can publish
// candidates without knowing which transport a consumer reads from.
package sources

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/onnwee/rankpipe/pipeline"
)

// Wire envelope errors.
var (
	ErrInvalidEnvelope = errors.New("invalid CBOR envelope")
	ErrMissingID       = errors.New("missing candidate id in envelope")
	ErrMissingPayload  = errors.New("missing payload in envelope")
)

// Envelope is the CBOR wire format shared by the Redis and stream sources.
// The payload stays raw until the consumer decodes it into its own type.
type Envelope struct {
	// ID is the candidate identifier assigned by the producer.
	ID string `cbor:"id"`

	// Origin names the producing system. A source may override it with its
	// own name when attributing candidates.
	Origin string `cbor:"origin,omitempty"`

	// Score is an optional producer-assigned prior score.
	Score float64 `cbor:"score,omitempty"`

	// Payload is the CBOR-encoded domain object.
	Payload cbor.RawMessage `cbor:"payload"`
}

// DecodeEnvelope decodes a CBOR-encoded candidate envelope.
// Returns the parsed envelope or an error if decoding or validation fails.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	if len(data) == 0 {
		return nil, ErrInvalidEnvelope
	}

	var env Envelope
	dec := cbor.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	if env.ID == "" {
		return nil, ErrMissingID
	}
	if len(env.Payload) == 0 {
		return nil, ErrMissingPayload
	}

	return &env, nil
}

// EncodeEnvelope encodes an envelope carrying payload to CBOR bytes.
func EncodeEnvelope(id, origin string, score float64, payload any) ([]byte, error) {
	raw, err := cbor.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	if err := enc.Encode(Envelope{ID: id, Origin: origin, Score: score, Payload: raw}); err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCandidate converts an envelope into a typed candidate, decoding the
// raw payload into T. origin overrides the envelope's origin when non-empty.
func DecodeCandidate[T any](env *Envelope, origin string) (pipeline.Candidate[T], error) {
	var payload T
	if err := cbor.Unmarshal(env.Payload, &payload); err != nil {
		return pipeline.Candidate[T]{}, fmt.Errorf("%w: payload: %v", ErrInvalidEnvelope, err)
	}
	if origin == "" {
		origin = env.Origin
	}
	c := pipeline.NewCandidate(env.ID, payload, origin)
	c.Score = env.Score
	return c, nil
}
