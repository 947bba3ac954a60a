package sources

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/onnwee/rankpipe/pipeline"
)

// Default values for stream reconnection and buffering.
const (
	DefaultBaseDelay    = 100 * time.Millisecond
	DefaultMaxDelay     = 30 * time.Second
	DefaultJitterFactor = 0.5 // 50% jitter
	DefaultBufferSize   = 1024
)

// Stream configuration errors.
var (
	ErrEmptyURL        = errors.New("stream URL cannot be empty")
	ErrInvalidDelay    = errors.New("base delay must be positive")
	ErrInvalidMaxDelay = errors.New("max delay must be >= base delay")
	ErrInvalidJitter   = errors.New("jitter factor must be between 0 and 1")
	ErrInvalidBuffer   = errors.New("buffer size must be positive")
)

// StreamConfig holds configuration for the WebSocket stream source.
type StreamConfig struct {
	// URL is the WebSocket endpoint publishing candidate envelopes.
	URL string

	// BaseDelay is the initial delay before the first reconnect attempt.
	BaseDelay time.Duration

	// MaxDelay is the maximum delay between reconnect attempts.
	MaxDelay time.Duration

	// JitterFactor is the fraction of delay to randomize (0.0 to 1.0).
	// A value of 0.5 means the actual delay will be in [delay*0.75, delay*1.25].
	JitterFactor float64

	// BufferSize bounds how many candidates are held between fetches.
	// When full, the oldest buffered candidate is dropped.
	BufferSize int
}

// DefaultStreamConfig returns a StreamConfig with sensible default values.
// The URL must be provided by the caller.
func DefaultStreamConfig(url string) StreamConfig {
	return StreamConfig{
		URL:          url,
		BaseDelay:    DefaultBaseDelay,
		MaxDelay:     DefaultMaxDelay,
		JitterFactor: DefaultJitterFactor,
		BufferSize:   DefaultBufferSize,
	}
}

// Validate checks that the configuration is valid.
func (c StreamConfig) Validate() error {
	if c.URL == "" {
		return ErrEmptyURL
	}
	if c.BaseDelay <= 0 {
		return ErrInvalidDelay
	}
	if c.MaxDelay < c.BaseDelay {
		return ErrInvalidMaxDelay
	}
	if c.JitterFactor < 0 || c.JitterFactor > 1 {
		return ErrInvalidJitter
	}
	if c.BufferSize <= 0 {
		return ErrInvalidBuffer
	}
	return nil
}

// StreamSource is a resilient WebSocket consumer of candidate envelopes. It
// reconnects automatically with exponential backoff and jitter, buffers
// decoded candidates up to a bound, and serves them to pipeline runs
// through Fetch. Run must be started in its own goroutine before fetches
// see any data.
type StreamSource[T any] struct {
	config StreamConfig
	name   string
	logger *slog.Logger

	mu          sync.Mutex
	rng         *rand.Rand // protected by mu
	conn        *websocket.Conn
	isConnected bool
	buffer      []pipeline.Candidate[T] // protected by mu, oldest first

	// reconnectCount tracks consecutive reconnection attempts (atomic)
	reconnectCount int64

	// dropped counts candidates discarded because the buffer was full (atomic)
	dropped int64
}

// NewStreamSource creates a stream source with the given configuration.
func NewStreamSource[T any](config StreamConfig, name string, logger *slog.Logger) (*StreamSource[T], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamSource[T]{
		config: config,
		name:   name,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Name identifies the source in logs, metrics and candidate origins.
func (s *StreamSource[T]) Name() string { return s.name }

// Fetch drains up to max buffered candidates in arrival order. It never
// blocks waiting for the stream; an idle stream yields an empty fetch.
func (s *StreamSource[T]) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.buffer)
	if n > max {
		n = max
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]pipeline.Candidate[T], n)
	copy(out, s.buffer[:n])
	s.buffer = append(s.buffer[:0], s.buffer[n:]...)
	return out, nil
}

// Run starts the stream consumer and blocks until the context is cancelled.
// It will automatically reconnect with exponential backoff on connection
// failures.
func (s *StreamSource[T]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stream source stopping due to context cancellation",
				slog.String("source", s.name))
			s.close()
			return ctx.Err()
		default:
		}

		if err := s.connect(ctx); err != nil {
			attempt := atomic.LoadInt64(&s.reconnectCount) + 1
			s.logger.Warn("stream connection failed",
				slog.String("source", s.name),
				slog.String("error", err.Error()),
				slog.Int64("attempt", attempt))

			delay := s.computeBackoff()
			atomic.AddInt64(&s.reconnectCount, 1)

			s.logger.Info("scheduling reconnect",
				slog.String("source", s.name),
				slog.Duration("delay", delay),
				slog.Int64("attempt", atomic.LoadInt64(&s.reconnectCount)))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}

		// Reset reconnect count on successful connection
		atomic.StoreInt64(&s.reconnectCount, 0)

		s.readLoop(ctx)
	}
}

// connect establishes a WebSocket connection to the stream endpoint.
func (s *StreamSource[T]) connect(ctx context.Context) error {
	s.logger.Info("connecting to stream",
		slog.String("source", s.name),
		slog.String("url", s.config.URL))

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.config.URL, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.isConnected = true
	s.mu.Unlock()

	s.logger.Info("connected to stream", slog.String("source", s.name))
	return nil
}

// readLoop reads messages from the WebSocket connection until it closes.
func (s *StreamSource[T]) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Get connection under lock to prevent race with close()
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()

		if conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.logger.Warn("stream connection closed",
				slog.String("source", s.name),
				slog.String("error", err.Error()))
			s.close()
			return
		}

		s.ingest(payload)
	}
}

// ingest decodes one wire message and appends it to the buffer, evicting
// the oldest entry when the buffer is full.
func (s *StreamSource[T]) ingest(payload []byte) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		s.logger.Warn("discarding undecodable stream message",
			slog.String("source", s.name),
			slog.String("error", err.Error()))
		return
	}
	c, err := DecodeCandidate[T](env, s.name)
	if err != nil {
		s.logger.Warn("discarding undecodable stream payload",
			slog.String("source", s.name),
			slog.String("id", env.ID),
			slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	if len(s.buffer) >= s.config.BufferSize {
		s.buffer = s.buffer[1:]
		atomic.AddInt64(&s.dropped, 1)
	}
	s.buffer = append(s.buffer, c)
	s.mu.Unlock()
}

// close cleanly closes the WebSocket connection.
func (s *StreamSource[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.isConnected = false
}

// computeBackoff calculates the next reconnection delay with exponential backoff and jitter.
func (s *StreamSource[T]) computeBackoff() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Exponential backoff: baseDelay * 2^attempts using bit shifting
	// Cap the shift at 30 to prevent overflow (2^30 = ~1 billion)
	reconnectCount := atomic.LoadInt64(&s.reconnectCount)
	shift := uint(reconnectCount)
	if shift > 30 {
		shift = 30
	}
	backoff := float64(s.config.BaseDelay) * float64(uint64(1)<<shift)

	if backoff > float64(s.config.MaxDelay) {
		backoff = float64(s.config.MaxDelay)
	}

	// Apply jitter: delay * (1 - jitter/2 + rand*jitter)
	// This creates a range of [delay*(1-jitter/2), delay*(1+jitter/2)]
	if s.config.JitterFactor > 0 {
		jitter := (s.rng.Float64() - 0.5) * s.config.JitterFactor
		backoff = backoff * (1 + jitter)
	}

	return time.Duration(backoff)
}

// IsConnected returns whether the source is currently connected.
func (s *StreamSource[T]) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isConnected
}

// Dropped returns how many candidates have been evicted from a full buffer.
func (s *StreamSource[T]) Dropped() int64 {
	return atomic.LoadInt64(&s.dropped)
}

// Buffered returns how many candidates are waiting to be fetched.
func (s *StreamSource[T]) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}
