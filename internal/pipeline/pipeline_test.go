package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/couchcryptid/suntimes/internal/observability"
	"github.com/couchcryptid/suntimes/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	mu       sync.Mutex
	messages []domain.RawMessage
	errs     []error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error) {
	m.mu.Lock()
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		m.mu.Unlock()
		return nil, err
	}
	if len(m.messages) > 0 {
		n := min(batchSize, len(m.messages))
		batch := m.messages[:n]
		m.messages = m.messages[n:]
		m.mu.Unlock()
		return batch, nil
	}
	m.mu.Unlock()

	// block until context cancelled to simulate waiting for messages
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	fail map[string]bool
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	if m.fail[string(raw.Key)] {
		return domain.OutputMessage{}, errors.New("bad request")
	}
	return domain.OutputMessage{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	failures int
	loaded   []domain.OutputMessage
	calls    int
}

func (m *mockLoader) LoadBatch(_ context.Context, out []domain.OutputMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, out...)
	return nil
}

func (m *mockLoader) snapshot() []domain.OutputMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputMessage(nil), m.loaded...)
}

type commitLog struct {
	mu   sync.Mutex
	keys []string
}

func (c *commitLog) message(key string) domain.RawMessage {
	return domain.RawMessage{
		Key:   []byte(key),
		Value: []byte(`{"city":"Paris"}`),
		Topic: "solar-requests",
		Commit: func(_ context.Context) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.keys = append(c.keys, key)
			return nil
		},
	}
}

func (c *commitLog) committed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{messages: []domain.RawMessage{commits.message("a"), commits.message("b"), commits.message("c")}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 2)
	require.Error(t, p.CheckReadiness(context.Background()))

	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 3)
	assert.Equal(t, []byte("a"), loaded[0].Key)
	assert.Equal(t, 2, ldr.calls, "batch size 2 splits three messages into two loads")
	assert.Equal(t, []string{"a", "b", "c"}, commits.committed())
	assert.True(t, p.Ready())
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_TransformErrorSkipsAndCommits(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{messages: []domain.RawMessage{commits.message("poison"), commits.message("good")}}
	tfm := &mockTransformer{fail: map[string]bool{"poison": true}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, []byte("good"), loaded[0].Key)
	assert.Equal(t, []string{"poison", "good"}, commits.committed(), "offsets commit in batch order")
}

func TestPipeline_Run_AllTransformsFail(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{messages: []domain.RawMessage{commits.message("x")}}
	tfm := &mockTransformer{fail: map[string]bool{"x": true}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.Zero(t, ldr.calls)
	assert.Equal(t, []string{"x"}, commits.committed())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_LoadFailureRetriesSameBatch(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{messages: []domain.RawMessage{commits.message("a")}}
	ldr := &mockLoader{failures: 1}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 600*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, []byte("a"), loaded[0].Key)
	assert.Equal(t, 2, ldr.calls)
	assert.Equal(t, []string{"a"}, commits.committed())
	assert.True(t, p.Ready())
}

func TestPipeline_Run_LoadFailureHoldsBatchUncommitted(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{messages: []domain.RawMessage{
		commits.message("poison"), commits.message("a"), commits.message("b"),
	}}
	tfm := &mockTransformer{fail: map[string]bool{"poison": true}}
	ldr := &mockLoader{failures: 1000}

	p := pipeline.New(ext, tfm, ldr, discardLogger(), observability.NewMetricsForTesting(), 2)
	runFor(t, p, 700*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.GreaterOrEqual(t, ldr.calls, 2, "the failed batch is retried")
	assert.Empty(t, commits.committed(), "nothing in the batch commits before its load succeeds")

	ext.mu.Lock()
	defer ext.mu.Unlock()
	assert.Len(t, ext.messages, 1, "no further batch is consumed while a load is failing")
	assert.False(t, p.Ready())
}

func TestPipeline_Run_RecoversAfterExtractError(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{
		errs:     []error{errors.New("leader not available")},
		messages: []domain.RawMessage{commits.message("a")},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 600*time.Millisecond)

	require.Len(t, ldr.snapshot(), 1)
	assert.Equal(t, []string{"a"}, commits.committed())
}
