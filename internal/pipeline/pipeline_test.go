package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
	"github.com/couchcryptid/neo-risk-engine/internal/observability"
	"github.com/couchcryptid/neo-risk-engine/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	events []domain.RawEvent
	done   atomic.Bool
	err    error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.done.Swap(true) || len(m.events) == 0 {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if len(m.events) > batchSize {
		return m.events[:batchSize], nil
	}
	return m.events, nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Assessment, error) {
	if m.err != nil {
		return domain.Assessment{}, m.err
	}
	return domain.Assessment{Result: domain.RiskResult{ID: string(raw.Key), RiskScore: 50}}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.Assessment
	calls  atomic.Int64
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, assessments []domain.Assessment) error {
	m.calls.Add(1)
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, assessments...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawEvent(t, validRecord("3542519"))

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "3542519", ldr.loaded[0].Result.ID)
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Assessments.WithLabelValues("stream", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no events, will block
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorIsCountedAndCommitted(t *testing.T) {
	commits := 0
	raw := makeRawEvent(t, validRecord("3542519"))
	raw.Commit = func(_ context.Context) error {
		commits++
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	tfm := &mockTransformer{err: domain.ErrInvalidDiameter(-1)}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 10)
	runFor(t, p, 500*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Equal(t, int64(0), ldr.calls.Load(), "nothing to load")
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1, commits, "rejected records should be committed")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentErrors.WithLabelValues(string(domain.CategoryInvalidInput))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Assessments.WithLabelValues("stream", string(domain.CategoryInvalidInput))))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false

	raw := makeRawEvent(t, validRecord("3542519"))
	raw.Topic = "raw-neo-records"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.True(t, commitCalled)
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	commitCalled := false

	raw := makeRawEvent(t, validRecord("3542519"))
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	runFor(t, p, 500*time.Millisecond)

	assert.False(t, commitCalled)
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, int64(1), ldr.calls.Load())
}

func TestPipeline_Run_MixedBatch(t *testing.T) {
	good := makeRawEvent(t, validRecord("3542519"))
	bad := makeRawEvent(t, domain.RawRecord{ID: "  ", DiameterKm: 0.1, DistanceKm: ptr(1)})
	missing := makeRawEvent(t, domain.RawRecord{ID: "3726710", DiameterKm: 0.06})
	overflow := makeRawEvent(t, domain.RawRecord{ID: "huge", DiameterKm: 1e200, DistanceKm: ptr(1)})

	ext := &mockExtractor{events: []domain.RawEvent{good, bad, missing, overflow}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, pipeline.NewTransformer(slog.Default()), ldr, slog.Default(), metrics, 10)
	runFor(t, p, 500*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "3542519", ldr.loaded[0].Result.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentErrors.WithLabelValues(string(domain.CategoryInvalidInput))))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AssessmentErrors.WithLabelValues(string(domain.CategoryInvalidDomainData))))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesProduced))
}

func TestPipeline_Run_RespectsBatchSize(t *testing.T) {
	events := []domain.RawEvent{
		makeRawEvent(t, validRecord("a")),
		makeRawEvent(t, validRecord("b")),
		makeRawEvent(t, validRecord("c")),
	}
	ext := &mockExtractor{events: events}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 2)
	runFor(t, p, 500*time.Millisecond)

	assert.Len(t, ldr.loaded, 2)
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("fetch failed")}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)
	start := time.Now()
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestRiskTransformer_Transform(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.October, 12, 6, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})

	tfm := pipeline.NewTransformer(slog.Default())
	out, err := tfm.Transform(context.Background(), makeRawEvent(t, validRecord("3542519")))
	require.NoError(t, err)

	assert.Equal(t, fakeClock.Now(), out.AssessedAt)

	want := domain.RiskResult{
		ID:          "3542519",
		Name:        "(2010 PK9)",
		Hazardous:   true,
		DistanceKm:  4500000,
		VelocityKps: 20,
		DiameterKm:  1,
	}
	got := out.Result
	got.EnergyJoules, got.EnergyMegatons, got.RiskScore = 0, 0, 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 100.0, out.Result.RiskScore, 1e-9)
}

func TestRiskTransformer_Transform_Malformed(t *testing.T) {
	tfm := pipeline.NewTransformer(slog.Default())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	require.Error(t, err)
	assert.Equal(t, domain.CategoryInvalidInput, domain.Classify(err))
}

// --- helpers ---

func ptr(v float64) *float64 { return &v }

func validRecord(id string) domain.RawRecord {
	return domain.RawRecord{
		ID:          id,
		Name:        "(2010 PK9)",
		DiameterKm:  1,
		VelocityKps: 20,
		Hazardous:   true,
		DistanceKm:  ptr(4500000),
	}
}

func makeRawEvent(t *testing.T, rec domain.RawRecord) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(rec.ID),
		Value: data,
	}
}
