package classifier

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/animal_rescue_dispatch/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider - провайдер с заранее заданным поведением
type fakeProvider struct {
	analyze func(ctx context.Context, image []byte, mediaType, prompt string) (string, error)
	calls   int
	prompt  string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Analyze(ctx context.Context, image []byte, mediaType, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.analyze(ctx, image, mediaType, prompt)
}

func newTestAdapter(t *testing.T, p Provider, timeout time.Duration) (*Adapter, *metrics.Metrics) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return NewAdapter(p, logger, m, timeout, 1024), m
}

func TestClassify_Success(t *testing.T) {
	p := &fakeProvider{analyze: func(context.Context, []byte, string, string) (string, error) {
		return `{"animal_type":"Cat","injury_location":"Tail","severity":2,"description":"Scratch"}`, nil
	}}
	a, m := newTestAdapter(t, p, time.Second)

	finding := a.Classify(context.Background(), []byte("not really an image"))

	assert.Equal(t, "Cat", finding.AnimalType)
	assert.Equal(t, "Tail", finding.InjuryLocation)
	assert.Equal(t, 2, finding.Severity)
	assert.False(t, finding.Fallback)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, Prompt, p.prompt)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("success")))
}

func TestClassify_ProviderError(t *testing.T) {
	p := &fakeProvider{analyze: func(context.Context, []byte, string, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	a, m := newTestAdapter(t, p, time.Second)

	finding := a.Classify(context.Background(), []byte("img"))

	assert.Equal(t, FallbackFinding(), finding)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("fallback")))
}

func TestClassify_Timeout(t *testing.T) {
	p := &fakeProvider{analyze: func(ctx context.Context, _ []byte, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	a, _ := newTestAdapter(t, p, 20*time.Millisecond)

	start := time.Now()
	finding := a.Classify(context.Background(), []byte("img"))

	assert.True(t, finding.Fallback)
	assert.Equal(t, DefaultSeverity, finding.Severity)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClassify_Panic(t *testing.T) {
	p := &fakeProvider{analyze: func(context.Context, []byte, string, string) (string, error) {
		panic("unexpected")
	}}
	a, m := newTestAdapter(t, p, time.Second)

	var finding = FallbackFinding()
	require.NotPanics(t, func() {
		finding = a.Classify(context.Background(), []byte("img"))
	})
	assert.Equal(t, FallbackFinding(), finding)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("fallback")))
}

func TestClassify_NilProvider(t *testing.T) {
	a, _ := newTestAdapter(t, nil, time.Second)

	finding := a.Classify(context.Background(), []byte("img"))

	assert.Equal(t, FallbackAnimalType, finding.AnimalType)
	assert.Equal(t, DefaultSeverity, finding.Severity)
}

func TestClassify_UnparseableResponse(t *testing.T) {
	p := &fakeProvider{analyze: func(context.Context, []byte, string, string) (string, error) {
		return "Sorry, I can't help with that.", nil
	}}
	a, _ := newTestAdapter(t, p, time.Second)

	finding := a.Classify(context.Background(), []byte("img"))

	assert.True(t, finding.Fallback)
	assert.Equal(t, FallbackDescription, finding.Description)
}

func TestClassify_HugeImageSendsOriginalBytes(t *testing.T) {
	data := withPNGDimensions(t, encodePNG(t, 4, 4), 12000, 12000)
	var sent []byte
	p := &fakeProvider{analyze: func(_ context.Context, image []byte, mediaType, _ string) (string, error) {
		sent = image
		assert.Equal(t, "image/png", mediaType)
		return `{"animal_type":"Dog","injury_location":"Head","severity":5,"description":"x"}`, nil
	}}
	a, _ := newTestAdapter(t, p, time.Second)

	finding := a.Classify(context.Background(), data)

	assert.False(t, finding.Fallback)
	assert.Equal(t, data, sent)
}

func TestClassify_ExpiredBeforeProviderCallFallsBack(t *testing.T) {
	p := &fakeProvider{analyze: func(context.Context, []byte, string, string) (string, error) {
		return `{"animal_type":"Cat"}`, nil
	}}
	a, m := newTestAdapter(t, p, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finding := a.Classify(ctx, []byte("not really an image"))

	assert.True(t, finding.Fallback)
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("fallback")))
}
