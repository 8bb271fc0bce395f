package advice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sprite-ai/veloratio/internal/analysis"
	"github.com/sprite-ai/veloratio/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest() Request {
	return Request{
		Setup:                "32/48T x 11-32T (11-speed)",
		FrontTeeth:           48,
		RearTeeth:            19,
		CadenceRPM:           90,
		SpeedKmh:             31.9,
		GradientPercent:      0,
		WindKmh:              0,
		PowerWatts:           178.4,
		TotalMassKg:          77,
		GearClass:            analysis.ClassCruising,
		Chainrings:           []int{32, 48},
		Cassette:             []int{32, 28, 25, 23, 21, 19, 17, 15, 13, 12, 11},
		WheelCircumferenceMm: 2105,
	}
}

func newMockGenerator(t *testing.T) *MockGenerator {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	gen.EXPECT().Name().Return("mock").AnyTimes()
	return gen
}

func TestAdviseSuccess(t *testing.T) {
	gen := newMockGenerator(t)
	req := sampleRequest()
	gen.EXPECT().
		GenerateJSON(gomock.Any(), req.Prompt(), req).
		Return(json.RawMessage(`{"advice":"Hold this gear.","category":"cruising"}`), nil)

	a := NewAdapter(gen, WithLogger(quietLogger()))
	got := a.Advise(context.Background(), req)

	assert.Equal(t, model.AdviceResult{Advice: "Hold this gear.", Category: model.CategoryCruising}, got)
}

func TestAdviseFallbackOnTransportError(t *testing.T) {
	gen := newMockGenerator(t)
	gen.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	a := NewAdapter(gen, WithLogger(quietLogger()))
	assert.Equal(t, model.FallbackAdvice(), a.Advise(context.Background(), sampleRequest()))
}

func TestAdviseFallbackOnMalformedReply(t *testing.T) {
	payloads := map[string]string{
		"not json":         `Sure! Here is some advice.`,
		"empty":            ``,
		"unknown category": `{"advice":"Go faster","category":"downhill"}`,
		"missing advice":   `{"category":"climbing"}`,
		"blank advice":     `{"advice":"   ","category":"climbing"}`,
		"wrong type":       `{"advice":42,"category":"climbing"}`,
		"array":            `[{"advice":"x","category":"climbing"}]`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			gen := newMockGenerator(t)
			gen.EXPECT().
				GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(json.RawMessage(payload), nil)

			a := NewAdapter(gen, WithLogger(quietLogger()))
			assert.Equal(t, model.FallbackAdvice(), a.Advise(context.Background(), sampleRequest()))
		})
	}
}

func TestAdviseRecoversFromPanic(t *testing.T) {
	gen := newMockGenerator(t)
	gen.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any) (json.RawMessage, error) {
			panic("boom")
		})

	a := NewAdapter(gen, WithLogger(quietLogger()))
	assert.Equal(t, model.FallbackAdvice(), a.Advise(context.Background(), sampleRequest()))
}

func TestAdviseTimeout(t *testing.T) {
	gen := newMockGenerator(t)
	gen.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ any) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	a := NewAdapter(gen, WithTimeout(20*time.Millisecond), WithLogger(quietLogger()))
	start := time.Now()
	got := a.Advise(context.Background(), sampleRequest())

	assert.Equal(t, model.FallbackAdvice(), got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAdviseSharedCallOutlivesCancelledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := newMockGenerator(t)
	gen.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ any) (json.RawMessage, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return json.RawMessage(`{"advice":"Stay seated.","category":"climbing"}`), nil
		}).
		Times(1)

	// The cache makes a late second caller deterministic: it is answered
	// only if the shared call succeeded.
	a := NewAdapter(gen, WithCache(8), WithLogger(quietLogger()))
	req := sampleRequest()

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan model.AdviceResult, 1)
	go func() { first <- a.Advise(ctx, req) }()
	<-started

	// The first caller gives up; its own answer is the fallback.
	cancel()
	require.Equal(t, model.FallbackAdvice(), <-first)

	// A second caller joins the call still in flight.
	second := make(chan model.AdviceResult, 1)
	go func() { second <- a.Advise(context.Background(), req) }()
	time.Sleep(20 * time.Millisecond)
	close(release)

	want := model.AdviceResult{Advice: "Stay seated.", Category: model.CategoryClimbing}
	select {
	case got := <-second:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never answered")
	}
}

func TestAdviseNilGenerator(t *testing.T) {
	a := NewAdapter(nil, WithLogger(quietLogger()))
	assert.Equal(t, "none", a.Name())
	assert.Equal(t, model.FallbackAdvice(), a.Advise(context.Background(), sampleRequest()))
	assert.NoError(t, a.Close())
}

func TestAdviseCachesSuccessOnly(t *testing.T) {
	gen := newMockGenerator(t)
	gomock.InOrder(
		gen.EXPECT().
			GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("unavailable")),
		gen.EXPECT().
			GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(json.RawMessage(`{"advice":"Spin.","category":"cruising"}`), nil),
	)

	a := NewAdapter(gen, WithCache(8), WithLogger(quietLogger()))
	req := sampleRequest()

	require.Equal(t, model.FallbackAdvice(), a.Advise(context.Background(), req))

	want := model.AdviceResult{Advice: "Spin.", Category: model.CategoryCruising}
	require.Equal(t, want, a.Advise(context.Background(), req))
	// Served from the cache; a third generator call would fail the mock.
	require.Equal(t, want, a.Advise(context.Background(), req))
}

func TestAdviseCacheKeyedByInputs(t *testing.T) {
	gen := newMockGenerator(t)
	gen.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(json.RawMessage(`{"advice":"Spin.","category":"cruising"}`), nil).
		Times(2)

	a := NewAdapter(gen, WithCache(8), WithLogger(quietLogger()))
	req := sampleRequest()
	a.Advise(context.Background(), req)

	req.GradientPercent = 0.5
	a.Advise(context.Background(), req)
}

func TestAdapterClose(t *testing.T) {
	gen := newMockGenerator(t)
	gen.EXPECT().Close().Return(nil)
	assert.NoError(t, NewAdapter(gen).Close())
}
