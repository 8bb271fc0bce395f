package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/sprite-ai/veloratio/internal/model"
)

// maxSharedCall bounds a collapsed call when no timeout is configured.
const maxSharedCall = 2 * time.Minute

// Adapter turns a Request into an AdviceResult. It never fails: any
// collaborator error or malformed reply becomes model.FallbackAdvice.
type Adapter struct {
	gen     Generator
	timeout time.Duration
	cache   *lru.Cache[string, model.AdviceResult]
	group   singleflight.Group
	logger  *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeout bounds each collaborator call. Zero leaves it to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// WithCache keeps up to size successful results keyed by Request.Key.
// Zero or less disables caching.
func WithCache(size int) Option {
	return func(a *Adapter) {
		if size <= 0 {
			a.cache = nil
			return
		}
		c, err := lru.New[string, model.AdviceResult](size)
		if err == nil {
			a.cache = c
		}
	}
}

// WithLogger sets the logger used for collaborator failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter wraps gen. A nil gen always yields the fallback. Without
// WithLogger the adapter logs to whatever slog.Default is at call time.
func NewAdapter(gen Generator, opts ...Option) *Adapter {
	a := &Adapter{gen: gen}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name reports the underlying generator.
func (a *Adapter) Name() string {
	if a.gen == nil {
		return "none"
	}
	return a.gen.Name()
}

// Close releases the generator.
func (a *Adapter) Close() error {
	if a.gen == nil {
		return nil
	}
	return a.gen.Close()
}

// Advise requests a tip for req. Concurrent calls for the same input tuple
// share one collaborator call.
func (a *Adapter) Advise(ctx context.Context, req Request) model.AdviceResult {
	key := req.Key()
	if a.cache != nil {
		if r, ok := a.cache.Get(key); ok {
			a.log().Debug("advice cache hit", "key", key)
			return r
		}
	}

	// The shared call outlives any single caller; each caller still gives
	// up on its own context.
	ch := a.group.DoChan(key, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if a.timeout <= 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, maxSharedCall)
			defer cancel()
		}
		start := time.Now()
		r, err := a.fetch(shared, req)
		if err != nil {
			a.log().Warn("advice unavailable, using fallback",
				"generator", a.Name(), "err", err, "elapsed", time.Since(start))
			return model.FallbackAdvice(), nil
		}
		a.log().Info("advice received",
			"generator", a.Name(), "category", r.Category.String(), "elapsed", time.Since(start))
		if a.cache != nil {
			a.cache.Add(key, r)
		}
		return r, nil
	})

	select {
	case <-ctx.Done():
		a.log().Warn("advice request abandoned, using fallback", "err", ctx.Err())
		return model.FallbackAdvice()
	case res := <-ch:
		r, ok := res.Val.(model.AdviceResult)
		if !ok {
			return model.FallbackAdvice()
		}
		return r
	}
}

func (a *Adapter) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}

func (a *Adapter) fetch(ctx context.Context, req Request) (result model.AdviceResult, err error) {
	if a.gen == nil {
		return result, errors.New("advice: no generator configured")
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("advice: generator panicked: %v", p)
		}
	}()

	raw, err := a.gen.GenerateJSON(ctx, req.Prompt(), req)
	if err != nil {
		return result, err
	}
	return Parse(raw)
}
