package minicodelab

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// generationTimeout bounds a single generation pass.
	generationTimeout = 2 * time.Minute
	// maxGenerationAttempts caps how often a pass restarts after Invalidate.
	maxGenerationAttempts = 3
)

// GenerateFunc produces the props of a statically generated page.
type GenerateFunc[T any] func(ctx context.Context) (T, error)

// StaticPage holds the last generated props of a page and regenerates them
// once they are older than the revalidation interval.
type StaticPage[T any] struct {
	name       string
	generate   GenerateFunc[T]
	revalidate time.Duration
	logger     *slog.Logger

	mu        sync.RWMutex
	props     T
	generated time.Time
	ok        bool
	version   uint64 // bumped by Invalidate

	group singleflight.Group
}

// NewStaticPage creates a page that regenerates every revalidate interval.
func NewStaticPage[T any](name string, revalidate time.Duration, generate GenerateFunc[T], logger *slog.Logger) *StaticPage[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticPage[T]{
		name:       name,
		generate:   generate,
		revalidate: revalidate,
		logger:     logger,
	}
}

// Name returns the page name used in logs.
func (p *StaticPage[T]) Name() string {
	return p.name
}

// Revalidate returns the regeneration interval.
func (p *StaticPage[T]) Revalidate() time.Duration {
	return p.revalidate
}

func (p *StaticPage[T]) fresh() bool {
	return p.ok && time.Since(p.generated) < p.revalidate
}

// Props returns the current props, regenerating them first when stale.
func (p *StaticPage[T]) Props(ctx context.Context) (T, error) {
	p.mu.RLock()
	if p.fresh() {
		props := p.props
		p.mu.RUnlock()
		return props, nil
	}
	p.mu.RUnlock()
	return p.Regenerate(ctx)
}

// Regenerate runs a generation pass. Concurrent callers share one pass, which
// runs detached from any single caller's context and bounded by
// generationTimeout; each caller still stops waiting when its own ctx ends.
// When the pass fails and earlier props exist, the error is logged and the
// earlier props are returned; without earlier props the error is returned.
func (p *StaticPage[T]) Regenerate(ctx context.Context) (T, error) {
	ch := p.group.DoChan(p.name, func() (any, error) {
		return p.pass(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return p.fallback(res.Err)
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// pass generates the props and stores them, starting over when Invalidate
// is called while generate runs.
func (p *StaticPage[T]) pass(ctx context.Context) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		p.mu.RLock()
		version := p.version
		p.mu.RUnlock()

		start := time.Now()
		props, err := p.generate(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		if p.version == version {
			p.props = props
			p.generated = time.Now()
			p.ok = true
			p.mu.Unlock()
			p.logger.Info("page generated", "page", p.name, "duration", time.Since(start))
			return props, nil
		}
		p.mu.Unlock()
		if attempt == maxGenerationAttempts {
			p.logger.Warn("page invalidated during every generation attempt, serving uncached props", "page", p.name)
			return props, nil
		}
		p.logger.Debug("page invalidated during generation, regenerating", "page", p.name)
	}
}

func (p *StaticPage[T]) fallback(err error) (T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.ok {
		p.logger.Error("page regeneration failed, keeping previous props", "page", p.name, "error", err)
		return p.props, nil
	}
	var zero T
	p.logger.Error("page generation failed", "page", p.name, "error", err)
	return zero, err
}

// Invalidate drops the cached props so the next read triggers a fresh pass.
func (p *StaticPage[T]) Invalidate() {
	p.mu.Lock()
	var zero T
	p.props = zero
	p.ok = false
	p.version++
	p.mu.Unlock()
}
