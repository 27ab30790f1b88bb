package clock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/display"
	domain "github.com/oshokin/dst-clock/internal/domain/clock"
	"github.com/oshokin/dst-clock/internal/dst"
	"github.com/oshokin/dst-clock/internal/logger"
	"github.com/oshokin/dst-clock/internal/observability"
	"github.com/oshokin/dst-clock/internal/timesource"
)

// syncReporter is implemented by sources that expose their last NTP query.
type syncReporter interface {
	Server() string
	LastSync() (timesource.Sync, error)
}

// LoopConfig holds the collaborators and timing of a Loop.
type LoopConfig struct {
	// Source provides network time and applies the offset.
	Source timesource.Source
	// Engine decides the offset.
	Engine *dst.Engine
	// Sink renders the time string.
	Sink display.Sink
	// Metrics receives loop metrics; nil uses unregistered collectors.
	Metrics *observability.Metrics
	// Clock drives the ticker; nil uses the real clock.
	Clock clockwork.Clock
	// RenderInterval is the period of one iteration.
	RenderInterval time.Duration
	// ReconcileEvery is the number of iterations between DST checks.
	ReconcileEvery int
	// Policy is config.ReconcileExact or config.ReconcileLocal.
	Policy string
}

// ErrNotSynced is reported by CheckReadiness before the first NTP sync.
var ErrNotSynced = errors.New("network time not synchronized yet")

// reconcileFunc decides the offset for an epoch given the applied one.
type reconcileFunc func(utcEpoch int64, current dst.Offset) (dst.Offset, bool)

// yearFunc returns the calendar year a reconcileFunc reads its transition
// days from.
type yearFunc func(utcEpoch int64, current dst.Offset) int

// utcYear is the year the exact policy decides in.
func utcYear(utcEpoch int64, _ dst.Offset) int {
	return time.Unix(utcEpoch, 0).UTC().Year()
}

// localYear is the year of the local moment the local policy decides on.
func localYear(utcEpoch int64, current dst.Offset) int {
	return dst.MomentFromEpoch(utcEpoch + int64(current)).Year
}

// Loop is the clock control loop.
type Loop struct {
	source         timesource.Source
	engine         *dst.Engine
	sink           display.Sink
	metrics        *observability.Metrics
	clock          clockwork.Clock
	renderInterval time.Duration
	reconcileEvery int
	reconcile      reconcileFunc
	decisionYear   yearFunc

	// Owned by the render goroutine.
	state           *dst.OffsetState
	iteration       int
	reconciliations int
	skipped         int
	display         string
	warnedYears     map[int]struct{}

	// mu protects lastSync, written by the sync goroutine, and snapshot.
	mu       sync.RWMutex
	lastSync *domain.SyncInfo
	snapshot *domain.Snapshot
}

// NewLoop builds a loop, filling defaults for zero fields.
func NewLoop(cfg LoopConfig) *Loop {
	l := &Loop{
		source:         cfg.Source,
		engine:         cfg.Engine,
		sink:           cfg.Sink,
		metrics:        cfg.Metrics,
		clock:          cfg.Clock,
		renderInterval: cfg.RenderInterval,
		reconcileEvery: cfg.ReconcileEvery,
		state:          dst.NewOffsetState(),
		warnedYears:    make(map[int]struct{}),
		snapshot:       new(domain.Snapshot),
	}

	if l.engine == nil {
		l.engine = dst.NewEngine(nil)
	}

	if l.metrics == nil {
		l.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	if l.clock == nil {
		l.clock = clockwork.NewRealClock()
	}

	if l.renderInterval <= 0 {
		l.renderInterval = config.DefaultRenderInterval
	}

	if l.reconcileEvery <= 0 {
		l.reconcileEvery = config.DefaultReconcileEvery
	}

	l.reconcile, l.decisionYear = l.engine.ReconcileExact, utcYear
	if cfg.Policy == config.ReconcileLocal {
		l.reconcile, l.decisionYear = l.engine.Reconcile, localYear
	}

	return l
}

// Run syncs, reconciles and renders once, then repeats every render
// interval until ctx is canceled. Later syncs run on their own goroutine so
// a slow or unreachable server never delays a render.
func (l *Loop) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "loop")

	logger.InfoKV(ctx, "Clock loop started",
		"render_interval", l.renderInterval.String(),
		"reconcile_every", l.reconcileEvery,
	)

	l.sync(ctx, true)
	l.reconcileOffset(ctx)
	l.render(ctx)
	l.publish()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		l.syncLoop(ctx)
	}()

	defer wg.Wait()

	ticker := l.clock.NewTicker(l.renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.Chan():
			l.step(ctx)
		}
	}
}

// syncLoop offers the source an update every render interval. The source
// decides whether a query is due.
func (l *Loop) syncLoop(ctx context.Context) {
	ticker := l.clock.NewTicker(l.renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			l.sync(ctx, false)
		}
	}
}

// step is one render iteration after the first.
func (l *Loop) step(ctx context.Context) {
	l.iteration++

	if l.iteration%l.reconcileEvery == 0 {
		l.reconcileOffset(ctx)
	}

	l.render(ctx)
	l.publish()
}

// sync refreshes network time. Failures keep the previous clock offset.
func (l *Loop) sync(ctx context.Context, force bool) {
	var err error
	if force {
		err = l.source.ForceUpdate(ctx)
	} else {
		err = l.source.Update(ctx)
	}

	if err != nil {
		if ctx.Err() != nil {
			return
		}

		l.metrics.Syncs.WithLabelValues(observability.SyncError).Inc()
		logger.WarnKV(ctx, "Network time sync failed", "error", err)

		return
	}

	reporter, ok := l.source.(syncReporter)
	if !ok {
		return
	}

	last, err := reporter.LastSync()
	if err != nil {
		return
	}

	l.mu.Lock()
	fresh := l.lastSync == nil || last.At.After(l.lastSync.At)
	if fresh {
		l.lastSync = &domain.SyncInfo{
			Server:      reporter.Server(),
			At:          last.At,
			ClockOffset: last.ClockOffset,
		}
	}
	l.mu.Unlock()

	if !fresh {
		return
	}

	l.metrics.Syncs.WithLabelValues(observability.SyncSuccess).Inc()
	l.metrics.NTPClockOffset.Set(last.ClockOffset.Seconds())
	l.metrics.NTPRoundTrip.Observe(last.RTT.Seconds())

	logger.DebugKV(ctx, "Network time synchronized",
		"server", reporter.Server(),
		"clock_offset", last.ClockOffset.String(),
		"rtt", last.RTT.String(),
		"stratum", last.Stratum,
	)
}

// reconcileOffset checks the DST rule and pushes a changed offset.
func (l *Loop) reconcileOffset(ctx context.Context) {
	epoch := l.source.EpochTime()
	current := l.state.Current()

	correct, changed := l.reconcile(epoch, current)

	l.reconciliations++
	l.metrics.Reconciliations.Inc()

	l.warnApproximate(ctx, l.decisionYear(epoch, current))

	if changed {
		l.source.SetTimeOffset(correct.Seconds())
		l.state.Apply(correct)
		l.metrics.OffsetChanges.Inc()

		next, nextOffset := l.engine.NextTransition(epoch)

		logger.InfoKV(ctx, "UTC offset changed",
			"from", current.String(),
			"to", correct.String(),
			"mode", string(correct.Mode()),
			"next_transition", next.Format(time.RFC3339),
			"next_offset", nextOffset.String(),
		)
	}

	l.metrics.Offset.Set(float64(correct))

	dstActive := 0.0
	if correct == dst.Daylight {
		dstActive = 1
	}

	l.metrics.DSTActive.Set(dstActive)
}

// warnApproximate logs once per year when transition days are a fallback.
func (l *Loop) warnApproximate(ctx context.Context, year int) {
	if !l.engine.Approximate(year) {
		return
	}

	if _, warned := l.warnedYears[year]; warned {
		return
	}

	l.warnedYears[year] = struct{}{}

	logger.WarnKV(ctx, "Transition days are a fallback approximation for this year",
		"year", year,
		"march_day", l.engine.Days().LastSunday(year, int(time.March)),
		"october_day", l.engine.Days().LastSunday(year, int(time.October)),
	)
}

// render shows the formatted time, skipping the tick when it is malformed.
func (l *Loop) render(ctx context.Context) {
	if indicator, ok := l.sink.(display.Indicator); ok {
		defer indicator.Toggle()
	}

	text := l.source.FormattedTime()
	if !display.ValidTime(text) {
		l.skipped++
		l.metrics.Renders.WithLabelValues(observability.RenderSkipped).Inc()
		logger.DebugKV(ctx, "Skipping render of malformed time", "text", text)

		return
	}

	if err := l.sink.Render(text); err != nil {
		l.metrics.Renders.WithLabelValues(observability.RenderError).Inc()
		logger.WarnKV(ctx, "Render failed", "error", err)

		return
	}

	l.display = text
	l.metrics.Renders.WithLabelValues(observability.RenderRendered).Inc()
}

// publish stores a snapshot of the loop state for readers.
func (l *Loop) publish() {
	epoch := l.source.EpochTime()
	next, _ := l.engine.NextTransition(epoch)

	snapshot := &domain.Snapshot{
		Timestamp:       l.clock.Now(),
		Display:         l.display,
		EpochSeconds:    epoch,
		Offset:          l.state.Current(),
		DSTActive:       l.state.Current() == dst.Daylight,
		NextTransition:  next,
		Reconciliations: l.reconciliations,
		OffsetChanges:   l.state.Changes(),
		SkippedRenders:  l.skipped,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot.LastSync = l.lastSync.Clone()
	l.snapshot = snapshot
}

// Snapshot returns a copy of the state after the last iteration.
func (l *Loop) Snapshot(_ context.Context) *domain.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snapshot.Clone()
}

// CheckReadiness reports an error until network time was synchronized.
func (l *Loop) CheckReadiness(ctx context.Context) error {
	if !l.Snapshot(ctx).Synced() {
		return ErrNotSynced
	}

	return nil
}
