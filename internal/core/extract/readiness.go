package extract

import (
	"context"
	"time"

	"jobradar/internal/logger"
	"jobradar/internal/utils/dom"
)

// Probe is one structural readiness test. A deferred-render page is considered
// extractable as soon as any probe's selector matches.
type Probe struct {
	Name     string
	Selector string
}

// waitPhase is the readiness state machine: polling until a probe hits
// (ready) or the attempt budget runs out (exhausted).
type waitPhase int

const (
	phasePolling waitPhase = iota
	phaseReady
	phaseExhausted
)

// nextPhase is the pure transition function. attempt is 1-based and counts
// the tick that just completed.
func nextPhase(attempt, maxAttempts int, probeHit bool) waitPhase {
	if probeHit {
		return phaseReady
	}
	if attempt >= maxAttempts {
		return phaseExhausted
	}
	return phasePolling
}

// Clock abstracts the inter-tick suspension so the polling loop is testable
// without real time passing.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Waiter polls a set of readiness probes against fresh document snapshots.
type Waiter struct {
	log   *logger.Logger
	clock Clock
}

func NewWaiter() *Waiter {
	return &Waiter{log: logger.New("ReadinessWaiter"), clock: realClock{}}
}

// NewWaiterWithClock injects a clock; tests use a fake that records sleeps.
func NewWaiterWithClock(clock Clock) *Waiter {
	return &Waiter{log: logger.New("ReadinessWaiter"), clock: clock}
}

// WaitUntilReady evaluates every probe against a fresh snapshot on each tick.
// Ticks are stateless: no memory of prior results. Returns true as soon as any
// probe matches; false once maxAttempts ticks pass without a hit, or when the
// context is cancelled between ticks. False is a soft outcome; the caller
// proceeds with extraction anyway and accepts a higher risk of empty fields.
func (w *Waiter) WaitUntilReady(ctx context.Context, src dom.Source, probes []Probe, maxAttempts int, interval time.Duration) bool {
	if len(probes) == 0 || maxAttempts <= 0 {
		return false
	}

	phase := phasePolling
	for attempt := 1; phase == phasePolling; attempt++ {
		hit := w.evaluate(ctx, src, probes, attempt)
		phase = nextPhase(attempt, maxAttempts, hit)
		if phase == phasePolling {
			if err := w.clock.Sleep(ctx, interval); err != nil {
				w.log.LogDebugf("readiness wait cancelled after %d attempts", attempt)
				return false
			}
		}
	}

	if phase == phaseReady {
		return true
	}
	w.log.LogWarnf("readiness budget exhausted after %d attempts", maxAttempts)
	return false
}

func (w *Waiter) evaluate(ctx context.Context, src dom.Source, probes []Probe, attempt int) bool {
	doc, err := src.Snapshot(ctx)
	if err != nil {
		w.log.LogDebugf("snapshot failed on attempt %d: %v", attempt, err)
		return false
	}
	for _, p := range probes {
		if doc.Exists(p.Selector) {
			w.log.LogDebugf("probe %q satisfied on attempt %d", p.Name, attempt)
			return true
		}
	}
	return false
}
