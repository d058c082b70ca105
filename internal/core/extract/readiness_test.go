package extract

import (
	"context"
	"testing"
	"time"

	"jobradar/internal/utils/dom"
)

// sequenceSource serves a fixed sequence of documents, one per snapshot; the
// last entry repeats once the sequence is exhausted.
type sequenceSource struct {
	docs      []dom.Document
	snapshots int
}

func (s *sequenceSource) Snapshot(_ context.Context) (dom.Document, error) {
	i := s.snapshots
	if i >= len(s.docs) {
		i = len(s.docs) - 1
	}
	s.snapshots++
	return s.docs[i], nil
}

func (s *sequenceSource) Close() error { return nil }

type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	return nil
}

var testProbes = []Probe{
	{Name: "heading", Selector: "h1"},
	{Name: "container", Selector: ".posting"},
}

func TestWaitUntilReadySecondTick(t *testing.T) {
	empty := mustParse(t, `<html><body><div>loading…</div></body></html>`)
	ready := mustParse(t, `<html><body><h1>Backend Engineer</h1></body></html>`)
	src := &sequenceSource{docs: []dom.Document{empty, ready}}
	clock := &fakeClock{}
	w := NewWaiterWithClock(clock)

	if !w.WaitUntilReady(context.Background(), src, testProbes, 3, 10*time.Millisecond) {
		t.Fatal("expected ready")
	}
	if src.snapshots != 2 {
		t.Errorf("snapshots = %d, want 2 (short-circuit on first hit)", src.snapshots)
	}
	if len(clock.sleeps) != 1 {
		t.Errorf("sleeps = %d, want 1", len(clock.sleeps))
	}
}

func TestWaitUntilReadyExhausted(t *testing.T) {
	empty := mustParse(t, `<html><body><div>spinner</div></body></html>`)
	src := &sequenceSource{docs: []dom.Document{empty}}
	clock := &fakeClock{}
	w := NewWaiterWithClock(clock)

	if w.WaitUntilReady(context.Background(), src, testProbes, 2, 10*time.Millisecond) {
		t.Fatal("expected exhaustion")
	}
	if src.snapshots != 2 {
		t.Errorf("snapshots = %d, want exactly 2 ticks", src.snapshots)
	}
	// No suspension after the final tick.
	if len(clock.sleeps) != 1 {
		t.Errorf("sleeps = %d, want 1", len(clock.sleeps))
	}
}

func TestWaitUntilReadyAnyProbeSuffices(t *testing.T) {
	// Second probe matches even though the first never does.
	doc := mustParse(t, `<html><body><div class="posting">text</div></body></html>`)
	src := &sequenceSource{docs: []dom.Document{doc}}
	w := NewWaiterWithClock(&fakeClock{})

	if !w.WaitUntilReady(context.Background(), src, testProbes, 3, time.Millisecond) {
		t.Fatal("expected ready on first tick")
	}
	if src.snapshots != 1 {
		t.Errorf("snapshots = %d, want 1", src.snapshots)
	}
}

func TestWaitUntilReadyCancelled(t *testing.T) {
	empty := mustParse(t, `<html><body></body></html>`)
	src := &sequenceSource{docs: []dom.Document{empty}}
	w := NewWaiterWithClock(&fakeClock{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if w.WaitUntilReady(ctx, src, testProbes, 5, time.Millisecond) {
		t.Fatal("expected cancellation to end the wait")
	}
	if src.snapshots != 1 {
		t.Errorf("snapshots = %d, want 1 (cancel honored between ticks)", src.snapshots)
	}
}

func TestWaitUntilReadyNoProbes(t *testing.T) {
	src := &sequenceSource{docs: []dom.Document{mustParse(t, `<html><body><h1>x</h1></body></html>`)}}
	w := NewWaiterWithClock(&fakeClock{})
	if w.WaitUntilReady(context.Background(), src, nil, 3, time.Millisecond) {
		t.Error("no probes should report not ready")
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		max     int
		hit     bool
		want    waitPhase
	}{
		{"hit on first", 1, 3, true, phaseReady},
		{"hit on last", 3, 3, true, phaseReady},
		{"miss with budget left", 1, 3, false, phasePolling},
		{"miss on last", 3, 3, false, phaseExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextPhase(tt.attempt, tt.max, tt.hit); got != tt.want {
				t.Errorf("nextPhase(%d,%d,%v) = %v, want %v", tt.attempt, tt.max, tt.hit, got, tt.want)
			}
		})
	}
}
