package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

// brokenSurface fails every operation; the simulator must shrug it all off.
type brokenSurface struct {
	moves int
	evals int
}

func (b *brokenSurface) WaitFor(selector string, timeout time.Duration) (clickTarget, bool) {
	return nil, false
}

func (b *brokenSurface) Has(selector string) bool { return false }

func (b *brokenSurface) MoveMouse(x, y float64) error {
	b.moves++
	return errors.New("page closed")
}

func (b *brokenSurface) Evaluate(js string) error {
	b.evals++
	return errors.New("execution context destroyed")
}

func TestSimulateAbsorbsAllErrors(t *testing.T) {
	sim := NewBehaviorSimulator(1920, 1080)
	var slept []time.Duration
	sim.sleep = func(ctx context.Context, d time.Duration) {
		slept = append(slept, d)
	}

	page := &brokenSurface{}
	sim.Simulate(context.Background(), page) // must not panic or propagate

	if page.moves != pointerMoves {
		t.Errorf("expected %d pointer moves, got %d", pointerMoves, page.moves)
	}
	// One random scroll plus the scroll back to top.
	if page.evals != 2 {
		t.Errorf("expected 2 scroll evaluations, got %d", page.evals)
	}
	if len(slept) != pointerMoves+2 {
		t.Errorf("expected %d pauses, got %d", pointerMoves+2, len(slept))
	}
}

func TestSimulateCoordinatesWithinViewport(t *testing.T) {
	sim := NewBehaviorSimulator(800, 600)
	sim.sleep = func(ctx context.Context, d time.Duration) {}

	page := &fakeSurface{}
	sim.Simulate(context.Background(), page)

	for _, move := range page.mouseMoves {
		if move.x < 0 || move.x > 800 || move.y < 0 || move.y > 600 {
			t.Errorf("pointer left the viewport: %+v", move)
		}
	}
}

func TestRandomDurationBounds(t *testing.T) {
	min, max := 100*time.Millisecond, 300*time.Millisecond
	for i := 0; i < 100; i++ {
		d := randomDuration(min, max)
		if d < min || d >= max {
			t.Fatalf("duration %v outside [%v, %v)", d, min, max)
		}
	}
}
