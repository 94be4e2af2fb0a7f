package browser

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

const pointerMoves = 3

const scrollRandomJS = `
window.scrollTo({
    top: Math.random() * document.body.scrollHeight,
    behavior: 'smooth'
});
`

const scrollTopJS = `
window.scrollTo({
    top: 0,
    behavior: 'smooth'
});
`

// BehaviorSimulator issues randomized pointer and scroll actions so a page
// sees something resembling a person. Strictly best-effort: every error is
// logged and absorbed.
type BehaviorSimulator struct {
	width  int
	height int
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration)
}

func NewBehaviorSimulator(width, height int) *BehaviorSimulator {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	return &BehaviorSimulator{
		width:  width,
		height: height,
		logger: slog.Default().With("component", "behavior"),
		sleep:  sleepCtx,
	}
}

func (b *BehaviorSimulator) Simulate(ctx context.Context, page surface) {
	for i := 0; i < pointerMoves; i++ {
		x := rand.Float64() * float64(b.width)
		y := rand.Float64() * float64(b.height)
		if err := page.MoveMouse(x, y); err != nil {
			b.logger.Debug("mouse move failed", "error", err)
		}
		b.sleep(ctx, randomDuration(100*time.Millisecond, 300*time.Millisecond))
	}

	if err := page.Evaluate(scrollRandomJS); err != nil {
		b.logger.Debug("scroll failed", "error", err)
	}
	b.sleep(ctx, randomDuration(500*time.Millisecond, time.Second))

	if err := page.Evaluate(scrollTopJS); err != nil {
		b.logger.Debug("scroll to top failed", "error", err)
	}
	b.sleep(ctx, randomDuration(500*time.Millisecond, time.Second))
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
