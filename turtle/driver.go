package turtle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/turtlico/turtlicoscript/tcs"
)

// DefaultFPS is the frame rate of a Driver without an explicit one.
const DefaultFPS = 60

// Driver is the frame loop of a headless host: it ticks a World at a fixed
// rate so blocking turtle natives make progress without a window.
type Driver struct {
	World *World
	FPS   int
	// Step, when set, is the simulated time of every frame. Hosts use it to
	// run animations faster or slower than the wall clock.
	Step time.Duration
	// Input, when set, is polled before every frame.
	Input func() Input
}

func NewDriver(world *World) *Driver {
	return &Driver{World: world, FPS: DefaultFPS}
}

// Run ticks the world until ctx is done. cancelled is polled every frame and
// turned into SyncCancelled ticks.
func (d *Driver) Run(ctx context.Context, cancelled func() bool) error {
	fps := d.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)
	last := time.Now()
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		now := time.Now()
		delta := d.Step
		if delta <= 0 {
			delta = now.Sub(last)
		}
		last = now

		if d.Input != nil {
			d.World.SetInput(d.Input())
		}
		d.World.Tick(delta, cancelled != nil && cancelled())
	}
}

// Play evaluates root with the world driven by d and returns the script's
// result. Cancelling ctx interrupts the script, including natives blocked on
// a frame. The world is closed afterwards.
func (d *Driver) Play(ctx context.Context, interp *tcs.Context, root tcs.Expression) (tcs.Value, error) {
	run := tcs.Spawn(ctx, interp, root)

	tickCtx, stop := context.WithCancel(context.Background())
	ticked := make(chan error, 1)
	go func() {
		ticked <- d.Run(tickCtx, run.Cancelled)
	}()

	value, err := run.Wait()
	stop()
	tickErr := <-ticked
	d.World.Close()
	if err != nil {
		return value, err
	}
	return value, tickErr
}
