package simtemp

import (
	"context"
	"time"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
)

// The producer is two-stage: a timer goroutine that only fires a
// trigger and never touches the buffer, and a worker goroutine that
// does the generate-and-push. This keeps the trigger path free to
// rearm regardless of what the production step does.

// lastErrorDelivery is stored in Stats.LastError when a produced
// sample could not be handed to the recorder.
const lastErrorDelivery = 1

// Start moves the scheduler from Stopped to Running. Starting a
// running device is a no-op; starting a closed device is an error.
func (d *Device) Start() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		errFactory := errors.New()
		return errFactory.New(ErrClosed)
	}
	if d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = true
	d.stop = make(chan struct{})
	stop := d.stop
	d.mu.Unlock()

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.timerLoop(stop)
	}()
	go func() {
		defer d.wg.Done()
		d.workerLoop(stop)
	}()

	logger.Debug().Msg("Sampling started")

	return nil
}

// Stop moves the scheduler back to Stopped. It is synchronous: when it
// returns, no firing is in flight or pending, and no further pushes
// occur until the next Start. Stopping a stopped device is a no-op.
func (d *Device) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	stop := d.stop
	d.mu.Unlock()

	close(stop)
	d.wg.Wait()

	// Drop a trigger that fired after the worker exited, so the next
	// Start begins idle.
	select {
	case <-d.trigger:
	default:
	}

	logger.Debug().Msg("Sampling stopped")
}

// timerLoop rearms from the completion of each lap, reading the live
// period every time, so period changes take effect on the next firing.
func (d *Device) timerLoop(stop <-chan struct{}) {
	for {
		d.mu.Lock()
		period := time.Duration(d.samplingMS) * time.Millisecond
		d.mu.Unlock()

		timer := time.NewTimer(period)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			// Never block: a trigger already pending coalesces.
			select {
			case d.trigger <- struct{}{}:
			default:
			}
		}
	}
}

func (d *Device) workerLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-d.trigger:
			select {
			case <-stop:
				return
			default:
			}
			d.fire()
		}
	}
}

// fire is one scheduler firing: read config, generate, push, update
// stats, wake readers. At most one firing is ever in flight.
func (d *Device) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	s := d.gen.generate(d.mode, d.thresholdMilliC, d.clock())
	dropped := d.buf.push(s)

	d.stats.Updates++
	if s.Alert() {
		d.stats.Alerts++
	}

	d.wakeLocked()
	d.mu.Unlock()

	if dropped {
		logger.Debug().Msg("Buffer full, oldest sample overwritten")
	}

	d.deliver(s)
}

// deliver hands the sample to the optional recorder, outside the lock.
// Delivery failures are bookkept in Stats.LastError and never stall
// the producer.
func (d *Device) deliver(s Sample) {
	if d.recorder == nil {
		return
	}

	if err := d.recorder.Record(context.Background(), s); err != nil {
		d.mu.Lock()
		d.stats.LastError = lastErrorDelivery
		d.mu.Unlock()
		logger.Warn().Err(err).Msg("Sample delivery failed")
	}
}
