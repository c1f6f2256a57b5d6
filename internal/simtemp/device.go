package simtemp

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
)

const (
	// DefaultCapacity is the number of sample slots when none is configured.
	DefaultCapacity = 64

	// DefaultSamplingMS is the sampling period when none is configured.
	DefaultSamplingMS = 100
)

// Recorder receives every produced sample after it has been buffered.
// A failed delivery is recorded in Stats.LastError; it never blocks or
// fails the sampling path itself.
type Recorder interface {
	Record(ctx context.Context, s Sample) error
}

// Stats are the device's monotonically increasing counters. They are
// read-only to external observers.
type Stats struct {
	Updates   uint32
	Alerts    uint32
	LastError uint32
}

// Readiness mirrors a poll(2)-style readiness query.
type Readiness struct {
	Readable bool // a read would return a sample immediately
	Priority bool // the oldest unread sample carries the alert flag
}

// Options configure a Device at activation time.
type Options struct {
	Capacity        int    // sample slots, DefaultCapacity when 0
	SamplingMS      uint32 // sampling period in ms, DefaultSamplingMS when 0
	ThresholdMilliC int32  // alert threshold
	Mode            Mode

	Recorder Recorder // optional producer-side delivery sink

	// Test seams. Clock returns monotonic nanoseconds; Rand feeds the
	// simulated noise. Both have sensible defaults when nil.
	Clock func() uint64
	Rand  *rand.Rand
}

// Device is one simulated temperature sensor instance: configuration,
// stats, sample buffer and scheduler, explicitly owned by the caller.
// All methods are safe for concurrent use.
type Device struct {
	mu  sync.Mutex
	buf *ring
	gen *generator

	// Live configuration, mutated only through validated setters.
	samplingMS      uint32
	thresholdMilliC int32
	mode            Mode

	stats Stats

	// notify is closed and replaced on every push and on Close, waking
	// every blocked reader at once. Readers recheck the buffer and at
	// most one wins each sample.
	notify chan struct{}
	closed bool

	running bool
	stop    chan struct{}
	trigger chan struct{}
	wg      sync.WaitGroup

	recorder Recorder
	clock    func() uint64
}

// New creates a device from the given options. The device starts in
// the Stopped state; call Start to begin sampling.
func New(opts Options) (*Device, error) {
	errFactory := errors.New()

	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, errFactory.WithData(ErrInvalidCapacity, opts.Capacity)
	}

	samplingMS := opts.SamplingMS
	if samplingMS == 0 {
		samplingMS = DefaultSamplingMS
	}

	if !opts.Mode.IsValid() {
		return nil, errFactory.WithData(ErrInvalidMode, int(opts.Mode))
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	clock := opts.Clock
	if clock == nil {
		epoch := time.Now()
		clock = func() uint64 {
			return uint64(time.Since(epoch))
		}
	}

	d := &Device{
		buf:             newRing(capacity),
		gen:             newGenerator(rng),
		samplingMS:      samplingMS,
		thresholdMilliC: opts.ThresholdMilliC,
		mode:            opts.Mode,
		notify:          make(chan struct{}),
		trigger:         make(chan struct{}, 1),
		recorder:        opts.Recorder,
		clock:           clock,
	}

	logger.Debug().
		Int("capacity", capacity).
		Uint32("sampling_ms", samplingMS).
		Int32("threshold_mc", opts.ThresholdMilliC).
		Str("mode", opts.Mode.String()).
		Msg("Device created")

	return d, nil
}

// Read returns the oldest unread sample. On an empty buffer it either
// returns a would-block error (blocking=false) or parks the caller
// until a sample arrives, the context is cancelled, or the device is
// closed. Samples are delivered in strict production order; overwrite
// on a full buffer causes gaps, never reordering.
func (d *Device) Read(ctx context.Context, blocking bool) (Sample, error) {
	errFactory := errors.New()

	for {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return Sample{}, errFactory.New(ErrClosed)
		}
		if s, ok := d.buf.pop(); ok {
			d.mu.Unlock()
			return s, nil
		}
		if !blocking {
			d.mu.Unlock()
			return Sample{}, errFactory.New(ErrWouldBlock)
		}
		wait := d.notify
		d.mu.Unlock()

		// Wait outside the lock, then loop to recheck: the wake is a
		// broadcast and another reader may have drained the buffer.
		select {
		case <-ctx.Done():
			return Sample{}, errFactory.Wrap(ErrInterrupted, ctx.Err())
		case <-wait:
		}
	}
}

// ReadRecord reads one sample in its fixed 16-byte wire form. A short
// destination buffer is rejected before any buffer state changes.
func (d *Device) ReadRecord(ctx context.Context, dst []byte, blocking bool) (int, error) {
	if len(dst) < RecordSize {
		errFactory := errors.New()
		return 0, errFactory.WithData(ErrShortBuffer, len(dst))
	}

	s, err := d.Read(ctx, blocking)
	if err != nil {
		return 0, err
	}

	return EncodeRecord(dst, s)
}

// PollReadiness reports whether a read would currently succeed and
// whether the pending sample is an alert. It never mutates the buffer.
func (d *Device) PollReadiness() Readiness {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Readiness{
		Readable: !d.buf.empty(),
		Priority: d.buf.peekAlert(),
	}
}

// Pending returns the number of unread samples.
func (d *Device) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buf.len()
}

// SetSamplingMS updates the sampling period. Zero is rejected and the
// prior period is kept. The running scheduler picks the new period up
// on its next rearm.
func (d *Device) SetSamplingMS(ms uint32) error {
	if ms == 0 {
		errFactory := errors.New()
		return errFactory.WithData(ErrInvalidPeriod, ms)
	}

	d.mu.Lock()
	d.samplingMS = ms
	d.mu.Unlock()

	logger.Debug().Uint32("sampling_ms", ms).Msg("Sampling period updated")

	return nil
}

// SetThreshold updates the alert threshold. Any signed value is accepted.
func (d *Device) SetThreshold(milliC int32) {
	d.mu.Lock()
	d.thresholdMilliC = milliC
	d.mu.Unlock()

	logger.Debug().Int32("threshold_mc", milliC).Msg("Threshold updated")
}

// SetMode switches the simulated signal source. Values outside the
// closed enumeration are rejected and the prior mode is kept. The ramp
// cursor is untouched by mode switches.
func (d *Device) SetMode(mode Mode) error {
	if !mode.IsValid() {
		errFactory := errors.New()
		return errFactory.WithData(ErrInvalidMode, int(mode))
	}

	d.mu.Lock()
	d.mode = mode
	d.mu.Unlock()

	logger.Debug().Str("mode", mode.String()).Msg("Mode updated")

	return nil
}

// SamplingMS returns the current sampling period in milliseconds.
func (d *Device) SamplingMS() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.samplingMS
}

// Threshold returns the current alert threshold in millidegrees.
func (d *Device) Threshold() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.thresholdMilliC
}

// Mode returns the current signal mode.
func (d *Device) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.mode
}

// Stats returns a snapshot of the device counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stats
}

// Running reports whether the scheduler is active.
func (d *Device) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.running
}

// Close stops the scheduler and releases every blocked reader with a
// terminal device-closed error. Safe to call more than once.
func (d *Device) Close() error {
	d.Stop()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.wakeLocked()
	d.mu.Unlock()

	logger.Debug().Msg("Device closed")

	return nil
}

// wakeLocked releases every parked reader. Callers must hold d.mu.
func (d *Device) wakeLocked() {
	close(d.notify)
	d.notify = make(chan struct{})
}
