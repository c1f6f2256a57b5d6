package telemetry

import (
	"context"

	"codeberg.org/mutker/simtempd/internal/simtemp"
)

// Recorder defines the core domain interface: it persists every
// produced sample. The device side only requires Record; Close is for
// the owning process.
type Recorder interface {
	Record(ctx context.Context, s simtemp.Sample) error
	Close() error
}
