package simtemp

import "codeberg.org/mutker/simtempd/internal/errors"

const (
	// Initialization and Lifecycle Errors
	ErrInitFailed      = errors.ErrorCode("simtemp_init_failed")
	ErrInvalidCapacity = errors.ErrorCode("simtemp_invalid_capacity")
	ErrClosed          = errors.ErrorCode("simtemp_device_closed")

	// Configuration Errors
	ErrInvalidMode      = errors.ErrorCode("simtemp_invalid_mode")
	ErrInvalidPeriod    = errors.ErrorCode("simtemp_invalid_period")
	ErrInvalidThreshold = errors.ErrorCode("simtemp_invalid_threshold")
	ErrUnknownAttribute = errors.ErrorCode("simtemp_unknown_attribute")
	ErrReadOnlyAttr     = errors.ErrorCode("simtemp_read_only_attribute")

	// Consumer Errors
	ErrWouldBlock  = errors.ErrorCode("simtemp_would_block")
	ErrInterrupted = errors.ErrorCode("simtemp_read_interrupted")
	ErrShortBuffer = errors.ErrorCode("simtemp_short_buffer")

	// Producer Errors
	ErrDeliveryFailed = errors.ErrorCode("simtemp_delivery_failed")
)

// IsWouldBlock reports whether err is the non-blocking "try again" signal.
func IsWouldBlock(err error) bool {
	return errors.HasCode(err, ErrWouldBlock)
}

// IsClosed reports whether err is the terminal device-closed signal.
func IsClosed(err error) bool {
	return errors.HasCode(err, ErrClosed)
}

// IsInterrupted reports whether a blocking read was cancelled before
// a sample arrived.
func IsInterrupted(err error) bool {
	return errors.HasCode(err, ErrInterrupted)
}
