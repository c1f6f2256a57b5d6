package simtemp

import (
	"encoding/binary"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// Flag bits carried on every sample.
const (
	FlagValid uint32 = 1 << 0
	FlagAlert uint32 = 1 << 1
)

// RecordSize is the fixed wire size of one encoded sample:
// 8-byte timestamp, 4-byte value, 4-byte flags, little-endian.
const RecordSize = 16

// Sample is one temperature reading. Immutable once produced.
type Sample struct {
	Timestamp   uint64 // nanoseconds, monotonic
	ValueMilliC int32  // millidegrees Celsius
	Flags       uint32
}

// Valid reports whether the valid flag is set.
func (s Sample) Valid() bool {
	return s.Flags&FlagValid != 0
}

// Alert reports whether the reading crossed the configured threshold.
func (s Sample) Alert() bool {
	return s.Flags&FlagAlert != 0
}

// Celsius returns the reading in degrees Celsius.
func (s Sample) Celsius() float64 {
	return float64(s.ValueMilliC) / 1000
}

// EncodeRecord writes the fixed 16-byte wire form of s into dst.
// A short destination is rejected before anything is written.
func EncodeRecord(dst []byte, s Sample) (int, error) {
	if len(dst) < RecordSize {
		errFactory := errors.New()
		return 0, errFactory.WithData(ErrShortBuffer, len(dst))
	}

	binary.LittleEndian.PutUint64(dst[0:8], s.Timestamp)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(s.ValueMilliC))
	binary.LittleEndian.PutUint32(dst[12:16], s.Flags)

	return RecordSize, nil
}

// DecodeRecord parses one 16-byte wire record.
func DecodeRecord(src []byte) (Sample, error) {
	if len(src) < RecordSize {
		errFactory := errors.New()
		return Sample{}, errFactory.WithData(ErrShortBuffer, len(src))
	}

	return Sample{
		Timestamp:   binary.LittleEndian.Uint64(src[0:8]),
		ValueMilliC: int32(binary.LittleEndian.Uint32(src[8:12])),
		Flags:       binary.LittleEndian.Uint32(src[12:16]),
	}, nil
}
