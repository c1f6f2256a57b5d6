package simtemp_test

import (
	"testing"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	s := simtemp.Sample{
		Timestamp:   123456789012,
		ValueMilliC: -1500,
		Flags:       simtemp.FlagValid | simtemp.FlagAlert,
	}

	buf := make([]byte, simtemp.RecordSize)
	n, err := simtemp.EncodeRecord(buf, s)
	require.NoError(t, err)
	assert.Equal(t, simtemp.RecordSize, n)

	got, err := simtemp.DecodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestRecordLayout(t *testing.T) {
	s := simtemp.Sample{
		Timestamp:   0x0102030405060708,
		ValueMilliC: 0x0A0B0C0D,
		Flags:       simtemp.FlagValid,
	}

	buf := make([]byte, simtemp.RecordSize)
	_, err := simtemp.EncodeRecord(buf, s)
	require.NoError(t, err)

	// 8-byte timestamp, 4-byte value, 4-byte flags, little-endian.
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf[0:8])
	assert.Equal(t, []byte{0x0D, 0x0C, 0x0B, 0x0A}, buf[8:12])
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, buf[12:16])
}

func TestEncodeRecordShortBuffer(t *testing.T) {
	buf := make([]byte, simtemp.RecordSize-1)

	n, err := simtemp.EncodeRecord(buf, simtemp.Sample{Flags: simtemp.FlagValid})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, simtemp.ErrShortBuffer))
	assert.Zero(t, n)

	for _, b := range buf {
		assert.Zero(t, b, "short destination must be left untouched")
	}
}

func TestDecodeRecordShortBuffer(t *testing.T) {
	_, err := simtemp.DecodeRecord(make([]byte, 3))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, simtemp.ErrShortBuffer))
}

func TestSampleFlags(t *testing.T) {
	s := simtemp.Sample{ValueMilliC: 41500, Flags: simtemp.FlagValid | simtemp.FlagAlert}
	assert.True(t, s.Valid())
	assert.True(t, s.Alert())
	assert.InDelta(t, 41.5, s.Celsius(), 0.0001)

	s = simtemp.Sample{Flags: simtemp.FlagValid}
	assert.True(t, s.Valid())
	assert.False(t, s.Alert())
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]simtemp.Mode{
		"normal": simtemp.ModeNormal,
		"noisy":  simtemp.ModeNoisy,
		"ramp":   simtemp.ModeRamp,
	} {
		mode, err := simtemp.ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, want, mode)
		assert.Equal(t, name, mode.String())
	}

	_, err := simtemp.ParseMode("bogus")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, simtemp.ErrInvalidMode))

	assert.False(t, simtemp.Mode(9).IsValid())
}
