package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestNewServiceDisabled(t *testing.T) {
	rec, err := telemetry.NewService(telemetry.Config{Enabled: false})
	require.NoError(t, err)

	// The no-op recorder accepts everything.
	err = rec.Record(context.Background(), simtemp.Sample{Flags: simtemp.FlagValid})
	require.NoError(t, err)
	require.NoError(t, rec.Close())
}

func TestNewServiceEnabledWithoutPath(t *testing.T) {
	_, err := telemetry.NewService(telemetry.Config{Enabled: true})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidConfig))
}

func TestRecordAndReadBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	rec, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)

	samples := []simtemp.Sample{
		{Timestamp: 1000, ValueMilliC: 40100, Flags: simtemp.FlagValid},
		{Timestamp: 2000, ValueMilliC: 43500, Flags: simtemp.FlagValid | simtemp.FlagAlert},
	}
	for _, s := range samples {
		require.NoError(t, rec.Record(context.Background(), s))
	}
	require.NoError(t, rec.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT timestamp_ns, temp_mc, flags FROM samples ORDER BY timestamp_ns")
	require.NoError(t, err)
	defer rows.Close()

	var got []simtemp.Sample
	for rows.Next() {
		var (
			ts    int64
			value int32
			flags uint32
		)
		require.NoError(t, rows.Scan(&ts, &value, &flags))
		got = append(got, simtemp.Sample{Timestamp: uint64(ts), ValueMilliC: value, Flags: flags})
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, samples, got)
}

func TestRecordRejectsInvalidSample(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	rec, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)
	defer rec.Close()

	err = rec.Record(context.Background(), simtemp.Sample{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidSample))
}

func TestRecordCancelledContext(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	rec, err := telemetry.NewService(telemetry.Config{Enabled: true, DBPath: dbPath})
	require.NoError(t, err)
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = rec.Record(ctx, simtemp.Sample{Flags: simtemp.FlagValid})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrOperationTimeout))
}
