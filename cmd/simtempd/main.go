package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/simtempd/internal/config"
	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
	"codeberg.org/mutker/simtempd/internal/pid"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/telemetry"
)

var (
	cfg    *config.Config
	device *simtemp.Device
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel == "debug", cfg.LogLevel == "info", logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove()

	recorder, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer recorder.Close()

	// Mode was validated at config load.
	mode, err := simtemp.ParseMode(cfg.Mode)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid mode")
	}

	device, err = simtemp.New(simtemp.Options{
		Capacity:        cfg.BufferSize,
		SamplingMS:      uint32(cfg.SamplingMS),
		ThresholdMilliC: int32(cfg.ThresholdMC),
		Mode:            mode,
		Recorder:        recorder,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize device")
	}
	defer device.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := device.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start sampling")
	}

	logger.Info().
		Uint32("sampling_ms", device.SamplingMS()).
		Str("mode", device.Mode().String()).
		Int32("threshold_mc", device.Threshold()).
		Msg("Sampling started. Logging readings...")

	if err := consume(ctx); err != nil {
		logger.Error().Err(err).Msg("error in consume loop")
	}

	logStats()
	logger.Info().Msg("Exiting...")
}

// consume drains the device as the single logical consumption stream,
// one fixed-size binary record per read, the way an external reader of
// the device node would.
func consume(ctx context.Context) error {
	record := make([]byte, simtemp.RecordSize)

	for {
		n, err := device.ReadRecord(ctx, record, true)
		if err != nil {
			if simtemp.IsInterrupted(err) || simtemp.IsClosed(err) {
				return nil
			}
			return err
		}

		s, err := simtemp.DecodeRecord(record[:n])
		if err != nil {
			return err
		}

		logSample(s)
	}
}

func logSample(s simtemp.Sample) {
	if s.Alert() {
		logger.Warn().
			Uint64("timestamp_ns", s.Timestamp).
			Float64("temp_c", s.Celsius()).
			Bool("alert", true).
			Msg("Threshold crossed")
		return
	}

	logger.Info().
		Uint64("timestamp_ns", s.Timestamp).
		Float64("temp_c", s.Celsius()).
		Bool("alert", false).
		Msg("")
}

func logStats() {
	stats, err := device.Attr(simtemp.AttrStats)
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("failed to read stats")
		}
		return
	}
	logger.Info().Str("stats", stats).Msg("Final device stats")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
