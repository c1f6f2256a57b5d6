package config

import (
	"os"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultSamplingMS  = 100
	DefaultThresholdMC = 42000
	DefaultMode        = "normal"
	DefaultBufferSize  = 64
	DefaultLogLevel    = "info"
)

type Config struct {
	SamplingMS  int    `mapstructure:"sampling_ms"`
	ThresholdMC int    `mapstructure:"threshold_mc"`
	Mode        string `mapstructure:"mode"`
	BufferSize  int    `mapstructure:"buffer_size"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("sampling_ms", DefaultSamplingMS)
	v.SetDefault("threshold_mc", DefaultThresholdMC)
	v.SetDefault("mode", DefaultMode)
	v.SetDefault("buffer_size", DefaultBufferSize)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", "")

	flags := pflag.NewFlagSet("simtempd", pflag.ContinueOnError)
	flags.Int("sampling-ms", DefaultSamplingMS, "Sampling period in milliseconds")
	flags.Int("threshold-mc", DefaultThresholdMC, "Alert threshold in millidegrees Celsius")
	flags.String("mode", DefaultMode, "Signal mode: normal, noisy or ramp")
	flags.Int("buffer-size", DefaultBufferSize, "Sample buffer capacity")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	flags.Bool("telemetry", false, "Enable sample storage")
	flags.String("database", "", "Path to the telemetry database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"sampling_ms":  "sampling-ms",
		"threshold_mc": "threshold-mc",
		"mode":         "mode",
		"buffer_size":  "buffer-size",
		"log_level":    "log-level",
		"telemetry":    "telemetry",
		"database":     "database",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// Load configuration from file; an explicit path via SIMTEMPD_CONFIG
	// takes precedence over the search path.
	if path := os.Getenv("SIMTEMPD_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("simtempd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded values before anything is built on them.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SamplingMS <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.SamplingMS)
	}
	if c.BufferSize <= 0 {
		return errFactory.WithData(errors.ErrInvalidCapacity, c.BufferSize)
	}
	if _, err := simtemp.ParseMode(c.Mode); err != nil {
		return errFactory.WithData(errors.ErrInvalidMode, c.Mode)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "telemetry enabled without a database path")
	}

	return nil
}
