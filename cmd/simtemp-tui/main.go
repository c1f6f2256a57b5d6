package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/mutker/simtempd/internal/config"
	"codeberg.org/mutker/simtempd/internal/logger"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(false, false, true)
	logger.Disable()

	mode, err := simtemp.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid mode: %v\n", err)
		os.Exit(1)
	}

	dev, err := simtemp.New(simtemp.Options{
		Capacity:        cfg.BufferSize,
		SamplingMS:      uint32(cfg.SamplingMS),
		ThresholdMilliC: int32(cfg.ThresholdMC),
		Mode:            mode,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize device: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	if err := dev.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start sampling: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	samples := make(chan simtemp.Sample, 16)
	go func() {
		defer close(samples)
		for {
			s, err := dev.Read(ctx, true)
			if err != nil {
				return
			}
			samples <- s
		}
	}()

	prog := tea.NewProgram(ui.New(dev, samples), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
