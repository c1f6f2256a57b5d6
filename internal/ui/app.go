package ui

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/simtempd/internal/simtemp"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxPoints is the history window rendered in the chart.
const maxPoints = 50

const (
	thresholdStepMilliC = 500
	minSamplingMS       = 10
	maxSamplingMS       = 5000
)

// SampleMsg delivers a new sample to the UI.
type SampleMsg simtemp.Sample

// statsTickMsg triggers the periodic stats refresh.
type statsTickMsg time.Time

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

type keyMap struct {
	Mode          key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
	Faster        key.Binding
	Slower        key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.ThresholdUp, k.ThresholdDown, k.Faster, k.Slower, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Mode, k.ThresholdUp, k.ThresholdDown},
		{k.Faster, k.Slower, k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Mode:          key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle mode")),
	ThresholdUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise threshold")),
	ThresholdDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower threshold")),
	Faster:        key.NewBinding(key.WithKeys("["), key.WithHelp("[", "sample faster")),
	Slower:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "sample slower")),
	Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the root bubbletea model for the monitor.
type Model struct {
	dev     *simtemp.Device
	samples <-chan simtemp.Sample

	history []simtemp.Sample
	stats   string

	width  int
	height int

	keys keyMap
	help help.Model
}

// New creates a new monitor model around an activated device and its
// sample stream.
func New(dev *simtemp.Device, samples <-chan simtemp.Sample) Model {
	return Model{
		dev:     dev,
		samples: samples,
		keys:    defaultKeys,
		help:    help.New(),
	}
}

// waitForSample returns a tea.Cmd that waits for the next sample.
// Returns tea.Quit if the channel is closed (device torn down).
func waitForSample(ch <-chan simtemp.Sample) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return SampleMsg(s)
	}
}

func statsTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSample(m.samples), statsTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case SampleMsg:
		m.history = append(m.history, simtemp.Sample(msg))
		if len(m.history) > maxPoints {
			m.history = m.history[len(m.history)-maxPoints:]
		}
		return m, waitForSample(m.samples)

	case statsTickMsg:
		if stats, err := m.dev.Attr(simtemp.AttrStats); err == nil {
			m.stats = stats
		}
		return m, statsTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Mode):
		modes := simtemp.Modes()
		cur := m.dev.Mode()
		for i, mode := range modes {
			if mode == cur {
				_ = m.dev.SetMode(modes[(i+1)%len(modes)])
				break
			}
		}

	case key.Matches(msg, m.keys.ThresholdUp):
		m.dev.SetThreshold(m.dev.Threshold() + thresholdStepMilliC)

	case key.Matches(msg, m.keys.ThresholdDown):
		m.dev.SetThreshold(m.dev.Threshold() - thresholdStepMilliC)

	case key.Matches(msg, m.keys.Faster):
		ms := m.dev.SamplingMS() / 2
		if ms < minSamplingMS {
			ms = minSamplingMS
		}
		_ = m.dev.SetSamplingMS(ms)

	case key.Matches(msg, m.keys.Slower):
		ms := m.dev.SamplingMS() * 2
		if ms > maxSamplingMS {
			ms = maxSamplingMS
		}
		_ = m.dev.SetSamplingMS(ms)
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("simtemp monitor"))
	b.WriteString("\n\n")

	b.WriteString(m.chart())
	b.WriteString("\n")

	if len(m.history) > 0 {
		last := m.history[len(m.history)-1]
		reading := fmt.Sprintf("%.2f °C", last.Celsius())
		if last.Alert() {
			b.WriteString(alertStyle.Render(reading + "  ALERT"))
		} else {
			b.WriteString(normalStyle.Render(reading))
		}
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("mode "))
	b.WriteString(valueStyle.Render(m.dev.Mode().String()))
	b.WriteString(labelStyle.Render("  threshold "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d mC", m.dev.Threshold())))
	b.WriteString(labelStyle.Render("  period "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d ms", m.dev.SamplingMS())))
	b.WriteString("\n")

	if m.stats != "" {
		b.WriteString(labelStyle.Render(m.stats))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// chart renders the history window as a sparkline, alert samples in red.
func (m Model) chart() string {
	if len(m.history) == 0 {
		return labelStyle.Render("waiting for samples...")
	}

	low, high := m.history[0].ValueMilliC, m.history[0].ValueMilliC
	for _, s := range m.history {
		if s.ValueMilliC < low {
			low = s.ValueMilliC
		}
		if s.ValueMilliC > high {
			high = s.ValueMilliC
		}
	}

	span := high - low
	var b strings.Builder
	for _, s := range m.history {
		idx := 0
		if span > 0 {
			idx = int(int64(s.ValueMilliC-low) * int64(len(sparkRunes)-1) / int64(span))
		}
		r := string(sparkRunes[idx])
		if s.Alert() {
			b.WriteString(alertStyle.Render(r))
		} else {
			b.WriteString(normalStyle.Render(r))
		}
	}

	return b.String()
}
