// Package tui provides an interactive slider panel for the configured
// controls.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/kweyjibo/input-range/internal/config"
)

// Applier pushes committed values to their configured backend.
type Applier interface {
	Apply(ctx context.Context, control *config.Control, value float64) error
}

// Notifier announces committed values on the desktop.
type Notifier interface {
	NotifyValueCommitted(control *config.Control, value float64) error
}

type Model struct {
	ctx      context.Context
	config   *config.Config
	keys     keyMap
	layout   *Layout
	header   *Header
	help     help.Model
	sliders  []*Slider
	focus    int
	applier  Applier
	notifier Notifier

	// for tests
	duration *time.Duration
	start    time.Time
}

func NewModel(ctx context.Context, cfg *config.Config, applier Applier, notifier Notifier,
	version string, duration *time.Duration,
) (Model, error) {
	m := Model{
		ctx:      ctx,
		config:   cfg,
		keys:     rootKeyMap,
		layout:   NewLayout(),
		header:   NewHeader("input-range", version),
		help:     help.New(),
		applier:  applier,
		notifier: notifier,
		duration: duration,
		start:    time.Now(),
	}

	sliders, err := buildSliders(cfg, nil)
	if err != nil {
		return Model{}, err
	}
	m.sliders = sliders
	if len(m.sliders) > 0 {
		m.sliders[0].Focus()
	}

	return m, nil
}

// buildSliders creates sliders for the current config snapshot, carrying
// over committed values from previous sliders by control name. Carried
// values are re-clamped and re-quantized against the new step table.
func buildSliders(cfg *config.Config, previous []*Slider) ([]*Slider, error) {
	carried := map[string]float64{}
	for _, s := range previous {
		carried[s.Name()] = s.Value()
	}

	sliders := make([]*Slider, 0, len(cfg.Get().Controls))
	for _, control := range cfg.Get().Controls {
		slider, err := NewSlider(control)
		if err != nil {
			return nil, fmt.Errorf("cant build sliders: %w", err)
		}
		if value, ok := carried[control.Name]; ok {
			slider.SetValueSnapped(value)
		}
		sliders = append(sliders, slider)
	}
	return sliders, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) timeLeft() time.Duration {
	// infinite time effectively when no duration is passed
	if m.duration == nil {
		return time.Minute
	}
	return *m.duration - time.Since(m.start)
}

func (m Model) focusedSlider() *Slider {
	if m.focus < 0 || m.focus >= len(m.sliders) {
		return nil
	}
	return m.sliders[m.focus]
}

func (m Model) controlByName(name string) *config.Control {
	for _, control := range m.config.Get().Controls {
		if control.Name == name {
			return control
		}
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.timeLeft() <= 0 {
		return m, tea.Quit
	}

	logrus.Debugf("Received a message in root: %v", msg)
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ConfigReloaded:
		logrus.Debug("Received config reloaded event in root")
		sliders, err := buildSliders(m.config, m.sliders)
		if err != nil {
			cmds = append(cmds, OperationStatusCmd(OperationNameReload, err))
			break
		}
		m.sliders = sliders
		if m.focus >= len(m.sliders) {
			m.focus = 0
		}
		if s := m.focusedSlider(); s != nil {
			s.Focus()
		}
		cmds = append(cmds, m.header.Update(msg))
	case ControlChanged:
		logrus.WithFields(logrus.Fields{
			"control": msg.Name,
			"value":   msg.Value,
		}).Debug("Control value committed")
		control := m.controlByName(msg.Name)
		if control == nil {
			cmds = append(cmds, OperationStatusCmd(OperationNameApply,
				fmt.Errorf("unknown control %s", msg.Name)))
			break
		}
		cmds = append(cmds, m.applyCmd(control, msg.Value))
	case OperationStatus:
		cmds = append(cmds, m.header.Update(msg))
	case tea.WindowSizeMsg:
		m.layout.SetWidth(msg.Width)
		m.layout.SetHeight(msg.Height)
	case tea.MouseMsg:
		// every slider sees every mouse event and filters on its own
		// geometry and dragging flag
		for _, slider := range m.sliders {
			cmds = append(cmds, slider.Update(msg))
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	focused := m.focusedSlider()
	editing := focused != nil && focused.Editing()

	switch {
	case key.Matches(msg, m.keys.Quit):
		// while typing a value, "q" belongs to the text field
		if !editing || msg.String() == "ctrl+c" {
			return tea.Quit
		}
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return nil
	}

	if focused == nil {
		return nil
	}
	return focused.Update(msg)
}

func (m *Model) moveFocus(delta int) {
	if len(m.sliders) == 0 {
		return
	}
	if s := m.focusedSlider(); s != nil {
		s.Blur()
	}
	m.focus = (m.focus + delta + len(m.sliders)) % len(m.sliders)
	m.sliders[m.focus].Focus()
}

func (m Model) applyCmd(control *config.Control, value float64) tea.Cmd {
	return func() tea.Msg {
		if err := m.applier.Apply(m.ctx, control, value); err != nil {
			return OperationStatus{name: OperationNameApply, err: err}
		}
		if err := m.notifier.NotifyValueCommitted(control, value); err != nil {
			// the value is already applied, only report
			return OperationStatus{name: OperationNameApply, err: err}
		}
		return OperationStatus{name: OperationNameApply}
	}
}

func (m Model) mode() string {
	for _, slider := range m.sliders {
		if slider.Dragging() {
			return "DRAGGING"
		}
	}
	if s := m.focusedSlider(); s != nil && s.Editing() {
		return "EDITING"
	}
	return ""
}

func (m Model) View() string {
	logrus.Debug("Rendering the root model")

	m.header.SetWidth(m.layout.PanelWidth())
	m.header.SetMode(m.mode())
	header := m.header.View()
	y := lipgloss.Height(header)

	sections := []string{header}
	for i, slider := range m.sliders {
		slider.SetWidth(m.layout.PanelContentWidth())
		// content starts one cell inside the border
		slider.SetOrigin(1, y+1)

		style := InactiveStyle
		if i == m.focus {
			style = ActiveStyle
		}
		panel := style.Width(m.layout.PanelContentWidth()).Render(slider.View())
		sections = append(sections, panel)
		y += lipgloss.Height(panel)
	}

	bindings := m.keys.Help()
	if s := m.focusedSlider(); s != nil {
		bindings = append(s.keyMap.Help(), bindings...)
	}
	helpView := HelpStyle.Width(m.layout.PanelWidth()).Render(m.help.ShortHelpView(bindings))
	sections = append(sections, helpView)

	return lipgloss.JoinVertical(lipgloss.Top, sections...)
}
