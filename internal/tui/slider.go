package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/kweyjibo/input-range/internal/config"
	"github.com/kweyjibo/input-range/internal/steps"
)

const (
	minTrackWidth   = 5
	valueFieldWidth = 8
)

type sliderKeyMap struct {
	Increase key.Binding
	Decrease key.Binding
	Edit     key.Binding
	Commit   key.Binding
	Back     key.Binding
}

func (s *sliderKeyMap) Help() []key.Binding {
	return []key.Binding{
		s.Increase,
		s.Decrease,
		s.Edit,
		s.Commit,
		s.Back,
	}
}

// FormatFunc renders a value for the text field. Injected at construction
// so callers can customize display text without touching the numeric
// model.
type FormatFunc func(float64) string

func defaultFormat(v float64) string {
	return strconv.FormatFloat(math.Floor(v), 'f', -1, 64)
}

// Slider keeps a numeric text field, a draggable handle and the filled
// part of the track in sync under one step table. All sliders on the
// panel receive every mouse message and filter on their own geometry and
// dragging flag, so instances never share state.
type Slider struct {
	control *config.Control
	table   *steps.Table
	format  FormatFunc
	input   textinput.Model
	keyMap  *sliderKeyMap

	value       float64
	lastPercent float64
	dragging    bool
	editing     bool
	focused     bool

	width int
	// geometry of the last rendered frame, absolute terminal cells
	originX   int
	originY   int
	handleIdx int
}

type SliderOption func(*Slider)

// WithFormat replaces the default floor-and-print value formatting.
func WithFormat(format FormatFunc) SliderOption {
	return func(s *Slider) {
		s.format = format
	}
}

func NewSlider(control *config.Control, opts ...SliderOption) (*Slider, error) {
	table, err := control.Table()
	if err != nil {
		return nil, fmt.Errorf("cant build slider %s: %w", control.Name, err)
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = valueFieldWidth
	ti.Width = valueFieldWidth

	s := &Slider{
		control: control,
		table:   table,
		format:  defaultFormat,
		input:   ti,
		keyMap: &sliderKeyMap{
			Increase: key.NewBinding(
				key.WithKeys("right", "l", "up", "k"),
				key.WithHelp("→/l", "one step up"),
			),
			Decrease: key.NewBinding(
				key.WithKeys("left", "h", "down", "j"),
				key.WithHelp("←/h", "one step down"),
			),
			Edit: key.NewBinding(
				key.WithKeys("e"),
				key.WithHelp("e", "type a value"),
			),
			Commit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "apply typed value"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.value = table.Clamp(*control.Initial)
	s.lastPercent = table.PercentFor(s.value)
	s.input.SetValue(s.format(s.value))

	return s, nil
}

func (s *Slider) Name() string { return s.control.Name }

func (s *Slider) Value() float64 { return s.value }

// Percent is the track position currently driving the visuals.
func (s *Slider) Percent() float64 { return s.lastPercent }

func (s *Slider) Dragging() bool { return s.dragging }

func (s *Slider) Editing() bool { return s.editing }

func (s *Slider) Focus() { s.focused = true }

func (s *Slider) Blur() {
	s.focused = false
	if s.editing {
		s.cancelEdit()
	}
}

func (s *Slider) SetWidth(width int) {
	s.width = width
}

// SetOrigin records where the slider content was placed in the frame so
// mouse coordinates can be hit-tested against the track.
func (s *Slider) SetOrigin(x, y int) {
	s.originX = x
	s.originY = y
}

// SetValue commits a value programmatically. The text field is rewritten
// unconditionally, even for an unchanged value; the visual position is
// recomputed only when the numeric value actually changed.
func (s *Slider) SetValue(v float64) {
	v = s.table.Clamp(v)
	s.input.SetValue(s.format(v))
	if v == s.value {
		return
	}
	s.value = v
	s.lastPercent = s.table.PercentFor(v)
}

// SetValueSnapped commits a value after snapping it down to the nearest
// step boundary of this slider's table. Used when a value crosses table
// boundaries, e.g. carried over into a reconfigured control.
func (s *Slider) SetValueSnapped(v float64) {
	v = s.table.Clamp(v)
	s.SetValue(s.table.ValueAtStep(s.table.StepIndex(v)))
}

func (s *Slider) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		// document-level: delivered regardless of focus
		return s.handleMouse(msg)
	case tea.KeyMsg:
		if !s.focused {
			return nil
		}
		if s.editing {
			return s.handleEditKey(msg)
		}
		switch {
		case key.Matches(msg, s.keyMap.Increase):
			return s.commit(s.table.StepUp(s.value))
		case key.Matches(msg, s.keyMap.Decrease):
			return s.commit(s.table.StepDown(s.value))
		case key.Matches(msg, s.keyMap.Edit):
			s.editing = true
			s.input.SetValue(s.format(s.value))
			s.input.CursorEnd()
			return s.input.Focus()
		}
	}
	return nil
}

func (s *Slider) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Back):
		s.cancelEdit()
		return nil
	case key.Matches(msg, s.keyMap.Commit):
		s.editing = false
		s.input.Blur()
		value, err := s.parseInput()
		if err != nil {
			return tea.Batch(s.commit(value), OperationStatusCmd(OperationNameInput, err))
		}
		return s.commit(value)
	}

	input, cmd := s.input.Update(msg)
	s.input = input
	return cmd
}

func (s *Slider) cancelEdit() {
	s.editing = false
	s.input.Blur()
	s.input.SetValue(s.format(s.value))
}

// parseInput coerces the typed text into the control's range: anything
// unparseable or below the minimum becomes the minimum, anything above
// the maximum becomes the maximum. Fractions are truncated. The error is
// non-nil only for unparseable text so the coercion can be surfaced.
func (s *Slider) parseInput() (float64, error) {
	raw := strings.TrimSpace(s.input.Value())
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logrus.WithField("input", raw).Debug("Unparseable input, coercing to min")
		return s.table.Min(), fmt.Errorf("cant parse %q as a number", raw)
	}
	return s.table.Clamp(math.Trunc(parsed)), nil
}

func (s *Slider) commit(v float64) tea.Cmd {
	s.SetValue(v)
	return controlChangedCmd(s.control.Name, s.value)
}

func (s *Slider) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if s.hitHandle(msg.X, msg.Y) {
			s.dragging = true
			return nil
		}
		if s.hitTrack(msg.X, msg.Y) {
			return s.seek(msg.X, true)
		}
	case tea.MouseActionMotion:
		if s.dragging {
			return s.seek(msg.X, false)
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.dragging = false
			return controlChangedCmd(s.control.Name, s.value)
		}
	}
	return nil
}

func (s *Slider) hitTrack(x, y int) bool {
	return y == s.trackRow() && x >= s.originX && x < s.originX+s.trackWidth()
}

func (s *Slider) hitHandle(x, y int) bool {
	return y == s.trackRow() && x == s.originX+s.handleIdx
}

func (s *Slider) trackRow() int {
	// the track is the second content row
	return s.originY + 1
}

func (s *Slider) trackWidth() int {
	if s.width < minTrackWidth {
		return minTrackWidth
	}
	return s.width
}

// seek resolves a pointer column to a quantized value. The snapped
// percentage drives the handle directly so it lands exactly on step
// boundaries; the value write-back happens before the visual update.
func (s *Slider) seek(x int, commitNow bool) tea.Cmd {
	raw := float64(x-s.originX) / float64(s.trackWidth()-1) * 100
	value, snapped := s.table.ValueAt(raw)

	s.value = value
	s.input.SetValue(s.format(value))
	s.lastPercent = snapped

	logrus.WithFields(logrus.Fields{
		"control": s.control.Name,
		"raw":     raw,
		"snapped": snapped,
		"value":   value,
	}).Debug("Pointer seek")

	if commitNow {
		return controlChangedCmd(s.control.Name, s.value)
	}
	return nil
}

func (s *Slider) View() string {
	label := LabelStyle.Render(*s.control.Label)
	unit := UnitStyle.Render(*s.control.Unit)
	field := s.input.View()

	spacerWidth := s.width - lipgloss.Width(label) - lipgloss.Width(field) - lipgloss.Width(unit)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")
	row := lipgloss.JoinHorizontal(lipgloss.Top, label, spacer, field, unit)

	return lipgloss.JoinVertical(lipgloss.Left, row, s.renderTrack())
}

func (s *Slider) renderTrack() string {
	w := s.trackWidth()
	s.handleIdx = int(math.Round(s.lastPercent / 100 * float64(w-1)))

	handle := HandleStyle.Render("●")
	if s.dragging {
		handle = DraggingStyle.Render("●")
	}

	filled := TrackFilledStyle.Render(strings.Repeat("━", s.handleIdx))
	empty := TrackEmptyStyle.Render(strings.Repeat("─", w-s.handleIdx-1))
	return filled + handle + empty
}
