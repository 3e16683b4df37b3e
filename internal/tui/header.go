package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type Header struct {
	title   string
	version string
	mode    string
	width   int
	err     string
}

func NewHeader(title, version string) *Header {
	return &Header{
		title:   title,
		version: version,
	}
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

func (h *Header) SetMode(mode string) {
	h.mode = mode
}

func (h *Header) Update(msg tea.Msg) tea.Cmd {
	logrus.Debugf("Header received message: %v", msg)
	switch msg := msg.(type) {
	case OperationStatus:
		if msg.IsError() {
			h.err = msg.String()
		} else {
			h.err = ""
		}
	case ConfigReloaded:
		h.err = ""
	}
	return nil
}

func (h *Header) View() string {
	sections := []string{}
	availableSpace := h.width

	title := HeaderStyle.Render(h.title + " " + h.version)
	availableSpace -= lipgloss.Width(title)
	sections = append(sections, title)

	var mode string
	if h.mode != "" {
		mode = HeaderIndicatorStyle.Render(h.mode)
		availableSpace -= lipgloss.Width(mode)
	}

	var status string
	if h.err != "" {
		status = ErrorStyle.Render(h.err)
		availableSpace -= lipgloss.Width(status)
	}

	if availableSpace < 0 {
		availableSpace = 0
	}
	spacer := lipgloss.NewStyle().Width(availableSpace).Render("")
	sections = append(sections, spacer)

	if h.err != "" {
		sections = append(sections, status)
	}
	if h.mode != "" {
		sections = append(sections, mode)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, sections...)
}
