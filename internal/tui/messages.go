package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ControlChanged is emitted when a slider commits a new value (pointer
// release, track click, keyboard step or text entry).
type ControlChanged struct {
	Name  string
	Value float64
}

func controlChangedCmd(name string, value float64) tea.Cmd {
	return func() tea.Msg {
		return ControlChanged{Name: name, Value: value}
	}
}

// ConfigReloaded is injected by the application when the config file
// changed on disk and revalidated successfully.
type ConfigReloaded struct{}

type OperationName int

const (
	OperationNameNone OperationName = iota
	OperationNameApply
	OperationNameInput
	OperationNameReload
)

func (o OperationName) String() string {
	switch o {
	case OperationNameApply:
		return "apply"
	case OperationNameInput:
		return "input"
	case OperationNameReload:
		return "reload"
	default:
		return "none"
	}
}

// OperationStatus reports the outcome of a side-effecting operation so
// the header can surface failures without interrupting interaction.
type OperationStatus struct {
	name OperationName
	err  error
}

func (o OperationStatus) IsError() bool {
	return o.err != nil
}

func (o OperationStatus) String() string {
	if o.err == nil {
		return ""
	}
	return fmt.Sprintf("%s failed: %v", o.name, o.err)
}

func OperationStatusCmd(name OperationName, err error) tea.Cmd {
	return func() tea.Msg {
		return OperationStatus{name: name, err: err}
	}
}
