package tui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kweyjibo/input-range/internal/tui"
)

func TestHeader_Update(t *testing.T) {
	t.Parallel()
	testErr := errors.New("test error")

	tests := []struct {
		name       string
		msgs       []func() interface{}
		mode       string
		expectView []string
		rejectView []string
	}{
		{
			name:       "title and version are always shown",
			expectView: []string{"panel", "v1.2.3"},
		},
		{
			name:       "mode indicator is rendered when set",
			mode:       "DRAGGING",
			expectView: []string{"DRAGGING"},
		},
		{
			name: "operation error is surfaced",
			msgs: []func() interface{}{
				func() interface{} { return tui.OperationStatusCmd(tui.OperationNameApply, testErr)() },
			},
			expectView: []string{"apply failed: test error"},
		},
		{
			name: "successful operation clears a previous error",
			msgs: []func() interface{}{
				func() interface{} { return tui.OperationStatusCmd(tui.OperationNameApply, testErr)() },
				func() interface{} { return tui.OperationStatusCmd(tui.OperationNameApply, nil)() },
			},
			rejectView: []string{"apply failed"},
		},
		{
			name: "config reload clears a previous error",
			msgs: []func() interface{}{
				func() interface{} { return tui.OperationStatusCmd(tui.OperationNameReload, testErr)() },
				func() interface{} { return tui.ConfigReloaded{} },
			},
			rejectView: []string{"reload failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header := tui.NewHeader("panel", "v1.2.3")
			header.SetWidth(80)
			header.SetMode(tt.mode)
			for _, msg := range tt.msgs {
				header.Update(msg())
			}

			view := header.View()
			for _, want := range tt.expectView {
				assert.Contains(t, view, want)
			}
			for _, reject := range tt.rejectView {
				assert.NotContains(t, view, reject)
			}
		})
	}
}
