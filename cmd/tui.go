package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kweyjibo/input-range/internal/app"
)

var (
	runningUnderTest     bool
	disableApply         bool
	connectToSessionBus  bool
	disableAutoHotReload bool
	runDuration          time.Duration
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive slider panel",
	Long:  `Launch a terminal panel with one slider per configured control.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			f, err := tea.LogToFile("debug.log", "debug")
			if err != nil {
				fmt.Println("fatal:", err)
				os.Exit(1)
			}
			logrus.SetOutput(f)
			defer f.Close()
		} else {
			// disable logging completely for tui unless run in the debug mode
			logrus.SetLevel(logrus.PanicLevel)
		}

		if runningUnderTest {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		var duration *time.Duration
		if runDuration > 0 {
			duration = &runDuration
		}

		ctx, cancel := context.WithCancelCause(context.Background())
		defer cancel(context.Canceled)

		app, err := app.NewTUI(ctx, configPath, Version,
			disableApply, connectToSessionBus, disableAutoHotReload, duration)
		if err != nil {
			return fmt.Errorf("cant init tui: %w", err)
		}

		return app.Run(ctx, cancel)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(
		&disableApply,
		"disable-apply",
		false,
		"Keep committed values local instead of pushing them over dbus",
	)

	tuiCmd.Flags().BoolVar(
		&connectToSessionBus,
		"connect-to-session-bus",
		false,
		"Connect to the session bus instead of the system bus for apply targets",
	)

	tuiCmd.Flags().BoolVar(
		&disableAutoHotReload,
		"disable-auto-hot-reload",
		false,
		"Do not watch the config file for changes",
	)

	tuiCmd.Flags().DurationVar(
		&runDuration,
		"duration",
		0,
		"Exit after the given duration, used for testing",
	)

	tuiCmd.Flags().BoolVar(&runningUnderTest, "running-under-test", false,
		"Use test settings such as no styling etc.")
}
