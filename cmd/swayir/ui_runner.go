package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Natalie359738/sway/internal/driver"
	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irtype"
	"github.com/Natalie359738/sway/internal/ui"
)

type optOutcome struct {
	result *driver.Result
	err    error
}

// runOptWithUI runs the driver in the background while a Bubble Tea
// progress model consumes its events.
func runOptWithUI(ctx context.Context, title string, m *ir.Module, tys *irtype.Interner, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan optOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, m, tys, optsCopy)
		outcomeCh <- optOutcome{result: res, err: err}
		close(events)
	}()

	names := make([]string, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if f != nil {
			names = append(names, f.Name)
		}
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
