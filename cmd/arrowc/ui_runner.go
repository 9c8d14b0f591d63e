package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"arrowc/internal/driver"
	"arrowc/internal/ui"
)

type compileOutcome struct {
	units []*driver.Unit
	err   error
}

// resolveUIMode decides whether the progress UI is shown. auto shows it
// on a terminal unless output is JSON or quiet.
func resolveUIMode(mode string, s *settings) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return !s.quiet && s.format != "json" && isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid ui mode: %q (expected: auto|on|off)", mode)
}

func compileWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.Unit, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		units, err := driver.CompileFiles(ctx, files, opts)
		outcomeCh <- compileOutcome{units: units, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.units, uiErr
	}
	return outcome.units, outcome.err
}
