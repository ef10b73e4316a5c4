package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kernelsym/internal/builtins"
	"kernelsym/internal/ui"
)

type scanOutcome struct {
	results []scanResult
	err     error
}

// classifyWithUI runs classifyAll while a Bubble Tea program renders
// progress on stderr.
func classifyWithUI(ctx context.Context, reg *builtins.Registry, lines []symbolLine, jobs int) ([]scanResult, error) {
	events := make(chan ui.ScanEvent, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		res, err := classifyAll(ctx, reg, lines, jobs, events)
		outcomeCh <- scanOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewScanProgress("classifying symbols", len(lines), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep draining so the workers can finish.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
