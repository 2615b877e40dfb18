package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tally/internal/driver"
	"tally/internal/source"
	"tally/internal/ui"
)

type checkDirOutcome struct {
	fs      *source.FileSet
	results []driver.DirResult
	err     error
}

// runCheckDirWithUI runs driver.CheckDir while a Bubble Tea model renders
// its progress events.
func runCheckDirWithUI(ctx context.Context, title, dir string, opts driver.Options, jobs int) (*source.FileSet, []driver.DirResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(files))
	for _, path := range files {
		if rel, err := source.RelativePath(path, dir); err == nil {
			path = rel
		}
		names = append(names, path)
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkDirOutcome, 1)

	go func() {
		local := opts
		local.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, local, jobs)
		close(events)
		outcomeCh <- checkDirOutcome{fs: fs, results: results, err: err}
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// модель могла выйти раньше (Ctrl+C): не даём драйверу заблокироваться
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
