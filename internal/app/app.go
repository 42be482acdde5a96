package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/doctree/internal/doctree"
	"github.com/atomicstack/doctree/internal/format/table"
	"github.com/atomicstack/doctree/internal/loader"
	"github.com/atomicstack/doctree/internal/logging/events"
	"github.com/atomicstack/doctree/internal/state"
	"github.com/atomicstack/doctree/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Position       string
	Interval       time.Duration
	MaxAge         time.Duration
	HTTPTimeout    time.Duration
	Width          int
	Height         int
	ShowFooter     bool
	SanitizeHTML   bool
	TemplateLocked bool
}

func (cfg Config) loaderOptions() loader.Options {
	return loader.Options{
		MaxAge:       cfg.MaxAge,
		HTTPTimeout:  cfg.HTTPTimeout,
		SanitizeHTML: cfg.SanitizeHTML,
		Throttle:     cfg.Interval / 2,
	}
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	l := loader.New(cfg.loaderOptions())
	defer l.Close()

	session := state.NewSession(cfg.Position, state.NewTemplate(!cfg.TemplateLocked))
	model := ui.NewModel(ui.Options{
		Source:     l,
		Status:     l,
		Session:    session,
		Interval:   cfg.Interval,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}

// Keys fetches the document at cfg.Position once and writes every path key
// with its node kind to w.
func Keys(ctx context.Context, w io.Writer, cfg Config) error {
	l := loader.New(cfg.loaderOptions())
	defer l.Close()

	doc, err := l.Fetch(ctx, cfg.Position)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Position, err)
	}
	_, index := doctree.Build(doc)
	keys := index.Keys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		n, _ := index.Lookup(key)
		rows = append(rows, []string{n.Kind.String(), key})
	}
	for _, line := range table.Format(rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
