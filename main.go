package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atomicstack/doctree/internal/app"
	"github.com/atomicstack/doctree/internal/config"
	"github.com/atomicstack/doctree/internal/logging"
	"github.com/atomicstack/doctree/internal/logging/events"
)

func main() {
	if err := newRootCommand(os.Environ()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(environ []string) *cobra.Command {
	root := &cobra.Command{
		Use:           "doctree [position]",
		Short:         "Browse an XML or HTML document as a live tree",
		Long:          "doctree shows the document at a file path or http(s) URL as an expandable tree and keeps it in sync while the document changes.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	values := config.RegisterFlags(root.PersistentFlags(), environ)

	load := func(cmd *cobra.Command, args []string) (config.Config, error) {
		cfg, err := config.Build(cmd.Flags(), values, args)
		if err != nil {
			return config.Config{}, fmt.Errorf("configuration: %w", err)
		}
		cfg.Args = append([]string(nil), os.Args[1:]...)
		logging.Configure(cfg.Logging.FilePath)
		logging.SetTraceEnabled(cfg.Logging.Trace)
		return cfg, nil
	}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := load(cmd, args)
		if err != nil {
			return err
		}
		traceStartup(cfg)
		if err := app.Run(cfg.App); err != nil {
			logging.Error(err)
			return err
		}
		return nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "keys <position>",
		Short: "Print every path key of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, args)
			if err != nil {
				return err
			}
			return app.Keys(context.Background(), cmd.OutOrStdout(), cfg.App)
		},
	})
	return root
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		} else {
			entry.IsTerminal = false
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
