package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/gridkit"
	"github.com/hupe1980/gridkit/config"
)

// Action carries the state of one command invocation.
type Action struct {
	cmd   *cobra.Command
	quiet bool
	start time.Time
	cfg   *config.Grid
}

func newAction(cmd *cobra.Command) *Action {
	result := &Action{cmd: cmd, start: time.Now()}
	result.quiet = result.getBool("quiet")
	return result
}

func (a *Action) Context() context.Context {
	if ctx := a.cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getInt64(name string) int64 {
	result, _ := a.cmd.Flags().GetInt64(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringSlice(name string) []string {
	result, _ := a.cmd.Flags().GetStringSlice(name)
	return result
}

// Config loads the grid config named by --config once.
func (a *Action) Config() *config.Grid {
	if a.cfg == nil {
		cfg, err := config.Load(a.getString("config"))
		if err != nil {
			a.Exit(nil, err)
		}
		a.cfg = cfg
	}
	return a.cfg
}

// Logger returns a text logger at the configured level.
func (a *Action) Logger() *gridkit.Logger {
	level := slog.LevelInfo
	if a.cfg != nil {
		level = a.cfg.SlogLevel()
	}
	if s := a.getString("log-level"); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			a.Exit(nil, fmt.Errorf("invalid --log-level %q", s))
		}
	}
	if a.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return gridkit.NewTextLogger(level)
}

func rtrimEol(value string) string {
	return strings.TrimRight(value, "\r\n")
}

func (a *Action) Append(format string, args ...any) *Action {
	if a.quiet {
		return a
	}
	fmt.Fprintf(os.Stderr, format, args...)
	return a
}

// Show the action banner message.
func (a *Action) Start(format string, args ...any) *Action {
	if a.quiet {
		return a
	}
	fmt.Fprintf(os.Stderr, "%s .. ", fmt.Sprintf(format, args...))
	return a
}

// Update the action banner and exit.
func (a *Action) Exit(result fmt.Stringer, err error) {
	delta := time.Since(a.start).Seconds()
	if err != nil {
		a.Append("(%.1fs)\n", delta)
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
	a.Append("Ok (%.1fs)\n", delta)
	if result != nil {
		fmt.Println(rtrimEol(result.String()))
	}
	os.Exit(0)
}
