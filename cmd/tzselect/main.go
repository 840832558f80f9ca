package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/tzlist/tzselect/catalog"
	"github.com/tzlist/tzselect/config"
	"github.com/tzlist/tzselect/logging"
	"github.com/tzlist/tzselect/picker"
	"github.com/tzlist/tzselect/posix/tzposix"
	"github.com/tzlist/tzselect/prompt"
	"github.com/tzlist/tzselect/timesync"
	"github.com/tzlist/tzselect/tui"
)

type mode int

const (
	modeWindow mode = iota
	modePrompt
	modeList
	modeCurrent
	modeSet
)

type options struct {
	configPath string
	logLevel   string
	logFile    string
	zoneinfo   []string
	timeout    time.Duration
	verbose    bool
	mode       mode
	setZone    string
	query      string
}

// errUnknownZone makes --current exit 1 without an error message.
var errUnknownZone = errors.New("current time zone is unknown")

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var list, current, usePrompt bool

	fs := pflag.NewFlagSet("tzselect", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tzselect [flags] [QUERY]")
		fmt.Fprintln(stderr, "Pick the system time zone from the zoneinfo database.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/tzselect/config.yaml)")
	fs.FuncP("loglevel", "l", "Set loglevel to trace, debug, info, warning, error or fatal", func(value string) error {
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		opts.logLevel = value
		return nil
	})
	fs.StringVar(&opts.logFile, "log-file", "", "write logs to this file while the full screen picker runs")
	fs.StringSliceVarP(&opts.zoneinfo, "zoneinfo", "z", nil, "zoneinfo directories to search, in order")
	fs.DurationVar(&opts.timeout, "timeout", 0, "limit for each timedatectl call (default from config, 30s)")
	fs.BoolVarP(&usePrompt, "prompt", "p", false, "use line prompts instead of the full screen picker")
	fs.BoolVar(&list, "list", false, "print the zones matching QUERY and exit; the current zone is marked with *")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "with --list or --current, describe zone rules")
	fs.BoolVar(&current, "current", false, "print the current time zone and exit")
	fs.StringVar(&opts.setZone, "set", "", "set the time zone to `ZONE` without prompting")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.query = strings.Join(fs.Args(), " ")

	chosen := 0
	for _, on := range []bool{usePrompt, list, current, opts.setZone != ""} {
		if on {
			chosen++
		}
	}
	if chosen > 1 {
		return opts, errors.New("--prompt, --list, --current and --set are mutually exclusive")
	}
	switch {
	case usePrompt:
		opts.mode = modePrompt
	case list:
		opts.mode = modeList
	case current:
		opts.mode = modeCurrent
	case opts.setZone != "":
		opts.mode = modeSet
	}
	return opts, nil
}

// settings merges flags over the config file.
func settings(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if len(opts.zoneinfo) > 0 {
		cfg.ZoneinfoDirs = opts.zoneinfo
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	return cfg, cfg.Validate()
}

// setupLogging sends logs to stderr in the line modes. The full screen
// picker logs to the configured file, or nowhere, so records never land on
// the screen.
func setupLogging(cfg config.Config, m mode, stderr io.Writer) (io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	var w io.Writer = stderr
	var closer io.Closer
	if m == modeWindow {
		w = nil
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file: %w", err)
			}
			w, closer = f, f
		}
	}
	logging.Setup(w, level)
	return closer, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// Log to stderr until the configured destination is known.
	logging.Setup(stderr, slog.LevelInfo)
	cfg, err := settings(opts)
	if err != nil {
		return err
	}
	closer, err := setupLogging(cfg, opts.mode, stderr)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	cat, err := catalog.Load(cfg.ZoneinfoDirs)
	if err != nil {
		return fmt.Errorf("load time zone database: %w", err)
	}
	slog.Info("Statistics", "zones", cat.Len())

	syncer := cfg.Syncer()
	state := picker.New(cat)

	switch opts.mode {
	case modeList:
		return listZones(ctx, stdout, state, syncer, opts)
	case modeCurrent:
		return currentZone(ctx, stdout, state, syncer, opts.verbose)
	case modeSet:
		return setZone(ctx, stdout, state, syncer, opts.setZone)
	case modePrompt:
		return prompt.Run(ctx, prompt.NewSurveyDriver(), state, syncer, prompt.Options{PageSize: cfg.PageSize})
	}

	m := tui.New(ctx, state, syncer).WithQuery(opts.query)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(tui.Model); ok {
		if zone, ok := fm.State().Current(); ok {
			fmt.Fprintln(stdout, "Current time zone:", zone)
		}
	}
	return nil
}

func listZones(ctx context.Context, w io.Writer, state *picker.State, syncer timesync.Syncer, opts options) error {
	current, ok := syncer.ReadCurrentZone(ctx)
	state.SetCurrent(current, ok)
	state.SetQuery(opts.query)

	for _, name := range state.Rows() {
		marker := " "
		if state.Highlighted(name) {
			marker = "*"
		}
		line := name
		if opts.verbose {
			line = state.Catalog().Describe(name)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", marker, line); err != nil {
			return err
		}
	}
	slog.Debug("Statistics", "matching", len(state.Rows()), "query", opts.query)
	return nil
}

func currentZone(ctx context.Context, w io.Writer, state *picker.State, syncer timesync.Syncer, verbose bool) error {
	zone, ok := syncer.ReadCurrentZone(ctx)
	if !ok {
		return errUnknownZone
	}
	if _, err := fmt.Fprintln(w, zone); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	z, ok := state.Catalog().Lookup(zone)
	if !ok || z.Extend == "" {
		return nil
	}
	desc, err := tzposix.HumanReadableTZ(z.Extend)
	if err != nil {
		slog.Warn("Cannot describe zone rules", "zone", zone, "rules", z.Extend, "error", err)
		return nil
	}
	_, err = fmt.Fprintln(w, desc)
	return err
}

func setZone(ctx context.Context, w io.Writer, state *picker.State, syncer timesync.Syncer, zone string) error {
	if !state.Catalog().Contains(zone) {
		return fmt.Errorf("unknown time zone %q", zone)
	}
	current, ok := syncer.ReadCurrentZone(ctx)
	state.SetCurrent(current, ok)
	state.SelectZone(zone)

	id, err := state.BeginCommit()
	if err != nil {
		return err
	}
	commitErr := syncer.SetZone(ctx, id)
	state.FinishCommit(id, commitErr)
	if commitErr != nil {
		return commitErr
	}
	_, err = fmt.Fprintln(w, state.Message())
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
		return
	case errors.Is(err, pflag.ErrHelp):
		return
	case errors.Is(err, errUnknownZone), errors.Is(err, prompt.ErrAborted):
		stop()
		os.Exit(1)
	}
	stop()
	// the full screen picker may have silenced the default logger
	logging.Setup(os.Stderr, slog.LevelInfo)
	logging.Fatal("tzselect failed", "error", err)
}
