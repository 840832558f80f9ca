// Package timesync reads and writes the host's configured time zone through
// external commands, timedatectl by default.
package timesync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrInvalidZone is returned by SetZone for identifiers that could be taken
// for command line options.
var ErrInvalidZone = errors.New("invalid zone identifier")

// Syncer reads and commits the host zone.
type Syncer interface {
	// ReadCurrentZone never fails; ok is false when the zone is unknown.
	ReadCurrentZone(ctx context.Context) (zone string, ok bool)
	SetZone(ctx context.Context, zone string) error
}

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// CommandError is returned when a command starts but exits unsuccessfully.
type CommandError struct {
	Command []string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Command, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children left holding the output pipes must not outlive ctx.
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return stdout.Bytes(), &CommandError{
			Command: append([]string{name}, args...),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// Defaults for Timedatectl.
var (
	DefaultQueryCommand = []string{"timedatectl"}
	DefaultSetCommand   = []string{"timedatectl", "set-timezone"}
)

const DefaultTimeout = 30 * time.Second

// Timedatectl is a Syncer backed by a query command whose output carries a
// "Time zone: <id> (...)" line and a set command taking the id as its last
// argument.
type Timedatectl struct {
	Runner       Runner
	QueryCommand []string
	SetCommand   []string
	// Timeout bounds each command; zero means no limit.
	Timeout time.Duration
}

// NewTimedatectl returns a Syncer using the stock timedatectl commands.
func NewTimedatectl() *Timedatectl {
	return &Timedatectl{
		Runner:       ExecRunner{},
		QueryCommand: DefaultQueryCommand,
		SetCommand:   DefaultSetCommand,
		Timeout:      DefaultTimeout,
	}
}

func (t *Timedatectl) run(ctx context.Context, command []string, extra ...string) ([]byte, error) {
	if len(command) == 0 {
		return nil, errors.New("no command configured")
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	runner := t.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	args := append(append([]string{}, command[1:]...), extra...)
	return runner.Run(ctx, command[0], args...)
}

func (t *Timedatectl) ReadCurrentZone(ctx context.Context) (string, bool) {
	out, err := t.run(ctx, t.QueryCommand)
	if err != nil {
		slog.Warn("Could not query the current time zone", "command", t.QueryCommand, "error", err)
		return "", false
	}
	zone, ok := ParseZone(out)
	if !ok {
		slog.Warn("No time zone in query output", "command", t.QueryCommand, "output", string(out))
		return "", false
	}
	slog.Debug("Current time zone", "zone", zone)
	return zone, true
}

func (t *Timedatectl) SetZone(ctx context.Context, zone string) error {
	if zone == "" || strings.HasPrefix(zone, "-") || strings.ContainsAny(zone, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}
	if _, err := t.run(ctx, t.SetCommand, zone); err != nil {
		return fmt.Errorf("set time zone %s: %w", zone, err)
	}
	slog.Info("Time zone changed", "zone", zone)
	return nil
}

// ParseZone scans query command output for the zone line. It accepts the
// human form "Time zone: Europe/Paris (CET, +0100)" and the property form
// "Timezone=Europe/Paris" printed by "timedatectl show".
func ParseZone(output []byte) (string, bool) {
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(strings.ToLower(line), "zone") {
			continue
		}
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Timezone="); ok {
			if fields := strings.Fields(v); len(fields) > 0 {
				return fields[0], true
			}
			continue
		}
		_, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if fields := strings.Fields(v); len(fields) > 0 {
			return fields[0], true
		}
	}
	return "", false
}
