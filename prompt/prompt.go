// Package prompt is the line mode zone picker: one filterable select
// followed by a confirmation, for terminals where a full screen program is
// unwanted.
package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tzlist/tzselect/catalog"
	"github.com/tzlist/tzselect/picker"
	"github.com/tzlist/tzselect/timesync"
)

// Options tune the prompts.
type Options struct {
	PageSize int
}

// Run asks for a zone, confirms it, and commits it. Declining the
// confirmation is not an error. A failed commit is reported through the
// driver and returned.
func Run(ctx context.Context, d Driver, state *picker.State, syncer timesync.Syncer, opts Options) error {
	current, ok := syncer.ReadCurrentZone(ctx)
	state.SetCurrent(current, ok)
	label := "unknown"
	if ok {
		label = current
	}
	if err := d.Info(ctx, "Current time zone: "+label); err != nil {
		return err
	}

	choice, err := d.Select(ctx, SelectConfig{
		Message:  "Time zone:",
		Options:  state.Rows(),
		Default:  current,
		Help:     "Type to filter, arrows to move, enter to choose",
		PageSize: opts.PageSize,
		Filter:   catalog.Visible,
		Describe: func(option string) string {
			if state.Highlighted(option) {
				return "current"
			}
			return ""
		},
	})
	if err != nil {
		return err
	}
	if !state.SelectZone(choice) {
		return fmt.Errorf("%q is not a known time zone", choice)
	}
	if err := d.Info(ctx, state.Catalog().Describe(choice)); err != nil {
		return err
	}

	yes, err := d.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Set the system time zone to %s?", choice),
		Default: !state.Highlighted(choice),
	})
	if err != nil {
		return err
	}
	if !yes {
		slog.Debug("Time zone change declined", "zone", choice)
		return nil
	}

	zone, err := state.BeginCommit()
	if err != nil {
		return err
	}
	commitErr := syncer.SetZone(ctx, zone)
	state.FinishCommit(zone, commitErr)
	if err := d.Info(ctx, state.Message()); err != nil {
		return err
	}
	return commitErr
}
