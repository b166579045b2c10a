// Package pipeline turns measurement files into tables and motion models ready for comparison.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/LdDl/mot-compare/config"
	"github.com/LdDl/mot-compare/logging"
	"github.com/LdDl/mot-compare/measurements"
	"github.com/LdDl/mot-compare/motion"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Side is one prepared measurement table together with the motion model fitted on it
type Side struct {
	Path  string
	Table measurements.Table
	Model *motion.Model
}

// Prepare loads both measurement files concurrently and prepares each of them:
// optional Kalman smoothing, motion model built in (label, frame) order,
// then sorting by (frame, label, secondary) and validation.
func Prepare(ctx context.Context, cfg *config.Config, pathA, pathB string) (*Side, *Side, error) {
	layout, err := measurements.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, nil, err
	}
	comma, err := cfg.CommaRune()
	if err != nil {
		return nil, nil, err
	}

	sides := [2]*Side{{Path: pathA}, {Path: pathB}}
	g, ctx := errgroup.WithContext(ctx)
	for i := range sides {
		side := sides[i]
		g.Go(func() error {
			table, err := measurements.LoadCSV(side.Path, layout, comma)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return side.build(ctx, cfg, table)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sides[0], sides[1], nil
}

// FromTable prepares a table which is already in memory. The table is sorted in place
func FromTable(ctx context.Context, cfg *config.Config, name string, table measurements.Table) (*Side, error) {
	side := &Side{Path: name}
	if err := side.build(ctx, cfg, table); err != nil {
		return nil, err
	}
	return side, nil
}

func (side *Side) build(ctx context.Context, cfg *config.Config, table measurements.Table) error {
	logger := logging.New("pipeline").With(slog.String("table", side.Path))
	table.SortByLabelTime()
	if cfg.Smooth {
		stats, err := measurements.Smooth(table, cfg.Kalman)
		if err != nil {
			return errors.Wrapf(err, "Can't smooth '%s'", side.Path)
		}
		logger.Debug("smoothed", slog.Int("tracks", stats.Tracks), slog.Int("points", stats.Points), slog.Float64("max_shift", stats.MaxShift))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	model, err := motion.Build(table, cfg.Bins, cfg.MinState)
	if err != nil {
		return errors.Wrapf(err, "Can't build motion model for '%s'", side.Path)
	}
	model.ApplyLog2()

	table.SortByFrameLabelSecondary()
	if err := table.Validate(); err != nil {
		return errors.Wrapf(err, "Bad table '%s'", side.Path)
	}
	side.Table = table
	side.Model = model
	logger.Info("prepared",
		slog.Int("records", len(table)),
		slog.Int("frames", table.Frames()),
		slog.Int("label_slots", table.NumLabels()),
		slog.Int("transitions", model.Transitions()),
	)
	return nil
}
