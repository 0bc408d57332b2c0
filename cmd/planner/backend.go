package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/warp/resource-planner/api"
	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
	"github.com/warp/resource-planner/store/jsonfile"
	"github.com/warp/resource-planner/store/memory"
	"github.com/warp/resource-planner/store/sqlite"
)

// backend is the configured store plus the concrete type behind it, for
// the features only one backend has.
type backend struct {
	Store    planning.Store
	Settings api.SettingsStore
	JSON     *jsonfile.Store
	SQLite   *sqlite.Store
}

func openBackend(cfg config.StorageConfig, logger *slog.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		s := jsonfile.New(cfg.DataPath, cfg.SettingsPath, logger)
		return &backend{Store: s, Settings: s, JSON: s}, nil
	case config.BackendSQLite:
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{Store: s, Settings: s, SQLite: s}, nil
	case config.BackendMemory:
		s := memory.NewMemory(nil)
		return &backend{Store: s, Settings: s}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (b *backend) Close() error {
	if b.SQLite != nil {
		return b.SQLite.Close()
	}
	return nil
}

// loadDocument returns the scenario document when one is named, otherwise
// the stored document.
func loadDocument(ctx context.Context, g *globals, scenario string) (*planning.Document, config.Settings, error) {
	if scenario != "" {
		doc, ok := api.ScenarioDocument(scenario)
		if !ok {
			return nil, config.Settings{}, fmt.Errorf("unknown scenario %q", scenario)
		}
		return doc, config.DefaultSettings(), nil
	}

	cfg, logger, err := g.load()
	if err != nil {
		return nil, config.Settings{}, err
	}
	b, err := openBackend(cfg.Storage, logger)
	if err != nil {
		return nil, config.Settings{}, err
	}
	defer b.Close()

	doc, err := b.Store.Load(ctx)
	if err != nil {
		return nil, config.Settings{}, err
	}
	settings, err := b.Settings.LoadSettings(ctx)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return doc, settings, nil
}

// periodFlags are the --from/--to report bounds.
type periodFlags struct {
	from string
	to   string
}

func (p periodFlags) options() (planning.AggregateOptions, error) {
	var opts planning.AggregateOptions
	if p.from != "" {
		tp, err := generic.ParseTimePoint(p.from)
		if err != nil {
			return opts, fmt.Errorf("--from: %w", err)
		}
		opts.From = &tp
	}
	if p.to != "" {
		tp, err := generic.ParseTimePoint(p.to)
		if err != nil {
			return opts, fmt.Errorf("--to: %w", err)
		}
		opts.To = &tp
	}
	return opts, nil
}
