package main

import (
	"context"
	"fmt"

	"sqldriver/internal/config"
	"sqldriver/internal/sqldriver"
)

// openDriver loads connection parameters from a TOML file and opens a
// Driver against them, per SPEC_FULL.md §4.11's `--config cfg.toml`
// convention shared by every subcommand.
func openDriver(ctx context.Context, configPath string) (*sqldriver.Driver, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cp, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	d := sqldriver.New()
	if err := d.Open(ctx, config.ToConnectionParameters(cp)); err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return d, nil
}
