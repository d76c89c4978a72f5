package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Connect, ping, report server info, disconnect",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPing(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	return cmd
}

func runPing(configPath string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println("ping ok")
	return nil
}
