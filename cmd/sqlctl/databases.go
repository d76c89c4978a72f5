package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func databasesCmd() *cobra.Command {
	var configPath, like string
	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List databases",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDatabases(configPath, like)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	cmd.Flags().StringVar(&like, "like", "", "SHOW DATABASES LIKE pattern")
	return cmd
}

func runDatabases(configPath, like string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	names, err := d.Metadata().Databases(ctx, like)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
