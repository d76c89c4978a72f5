package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func indexesCmd() *cobra.Command {
	var configPath, database, table string
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the indexes defined on a table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runIndexes(configPath, database, table)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	cmd.Flags().StringVar(&database, "database", "", "Database containing the table (required)")
	cmd.Flags().StringVar(&table, "table", "", "Table to inspect (required)")
	return cmd
}

func runIndexes(configPath, database, table string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	indexes, err := d.Metadata().Indexes(ctx, database, table)
	if err != nil {
		return err
	}
	for _, idx := range indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = c.Name
		}
		unique := ""
		if idx.Unique {
			unique = " UNIQUE"
		}
		fmt.Printf("%s%s (%s)\n", idx.Name, unique, strings.Join(cols, ", "))
	}
	return nil
}
