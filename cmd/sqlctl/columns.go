package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func columnsCmd() *cobra.Command {
	var configPath, database, table string
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Describe the columns of a table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runColumns(configPath, database, table)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	cmd.Flags().StringVar(&database, "database", "", "Database containing the table (required)")
	cmd.Flags().StringVar(&table, "table", "", "Table to describe (required)")
	return cmd
}

func runColumns(configPath, database, table string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	cols, err := d.Metadata().Columns(ctx, database, table)
	if err != nil {
		return err
	}
	for _, c := range cols {
		flags := ""
		if c.IsPrimaryKey() {
			flags += " PRI"
		}
		if c.IsAutoIncrement() {
			flags += " AUTO_INCREMENT"
		}
		if c.IsNotNull() {
			flags += " NOT NULL"
		}
		fmt.Printf("%s\t%s\n", c.Name, flags)
	}
	return nil
}
