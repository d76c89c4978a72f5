package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sqldriver/internal/transport/mysql/metadata"
)

func tablesCmd() *cobra.Command {
	var configPath, database, namePattern, kindFlag string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables (and views) in a database",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTables(configPath, database, namePattern, kindFlag)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	cmd.Flags().StringVar(&database, "database", "", "Database to list tables from (required)")
	cmd.Flags().StringVar(&namePattern, "like", "", "Client-side table name pattern")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Restrict to \"base\" or \"view\" (default: both)")
	return cmd
}

func runTables(configPath, database, namePattern, kindFlag string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	kind, err := tableKindFromFlag(kindFlag)
	if err != nil {
		return err
	}

	tables, err := d.Metadata().Tables(ctx, database, namePattern, kind)
	if err != nil {
		return err
	}
	for _, t := range tables {
		fmt.Printf("%s\t%s\n", t.Name, t.Kind)
	}
	return nil
}

func tableKindFromFlag(kindFlag string) (metadata.TableKind, error) {
	switch kindFlag {
	case "":
		return metadata.TableKindAny, nil
	case "base":
		return metadata.TableKindBase, nil
	case "view":
		return metadata.TableKindView, nil
	default:
		return "", fmt.Errorf("unknown --kind %q (want \"base\" or \"view\")", kindFlag)
	}
}
