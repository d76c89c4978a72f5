// Package main implements sqlctl, an operator CLI that exercises the
// driver layer directly (not through database/sql), grounded on the
// teacher's cmd/smf/cmd/schemift cobra.Command trees. See SPEC_FULL.md
// §4.11.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqlctl",
		Short: "Operator CLI over the sqldriver MySQL driver",
	}

	rootCmd.AddCommand(pingCmd())
	rootCmd.AddCommand(databasesCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(columnsCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(queryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
