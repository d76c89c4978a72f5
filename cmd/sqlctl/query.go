package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sqldriver/internal/sqldriver"
	"sqldriver/internal/value"
)

func queryCmd() *cobra.Command {
	var configPath, sql string
	var rawParams []string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query through the driver layer and print the result set",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runQuery(configPath, sql, rawParams)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to connection config TOML file (required)")
	cmd.Flags().StringVar(&sql, "sql", "", "Query text; use :name for bound parameters (required)")
	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "name=value bound parameter, repeatable")
	return cmd
}

func runQuery(configPath, sql string, rawParams []string) error {
	ctx := context.Background()
	d, err := openDriver(ctx, configPath)
	if err != nil {
		return err
	}
	defer d.Close()

	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	syntax := sqldriver.SyntaxQuestion
	if len(params) > 0 {
		syntax = sqldriver.SyntaxColon
	}

	res, err := d.Query(ctx, sql, syntax, params)
	if err != nil {
		return err
	}
	defer res.Close()

	fields := res.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	fmt.Println(strings.Join(names, "\t"))

	for {
		row, err := res.Fetch()
		if err != nil {
			break
		}
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatNative(cell)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	return nil
}

// parseParams turns repeated `--param name=value` flags into a SqlValue
// map of the shape Driver.Query expects. Every CLI-supplied value arrives
// as a string; the driver's own placeholder/type layer handles any
// necessary coercion against the target column.
func parseParams(rawParams []string) (map[string]value.SqlValue, error) {
	if len(rawParams) == 0 {
		return nil, nil
	}
	params := make(map[string]value.SqlValue, len(rawParams))
	for _, raw := range rawParams {
		name, val, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q (want name=value)", raw)
		}
		params[name] = value.SqlString(val)
	}
	return params, nil
}

func formatNative(n value.NativeValue) string {
	if n.Null {
		return "NULL"
	}
	switch n.Kind {
	case value.KindBool:
		return strconv.FormatBool(n.Bool())
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		return strconv.FormatInt(n.Int64(), 10)
	case value.KindUint8, value.KindUint16, value.KindUint32, value.KindUint64:
		return strconv.FormatUint(n.Uint64(), 10)
	case value.KindFloat32, value.KindFloat64:
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	case value.KindString:
		return n.String()
	case value.KindBytes:
		return string(n.Bytes())
	case value.KindTime:
		return formatMysqlTime(n.Time())
	default:
		return ""
	}
}

func formatMysqlTime(t value.MysqlTime) string {
	switch t.Kind {
	case value.TimeDate:
		return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
	case value.TimeTime:
		sign := ""
		if t.Negative {
			sign = "-"
		}
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, t.Hour, t.Minute, t.Second)
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
	default:
		return ""
	}
}
