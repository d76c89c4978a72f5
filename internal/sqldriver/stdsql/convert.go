package stdsql

import (
	"database/sql/driver"
	"fmt"
	"time"

	"sqldriver/internal/value"
)

// driverValueToSQL converts a database/sql/driver.Value (already normalized
// by database/sql to one of int64/float64/bool/[]byte/string/time.Time/nil)
// into the engine-agnostic value.SqlValue this package's sqldriver.Driver
// expects to bind.
func driverValueToSQL(v driver.Value) (value.SqlValue, error) {
	if v == nil {
		return value.SqlNull(value.HintUnknown), nil
	}
	switch t := v.(type) {
	case int64:
		return value.SqlInt64(t), nil
	case float64:
		return value.SqlFloat64(t), nil
	case bool:
		return value.SqlBool(t), nil
	case []byte:
		return value.SqlBlob(t), nil
	case string:
		return value.SqlString(t), nil
	case time.Time:
		return value.SqlDateTime(t), nil
	default:
		return value.SqlValue{}, fmt.Errorf("stdsql: unsupported driver.Value type %T", v)
	}
}

// nativeToDriverValue converts a decoded value.NativeValue back to a
// database/sql/driver.Value for Rows.Next.
func nativeToDriverValue(nv value.NativeValue) (driver.Value, error) {
	if nv.Null {
		return nil, nil
	}
	switch nv.Kind {
	case value.KindBool:
		return nv.Bool(), nil
	case value.KindInt8, value.KindInt16, value.KindInt32, value.KindInt64:
		return nv.Int64(), nil
	case value.KindUint8, value.KindUint16, value.KindUint32, value.KindUint64:
		return int64(nv.Uint64()), nil
	case value.KindFloat32, value.KindFloat64:
		return nv.Float64(), nil
	case value.KindString:
		return nv.String(), nil
	case value.KindBytes:
		return nv.Bytes(), nil
	case value.KindTime:
		return timeFromMysqlTime(nv.Time())
	default:
		return nil, fmt.Errorf("stdsql: unsupported NativeValue kind %v", nv.Kind)
	}
}

func timeFromMysqlTime(t value.MysqlTime) (time.Time, error) {
	switch t.Kind {
	case value.TimeDate:
		return time.Date(int(t.Year), time.Month(t.Month), int(t.Day), 0, 0, 0, 0, time.UTC), nil
	case value.TimeTime:
		d := time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second + time.Duration(t.Microsecond)*time.Microsecond
		if t.Negative {
			d = -d
		}
		return time.Time{}.Add(d), nil
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		return time.Date(int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), int(t.Microsecond)*1000, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("stdsql: unsupported MysqlTime kind %v", t.Kind)
	}
}

func driverArgsToSQL(args []driver.Value) ([]value.SqlValue, error) {
	out := make([]value.SqlValue, len(args))
	for i, a := range args {
		sv, err := driverValueToSQL(a)
		if err != nil {
			return nil, err
		}
		out[i] = sv
	}
	return out, nil
}

func namedArgsToSQL(args []driver.NamedValue) ([]value.SqlValue, error) {
	out := make([]value.SqlValue, len(args))
	for i, a := range args {
		sv, err := driverValueToSQL(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = sv
	}
	return out, nil
}
