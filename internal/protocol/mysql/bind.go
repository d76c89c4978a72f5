package mysql

import (
	"encoding/binary"
	"math"

	"sqldriver/internal/value"
)

// ParamBind mirrors one MYSQL_BIND entry for a prepared-statement input
// parameter: the wire type the server should interpret the buffer as,
// whether it is unsigned, the encoded payload, and whether it is null.
// Strings and blobs always carry their length inline in Buffer via the
// length-encoded-string form used by COM_STMT_EXECUTE; fixed-width
// numerics do not need a separate length since the type implies the width
// (SPEC_FULL.md §4.1 "Input bind setup").
type ParamBind struct {
	Type     Type
	Unsigned bool
	Null     bool
	Buffer   []byte
}

// BuildParamBind encodes nv into a ParamBind. When nv is null, the
// returned bind's Type is taken from nv's NumType so provenance survives
// the round trip, and Buffer is empty.
func BuildParamBind(nv value.NativeValue) (ParamBind, error) {
	if nv.Null {
		return ParamBind{Type: Type(nv.NumType), Unsigned: nv.Flags.Has(value.FlagUnsigned), Null: true}, nil
	}

	switch nv.Kind {
	case value.KindBool:
		v := byte(0)
		if nv.Bool() {
			v = 1
		}
		return ParamBind{Type: TypeTiny, Buffer: []byte{v}}, nil
	case value.KindInt8:
		return ParamBind{Type: TypeTiny, Buffer: []byte{byte(int8(nv.Int64()))}}, nil
	case value.KindUint8:
		return ParamBind{Type: TypeTiny, Unsigned: true, Buffer: []byte{byte(nv.Uint64())}}, nil
	case value.KindInt16:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(int16(nv.Int64())))
		return ParamBind{Type: TypeShort, Buffer: buf}, nil
	case value.KindUint16:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(nv.Uint64()))
		return ParamBind{Type: TypeShort, Unsigned: true, Buffer: buf}, nil
	case value.KindInt32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(int32(nv.Int64())))
		return ParamBind{Type: TypeLong, Buffer: buf}, nil
	case value.KindUint32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(nv.Uint64()))
		return ParamBind{Type: TypeLong, Unsigned: true, Buffer: buf}, nil
	case value.KindInt64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(nv.Int64()))
		return ParamBind{Type: TypeLongLong, Buffer: buf}, nil
	case value.KindUint64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, nv.Uint64())
		return ParamBind{Type: TypeLongLong, Unsigned: true, Buffer: buf}, nil
	case value.KindFloat32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(nv.Float64())))
		return ParamBind{Type: TypeFloat, Buffer: buf}, nil
	case value.KindFloat64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(nv.Float64()))
		return ParamBind{Type: TypeDouble, Buffer: buf}, nil
	case value.KindString:
		return ParamBind{Type: TypeVarString, Buffer: writeLenEncString(nil, []byte(nv.String()))}, nil
	case value.KindBytes:
		return ParamBind{Type: TypeBlob, Buffer: writeLenEncString(nil, nv.Bytes())}, nil
	case value.KindTime:
		return buildTemporalBind(nv.Time())
	default:
		return ParamBind{}, newBindError("BuildParamBind: unsupported NativeValue kind %v", nv.Kind)
	}
}

func buildTemporalBind(t value.MysqlTime) (ParamBind, error) {
	switch t.Kind {
	case value.TimeDate:
		buf := []byte{4, byte(t.Year), byte(t.Year >> 8), t.Month, t.Day}
		return ParamBind{Type: TypeDate, Buffer: buf}, nil
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		n := byte(7)
		buf := make([]byte, 1, 12)
		buf[0] = n
		buf = append(buf, byte(t.Year), byte(t.Year>>8), t.Month, t.Day, byte(t.Hour), t.Minute, t.Second)
		if t.Microsecond != 0 {
			buf[0] = 11
			us := make([]byte, 4)
			binary.LittleEndian.PutUint32(us, t.Microsecond)
			buf = append(buf, us...)
		}
		return ParamBind{Type: TypeDateTime, Buffer: buf}, nil
	case value.TimeTime:
		n := byte(8)
		buf := make([]byte, 1, 12)
		buf[0] = n
		sign := byte(0)
		if t.Negative {
			sign = 1
		}
		days := make([]byte, 4)
		binary.LittleEndian.PutUint32(days, uint32(t.Hour)/24)
		buf = append(buf, sign)
		buf = append(buf, days...)
		buf = append(buf, byte(uint32(t.Hour)%24), t.Minute, t.Second)
		if t.Microsecond != 0 {
			buf[0] = 12
			us := make([]byte, 4)
			binary.LittleEndian.PutUint32(us, t.Microsecond)
			buf = append(buf, us...)
		}
		return ParamBind{Type: TypeTime, Buffer: buf}, nil
	default:
		return ParamBind{}, newBindError("buildTemporalBind: unsupported temporal kind %v", t.Kind)
	}
}
