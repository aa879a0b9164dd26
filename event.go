package ctxlogger

import (
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// maxFieldDepth bounds the nesting of Fields values; deeper levels (including
// a map that contains itself) are written as a marker string.
const maxFieldDepth = 10

const maxDepthMarker = "<max depth reached>"

// appendFields writes fields onto e in sorted key order.
func appendFields(e *zerolog.Event, fields Fields, depth int) {
	for _, key := range fields.Keys() {
		appendField(e, key, fields[key], depth)
	}
}

// appendField writes one value with the zerolog encoder matching its type.
func appendField(e *zerolog.Event, key string, val any, depth int) {
	switch v := val.(type) {
	case nil:
		e.Interface(key, nil)
	case string:
		e.Str(key, v)
	case []string:
		e.Strs(key, v)
	case bool:
		e.Bool(key, v)
	case []bool:
		e.Bools(key, v)
	case int:
		e.Int(key, v)
	case int8:
		e.Int8(key, v)
	case int16:
		e.Int16(key, v)
	case int32:
		e.Int32(key, v)
	case int64:
		e.Int64(key, v)
	case []int:
		e.Ints(key, v)
	case uint:
		e.Uint(key, v)
	case uint8:
		e.Uint8(key, v)
	case uint16:
		e.Uint16(key, v)
	case uint32:
		e.Uint32(key, v)
	case uint64:
		e.Uint64(key, v)
	case float32:
		e.Float32(key, v)
	case float64:
		e.Float64(key, v)
	case time.Time:
		e.Time(key, v)
	case time.Duration:
		e.Dur(key, v)
	case error:
		appendError(e, key, v)
	case []byte:
		e.Bytes(key, v)
	case net.IP:
		e.IPAddr(key, v)
	case net.HardwareAddr:
		e.MACAddr(key, v)
	case Fields:
		appendDict(e, key, v, depth)
	case map[string]any:
		appendDict(e, key, Fields(v), depth)
	case fmt.Stringer:
		e.Stringer(key, v)
	default:
		e.Interface(key, v)
	}
}

// appendDict writes a nested object.
func appendDict(e *zerolog.Event, key string, fields Fields, depth int) {
	if depth >= maxFieldDepth {
		e.Str(key, maxDepthMarker)
		return
	}
	dict := zerolog.Dict()
	appendFields(dict, fields, depth+1)
	e.Dict(key, dict)
}
