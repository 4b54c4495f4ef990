package record

import (
	"fmt"
	"math"

	"github.com/tuannm99/minirel/internal/alias/bx"
)

// MarshalRow serializes row following the schema's column order.
// Format per column:
//
//	INT  -> 4-byte int32 (LE)
//	TEXT -> u16 length (LE) + raw ASCII bytes
//
// BOOLEAN columns (not declarable from SQL, but used by the catalog)
// occupy an INT slot holding 0 or 1, and a BOOLEAN value landing in an
// INT column is stored the same way.
func MarshalRow(s Schema, row Row) ([]byte, error) {
	out := make([]byte, 0, 64)
	for i, name := range s.Names {
		v, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
		switch s.Attrs[i].DataType {
		case Int, Boolean:
			n := v.N
			if v.Type == Boolean {
				if v.B {
					n = 1
				} else {
					n = 0
				}
			}
			var b [4]byte
			bx.PutU32(b[:], uint32(n))
			out = append(out, b[:]...)
		case Text:
			if len(v.S) > math.MaxUint16 {
				return nil, fmt.Errorf("%w: text value for %q exceeds %d bytes", ErrSchema, name, math.MaxUint16)
			}
			var l [2]byte
			bx.PutU16(l[:], uint16(len(v.S)))
			out = append(out, l[:]...)
			out = append(out, v.S...)
		default:
			return nil, fmt.Errorf("%w: only know how to marshal INT and TEXT", ErrSchema)
		}
	}
	return out, nil
}

// UnmarshalRow is the inverse of MarshalRow, driven by the same ordered
// schema. The schema must match the one the bytes were written with.
func UnmarshalRow(s Schema, data []byte) (Row, error) {
	row := make(Row, s.NumCols())
	off := 0
	for i, name := range s.Names {
		switch s.Attrs[i].DataType {
		case Int, Boolean:
			if off+4 > len(data) {
				return nil, fmt.Errorf("%w: short buffer at column %q", ErrSchema, name)
			}
			if s.Attrs[i].DataType == Boolean {
				row[name] = BoolValue(bx.I32At(data, off) != 0)
			} else {
				row[name] = IntValue(bx.I32At(data, off))
			}
			off += 4
		case Text:
			if off+2 > len(data) {
				return nil, fmt.Errorf("%w: short buffer at column %q", ErrSchema, name)
			}
			l := int(bx.U16At(data, off))
			off += 2
			if off+l > len(data) {
				return nil, fmt.Errorf("%w: short buffer at column %q", ErrSchema, name)
			}
			row[name] = TextValue(string(data[off : off+l]))
			off += l
		default:
			return nil, fmt.Errorf("%w: only know how to unmarshal INT and TEXT", ErrSchema)
		}
	}
	return row, nil
}
