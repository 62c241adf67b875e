package ply

import (
	"encoding/binary"
	"math"
)

// ScalarType is a property value encoding.
type ScalarType int

const (
	Unknown ScalarType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

var scalarTypeNames = map[string]ScalarType{
	"char":    Int8,
	"int8":    Int8,
	"uchar":   Uint8,
	"uint8":   Uint8,
	"short":   Int16,
	"int16":   Int16,
	"ushort":  Uint16,
	"uint16":  Uint16,
	"int":     Int32,
	"int32":   Int32,
	"uint":    Uint32,
	"uint32":  Uint32,
	"float":   Float32,
	"float32": Float32,
	"double":  Float64,
	"float64": Float64,
}

// ParseScalarType returns the ScalarType for a header type name.
// Unrecognized names return Unknown.
func ParseScalarType(name string) ScalarType {
	return scalarTypeNames[name]
}

// Size returns the encoded width in bytes, or 0 for Unknown.
func (t ScalarType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

func (t ScalarType) String() string {
	switch t {
	case Int8:
		return "char"
	case Uint8:
		return "uchar"
	case Int16:
		return "short"
	case Uint16:
		return "ushort"
	case Int32:
		return "int"
	case Uint32:
		return "uint"
	case Float32:
		return "float"
	case Float64:
		return "double"
	}
	return "unknown"
}

// uint64Value reads b as an unsigned integer of type t.
// It is used for list counts only.
func (t ScalarType) uint64Value(b []byte, order binary.ByteOrder) (uint64, bool) {
	switch t {
	case Int8:
		return uint64(int8(b[0])), int8(b[0]) >= 0
	case Uint8:
		return uint64(b[0]), true
	case Int16:
		v := int16(order.Uint16(b))
		return uint64(v), v >= 0
	case Uint16:
		return uint64(order.Uint16(b)), true
	case Int32:
		v := int32(order.Uint32(b))
		return uint64(v), v >= 0
	case Uint32:
		return uint64(order.Uint32(b)), true
	}
	return 0, false
}

func float32Value(b []byte, order binary.ByteOrder) float32 {
	return math.Float32frombits(order.Uint32(b))
}
