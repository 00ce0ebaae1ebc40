package schema

import (
	"encoding/binary"
	"fmt"
)

// StorageType is the fixed-width binary representation of one table element.
type StorageType uint8

const (
	Uint16 StorageType = iota // the conventional default
	Uint8
	Int8
	Float32
)

// ParseStorageType maps a schema storagetype attribute to a StorageType.
// An empty value selects the uint16 default. Definition dialects commonly
// spell 32-bit floats "float"; "float32" is accepted as well.
func ParseStorageType(s string) (StorageType, error) {
	switch s {
	case "", "uint16":
		return Uint16, nil
	case "uint8":
		return Uint8, nil
	case "int8":
		return Int8, nil
	case "float", "float32":
		return Float32, nil
	}
	return Uint16, fmt.Errorf("unknown storage type %q", s)
}

// Size returns the element width in bytes.
func (t StorageType) Size() int {
	switch t {
	case Uint8, Int8:
		return 1
	case Float32:
		return 4
	default:
		return 2
	}
}

func (t StorageType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Float32:
		return "float32"
	default:
		return "uint16"
	}
}

// ByteOrder selects the multi-byte element encoding.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// ParseByteOrder maps a schema endian attribute to a ByteOrder.
// Anything other than "little" (including the empty default) is big-endian,
// matching the source schema dialect.
func ParseByteOrder(s string) ByteOrder {
	if s == "little" {
		return LittleEndian
	}
	return BigEndian
}

// Order returns the encoding/binary implementation for the byte order.
func (o ByteOrder) Order() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}
