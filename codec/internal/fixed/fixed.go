// Package fixed provides bounds-checked fixed-width element access over a
// flat byte buffer addressed by absolute offsets.
package fixed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ecutools/tunefile/schema"
)

// ErrRange is returned when an access would run past the buffer.
var ErrRange = errors.New("access out of range")

// ErrValue is returned when a value cannot be represented by the storage
// type.
var ErrValue = errors.New("value out of range for storage type")

// Check verifies that count elements of the given storage type fit in buf at
// the given offset. A zero count never fails; an absent run reads as empty.
// The comparison is division-based so an absurd count from a corrupt
// definition cannot overflow past the guard.
func Check(buf []byte, offset int64, count int, st schema.StorageType) error {
	if count == 0 {
		return nil
	}
	width := int64(st.Size())
	if count < 0 || offset < 0 || offset > int64(len(buf)) ||
		int64(count) > (int64(len(buf))-offset)/width {
		return fmt.Errorf("%d %s elements at offset 0x%X: %w (buffer length %d)",
			count, st, offset, ErrRange, len(buf))
	}
	return nil
}

// CheckValues verifies that every value is representable by the storage type
// once rounded to the nearest integer. Float32 storage accepts any value.
func CheckValues(values []float64, st schema.StorageType) error {
	var lo, hi float64
	switch st {
	case schema.Uint8:
		lo, hi = 0, math.MaxUint8
	case schema.Int8:
		lo, hi = math.MinInt8, math.MaxInt8
	case schema.Float32:
		return nil
	default:
		lo, hi = 0, math.MaxUint16
	}
	for i, v := range values {
		r := math.Round(v)
		if math.IsNaN(r) || r < lo || r > hi {
			return fmt.Errorf("value %g at index %d: %w (%s)", v, i, ErrValue, st)
		}
	}
	return nil
}

// ReadSlice reads count contiguous elements starting at offset and widens
// them to float64.
func ReadSlice(buf []byte, offset int64, count int, st schema.StorageType, order binary.ByteOrder) ([]float64, error) {
	if err := Check(buf, offset, count, st); err != nil {
		return nil, err
	}
	out := make([]float64, count)
	width := st.Size()
	for i := 0; i < count; i++ {
		cell := buf[offset+int64(i*width):]
		switch st {
		case schema.Uint8:
			out[i] = float64(cell[0])
		case schema.Int8:
			out[i] = float64(int8(cell[0]))
		case schema.Float32:
			out[i] = float64(math.Float32frombits(order.Uint32(cell)))
		default:
			out[i] = float64(order.Uint16(cell))
		}
	}
	return out, nil
}

// WriteSlice writes the values as contiguous elements starting at offset.
// Integer storage types round to nearest and reject values the type cannot
// hold; values are written exactly as supplied, with no inverse scaling.
func WriteSlice(buf []byte, offset int64, values []float64, st schema.StorageType, order binary.ByteOrder) error {
	if err := Check(buf, offset, len(values), st); err != nil {
		return err
	}
	if err := CheckValues(values, st); err != nil {
		return err
	}
	width := st.Size()
	for i, v := range values {
		cell := buf[offset+int64(i*width):]
		switch st {
		case schema.Uint8:
			cell[0] = byte(int64(math.Round(v)))
		case schema.Int8:
			cell[0] = byte(int8(int64(math.Round(v))))
		case schema.Float32:
			order.PutUint32(cell, math.Float32bits(float32(v)))
		default:
			order.PutUint16(cell, uint16(int64(math.Round(v))))
		}
	}
	return nil
}
