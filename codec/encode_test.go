package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tferr "github.com/ecutools/tunefile/errors"
	"github.com/ecutools/tunefile/schema"
)

func TestEncode_WritesBodyAndAxes(t *testing.T) {
	buf := make([]byte, 0x30)
	tbl := &schema.Table{
		Name:        "Timing",
		BodyAddress: 0x20,
		ElementsX:   2,
		ElementsY:   2,
		AddressX:    addr(0x00),
		AddressY:    addr(0x10),
	}

	err := Encode(buf, tbl, Edit{
		XAxis: []float64{1, 2},
		YAxis: []float64{3, 4},
		Data:  [][]float64{{10, 20}, {30, 40}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if want := []byte{0x00, 0x01, 0x00, 0x02}; !bytes.Equal(buf[0x00:0x04], want) {
		t.Errorf("X axis bytes: got %v, want %v", buf[0x00:0x04], want)
	}
	if want := []byte{0x00, 0x03, 0x00, 0x04}; !bytes.Equal(buf[0x10:0x14], want) {
		t.Errorf("Y axis bytes: got %v, want %v", buf[0x10:0x14], want)
	}
	if want := []byte{0x00, 0x0A, 0x00, 0x14, 0x00, 0x1E, 0x00, 0x28}; !bytes.Equal(buf[0x20:0x28], want) {
		t.Errorf("body bytes: got %v, want %v", buf[0x20:0x28], want)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	// decode -> encode reproduces the image byte for byte for an unscaled,
	// unswapped table.
	original := image(0x40, map[int64][]byte{
		0x00: {0x00, 0x01, 0x00, 0x02, 0x00, 0x03},
		0x10: {0x00, 0x0A, 0x00, 0x14},
		0x20: {0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6},
	})
	tbl := &schema.Table{
		Name:        "RT",
		BodyAddress: 0x20,
		ElementsX:   3,
		ElementsY:   2,
		AddressX:    addr(0x00),
		AddressY:    addr(0x10),
	}

	decoded, err := Decode(original, tbl)
	if err != nil {
		t.Fatal(err)
	}
	copied := append([]byte(nil), original...)
	err = Encode(copied, tbl, Edit{XAxis: decoded.XAxis, YAxis: decoded.YAxis, Data: decoded.Data})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(copied, original) {
		t.Error("round trip did not reproduce the original image")
	}
}

func TestEncode_DimensionMismatches(t *testing.T) {
	tbl := &schema.Table{
		Name:        "Fuel",
		BodyAddress: 0x00,
		ElementsX:   2,
		ElementsY:   3,
		AddressX:    addr(0x20),
		AddressY:    addr(0x30),
	}

	tests := []struct {
		name     string
		edit     Edit
		contains string
	}{
		{
			name:     "row count",
			edit:     Edit{XAxis: []float64{1, 2}, YAxis: []float64{1, 2, 3}, Data: [][]float64{{1, 2}, {3, 4}}},
			contains: "expected 3, got 2",
		},
		{
			name:     "row length",
			edit:     Edit{XAxis: []float64{1, 2}, YAxis: []float64{1, 2, 3}, Data: [][]float64{{1, 2, 3}, {4, 5}, {6, 7}}},
			contains: "row 0 length mismatch: expected 2, got 3",
		},
		{
			name:     "x axis",
			edit:     Edit{XAxis: []float64{1}, YAxis: []float64{1, 2, 3}, Data: [][]float64{{1, 2}, {3, 4}, {5, 6}}},
			contains: "expected 2, got 1",
		},
		{
			name:     "y axis",
			edit:     Edit{XAxis: []float64{1, 2}, YAxis: []float64{1}, Data: [][]float64{{1, 2}, {3, 4}, {5, 6}}},
			contains: "expected 3, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 0x40)
			err := Encode(buf, tbl, tt.edit)
			if err == nil {
				t.Fatal("expected dimension mismatch")
			}
			if !errors.Is(err, &tferr.Error{Phase: tferr.PhaseEncode, Kind: tferr.KindDimensionMismatch}) {
				t.Errorf("expected dimension_mismatch, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
			for i, b := range buf {
				if b != 0 {
					t.Fatalf("byte %d modified by rejected edit", i)
				}
			}
		})
	}
}

func TestEncode_AxisValidationSkippedWithoutAddress(t *testing.T) {
	buf := make([]byte, 0x10)
	tbl := &schema.Table{
		Name:      "NoAxes",
		ElementsX: 2,
		ElementsY: 2,
	}
	// axis slices are irrelevant when the schema stores no axis arrays
	err := Encode(buf, tbl, Edit{Data: [][]float64{{1, 2}, {3, 4}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestEncode_OutOfRangeLeavesBufferUntouched(t *testing.T) {
	buf := make([]byte, 0x08)
	tbl := &schema.Table{
		Name:        "Beyond",
		BodyAddress: 0x04,
		ElementsX:   2,
		ElementsY:   2,
	}
	err := Encode(buf, tbl, Edit{Data: [][]float64{{1, 2}, {3, 4}}})
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
	if !errors.Is(err, &tferr.Error{Phase: tferr.PhaseEncode, Kind: tferr.KindOutOfBounds}) {
		t.Errorf("expected encode out_of_bounds, got %v", err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d modified by rejected edit", i)
		}
	}
}

func TestEncode_UnrepresentableValueLeavesBufferUntouched(t *testing.T) {
	tbl := &schema.Table{
		Name:        "Clamp",
		BodyAddress: 0x00,
		ElementsX:   2,
		ElementsY:   1,
		AddressX:    addr(0x08),
	}

	tests := []struct {
		name string
		edit Edit
	}{
		{"body above uint16", Edit{XAxis: []float64{1, 2}, Data: [][]float64{{10, 70000}}}},
		{"body negative", Edit{XAxis: []float64{1, 2}, Data: [][]float64{{-5, 10}}}},
		{"axis above uint16", Edit{XAxis: []float64{1, 65536}, Data: [][]float64{{1, 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 0x10)
			err := Encode(buf, tbl, tt.edit)
			if err == nil {
				t.Fatal("expected invalid data error")
			}
			if !errors.Is(err, &tferr.Error{Phase: tferr.PhaseEncode, Kind: tferr.KindInvalidData}) {
				t.Errorf("expected encode invalid_data, got %v", err)
			}
			for i, b := range buf {
				if b != 0 {
					t.Fatalf("byte %d modified by rejected edit", i)
				}
			}
		})
	}
}

func TestEncode_LittleEndianFloat32(t *testing.T) {
	buf := make([]byte, 8)
	tbl := &schema.Table{
		Name:      "F32",
		ElementsX: 2,
		ElementsY: 1,
		Storage:   schema.Float32,
		Order:     schema.LittleEndian,
	}
	if err := Encode(buf, tbl, Edit{Data: [][]float64{{1, -2}}}); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf, tbl)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data[0][0] != 1 || got.Data[0][1] != -2 {
		t.Errorf("float32 round trip: got %v", got.Data)
	}
}
