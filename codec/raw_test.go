package codec

import (
	"reflect"
	"testing"

	"github.com/ecutools/tunefile/scaling"
	"github.com/ecutools/tunefile/schema"
)

func TestRaw_IgnoresScalingAndSwap(t *testing.T) {
	buf := image(0x20, map[int64][]byte{
		0x00: {1, 2, 3, 4, 5, 6},
		0x08: {10, 20, 30},
	})
	tbl := &schema.Table{
		Name:        "Swapped",
		BodyAddress: 0x00,
		ElementsX:   3,
		ElementsY:   2,
		AddressX:    addr(0x08),
		Storage:     schema.Uint8,
		BodyScaling: scaling.MustCompile("x / 10"),
		SwapAxes:    true,
	}

	raw, err := Raw(buf, tbl)
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	// physical orientation: 2 rows of 3, unscaled, swap not applied
	if want := [][]float64{{1, 2, 3}, {4, 5, 6}}; !reflect.DeepEqual(raw.Data, want) {
		t.Errorf("Data: got %v, want %v", raw.Data, want)
	}
	if want := []float64{10, 20, 30}; !reflect.DeepEqual(raw.XAxis, want) {
		t.Errorf("XAxis: got %v, want %v", raw.XAxis, want)
	}
	if raw.YAxis != nil {
		t.Errorf("YAxis should be absent, got %v", raw.YAxis)
	}
}

func TestRaw_RoundTripsThroughEncode(t *testing.T) {
	original := image(0x10, map[int64][]byte{0x00: {0, 1, 0, 2, 0, 3, 0, 4}})
	tbl := &schema.Table{
		Name:      "RT",
		ElementsX: 2,
		ElementsY: 2,
	}
	raw, err := Raw(original, tbl)
	if err != nil {
		t.Fatal(err)
	}
	copied := append([]byte(nil), original...)
	if err := Encode(copied, tbl, raw); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(copied, original) {
		t.Error("Raw -> Encode did not reproduce the image")
	}
}
