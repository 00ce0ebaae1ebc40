package schema

import (
	"github.com/ecutools/tunefile/scaling"
)

// Table is the normalized layout of one named lookup table: where its body
// and axis arrays live in the image, how wide each element is, and how raw
// values map to the display domain. Tables are immutable after parse.
type Table struct {
	// Name keys the decode output. Names are not required to be unique;
	// a later table overwrites an earlier one of the same name.
	Name string

	// BodyAddress is the absolute byte offset of the body's first element.
	BodyAddress int64

	// ElementsX and ElementsY are the axis element counts; 0 means the
	// dimension is absent.
	ElementsX int
	ElementsY int

	// AddressX and AddressY are the absolute offsets of the axis arrays.
	// nil means the axis is not separately stored.
	AddressX *int64
	AddressY *int64

	// Storage and Order are the table's effective element representation,
	// resolved from the body scaling record (uint16 big-endian when the
	// record carries none). Axis scaling records may carry their own
	// storage metadata but the table's values govern all reads and writes.
	Storage StorageType
	Order   ByteOrder

	// BodyScaling transforms body elements; nil is identity. XScaling and
	// YScaling are already resolved to the body rule when the axis
	// declares none.
	BodyScaling *scaling.Rule
	XScaling    *scaling.Rule
	YScaling    *scaling.Rule

	// SwapAxes marks a table whose X/Y roles are stored transposed.
	SwapAxes bool
}

// Definition is a parsed calibration definition: the table descriptors in
// document order.
type Definition struct {
	Tables []*Table
}

// Lookup returns the table with the given name. When the definition holds
// duplicates, the last one wins, matching decode-map semantics.
func (d *Definition) Lookup(name string) (*Table, bool) {
	for i := len(d.Tables) - 1; i >= 0; i-- {
		if d.Tables[i].Name == name {
			return d.Tables[i], true
		}
	}
	return nil, false
}
