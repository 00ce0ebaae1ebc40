package codec

import (
	"github.com/ecutools/tunefile/codec/internal/fixed"
	"github.com/ecutools/tunefile/schema"
)

// Raw reads a table's current content in the raw domain and the physical
// row/column orientation, the same shape Encode consumes: no scaling, no
// swap handling. Edit flows show this to the user as the starting point for
// replacement values.
func Raw(buf []byte, tbl *schema.Table) (Edit, error) {
	order := tbl.Order.Order()
	var edit Edit

	if tbl.AddressX != nil && tbl.ElementsX > 0 {
		values, err := fixed.ReadSlice(buf, *tbl.AddressX, tbl.ElementsX, tbl.Storage, order)
		if err != nil {
			return Edit{}, decodeFailed(tbl.Name, err)
		}
		edit.XAxis = values
	}
	if tbl.AddressY != nil && tbl.ElementsY > 0 {
		values, err := fixed.ReadSlice(buf, *tbl.AddressY, tbl.ElementsY, tbl.Storage, order)
		if err != nil {
			return Edit{}, decodeFailed(tbl.Name, err)
		}
		edit.YAxis = values
	}

	if err := checkRowCount(buf, tbl.ElementsY); err != nil {
		return Edit{}, decodeFailed(tbl.Name, err)
	}
	rowWidth := int64(tbl.ElementsX * tbl.Storage.Size())
	edit.Data = make([][]float64, 0, tbl.ElementsY)
	for row := 0; row < tbl.ElementsY; row++ {
		start := tbl.BodyAddress + int64(row)*rowWidth
		values, err := fixed.ReadSlice(buf, start, tbl.ElementsX, tbl.Storage, order)
		if err != nil {
			return Edit{}, decodeFailed(tbl.Name, err)
		}
		edit.Data = append(edit.Data, values)
	}
	return edit, nil
}
