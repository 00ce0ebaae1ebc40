package codec

import (
	"go.uber.org/zap"

	"github.com/ecutools/tunefile/codec/internal/fixed"
	tferr "github.com/ecutools/tunefile/errors"
	"github.com/ecutools/tunefile/schema"
)

// Edit is the replacement content for one table, in the raw domain and in
// the table's physical row/column orientation. The format carries no inverse
// scaling expression, so values are written exactly as supplied.
type Edit struct {
	XAxis []float64
	YAxis []float64
	Data  [][]float64
}

// Encode validates the edit against the table's declared dimensions and
// writes it into the buffer in place.
//
// Validation order: X axis length (only when an X address exists), Y axis
// length (only when a Y address exists), each body row's length, then the
// row count. Any mismatch, any value the storage type cannot hold, and any
// out-of-range region is reported before a single byte is written, so a
// failing table's bytes are left untouched.
//
// The swap exchange is deliberately not reapplied here; see the package
// documentation.
func Encode(buf []byte, tbl *schema.Table, edit Edit) error {
	if tbl.AddressX != nil && len(edit.XAxis) != tbl.ElementsX {
		return tferr.AxisLengthMismatch(tbl.Name, "X axis", tbl.ElementsX, len(edit.XAxis))
	}
	if tbl.AddressY != nil && len(edit.YAxis) != tbl.ElementsY {
		return tferr.AxisLengthMismatch(tbl.Name, "Y axis", tbl.ElementsY, len(edit.YAxis))
	}
	for i, row := range edit.Data {
		if len(row) != tbl.ElementsX {
			return tferr.RowLengthMismatch(tbl.Name, i, tbl.ElementsX, len(row))
		}
	}
	if len(edit.Data) != tbl.ElementsY {
		return tferr.RowCountMismatch(tbl.Name, tbl.ElementsY, len(edit.Data))
	}

	if err := checkValues(tbl, edit); err != nil {
		return encodeFailed(tbl.Name, tferr.KindInvalidData, err)
	}
	if err := checkRanges(buf, tbl); err != nil {
		return encodeFailed(tbl.Name, tferr.KindOutOfBounds, err)
	}

	order := tbl.Order.Order()
	if tbl.AddressX != nil {
		if err := fixed.WriteSlice(buf, *tbl.AddressX, edit.XAxis, tbl.Storage, order); err != nil {
			return encodeFailed(tbl.Name, tferr.KindOutOfBounds, err)
		}
	}
	if tbl.AddressY != nil {
		if err := fixed.WriteSlice(buf, *tbl.AddressY, edit.YAxis, tbl.Storage, order); err != nil {
			return encodeFailed(tbl.Name, tferr.KindOutOfBounds, err)
		}
	}
	rowWidth := int64(tbl.ElementsX * tbl.Storage.Size())
	for i, row := range edit.Data {
		start := tbl.BodyAddress + int64(i)*rowWidth
		if err := fixed.WriteSlice(buf, start, row, tbl.Storage, order); err != nil {
			return encodeFailed(tbl.Name, tferr.KindOutOfBounds, err)
		}
	}
	Logger().Debug("encoded table",
		zap.String("table", tbl.Name),
		zap.Int("rows", len(edit.Data)))
	return nil
}

func encodeFailed(table string, kind tferr.Kind, err error) error {
	Logger().Debug("table encode failed",
		zap.String("table", table),
		zap.Error(err))
	return tferr.Wrap(tferr.PhaseEncode, kind, table, err)
}

// checkValues verifies every supplied value is representable by the table's
// storage type before anything is written.
func checkValues(tbl *schema.Table, edit Edit) error {
	if tbl.AddressX != nil {
		if err := fixed.CheckValues(edit.XAxis, tbl.Storage); err != nil {
			return err
		}
	}
	if tbl.AddressY != nil {
		if err := fixed.CheckValues(edit.YAxis, tbl.Storage); err != nil {
			return err
		}
	}
	for _, row := range edit.Data {
		if err := fixed.CheckValues(row, tbl.Storage); err != nil {
			return err
		}
	}
	return nil
}

// checkRanges verifies every region the edit will touch before anything is
// written, so a range failure cannot leave a half-written table.
func checkRanges(buf []byte, tbl *schema.Table) error {
	if tbl.AddressX != nil {
		if err := fixed.Check(buf, *tbl.AddressX, tbl.ElementsX, tbl.Storage); err != nil {
			return err
		}
	}
	if tbl.AddressY != nil {
		if err := fixed.Check(buf, *tbl.AddressY, tbl.ElementsY, tbl.Storage); err != nil {
			return err
		}
	}
	rowWidth := int64(tbl.ElementsX * tbl.Storage.Size())
	for i := 0; i < tbl.ElementsY; i++ {
		if err := fixed.Check(buf, tbl.BodyAddress+int64(i)*rowWidth, tbl.ElementsX, tbl.Storage); err != nil {
			return err
		}
	}
	return nil
}
