package codec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ecutools/tunefile/codec/internal/fixed"
	tferr "github.com/ecutools/tunefile/errors"
	"github.com/ecutools/tunefile/scaling"
	"github.com/ecutools/tunefile/schema"
)

// DecodedTable is one table extracted from an image, in the display domain.
// A fresh value is produced on every decode.
type DecodedTable struct {
	// XAxis and YAxis are the scaled axis arrays; empty when the axis is
	// not separately stored.
	XAxis []float64
	YAxis []float64
	// Data is the scaled body, ElementsY rows of ElementsX columns once
	// any swap transpose has been applied.
	Data [][]float64
}

// Empty reports whether the table decoded to no body values.
func (d *DecodedTable) Empty() bool {
	for _, row := range d.Data {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Decode extracts one table from the image buffer.
//
// When the table is flagged swapxy, the X and Y element counts, addresses
// and scaling rules are exchanged before any reads, and the body matrix is
// transposed as the final step; the output is indexed by the original axis
// roles. Rows are always read in declared-address order.
//
// Any out-of-range access fails the whole table with a structured decode
// error; the buffer is never read past its length.
func Decode(buf []byte, tbl *schema.Table) (*DecodedTable, error) {
	ex, ey := tbl.ElementsX, tbl.ElementsY
	ax, ay := tbl.AddressX, tbl.AddressY
	sx, sy := tbl.XScaling, tbl.YScaling
	if tbl.SwapAxes {
		ex, ey = ey, ex
		ax, ay = ay, ax
		sx, sy = sy, sx
	}
	order := tbl.Order.Order()

	result := &DecodedTable{}

	if ax != nil && ex > 0 {
		raw, err := fixed.ReadSlice(buf, *ax, ex, tbl.Storage, order)
		if err != nil {
			return nil, decodeFailed(tbl.Name, err)
		}
		result.XAxis = axisRule(sx, tbl).ApplyAll(raw)
	}

	if ay != nil && ey > 0 {
		raw, err := fixed.ReadSlice(buf, *ay, ey, tbl.Storage, order)
		if err != nil {
			return nil, decodeFailed(tbl.Name, err)
		}
		result.YAxis = axisRule(sy, tbl).ApplyAll(raw)
	}

	if err := checkRowCount(buf, ey); err != nil {
		return nil, decodeFailed(tbl.Name, err)
	}
	rowWidth := int64(ex * tbl.Storage.Size())
	result.Data = make([][]float64, 0, ey)
	for row := 0; row < ey; row++ {
		start := tbl.BodyAddress + int64(row)*rowWidth
		raw, err := fixed.ReadSlice(buf, start, ex, tbl.Storage, order)
		if err != nil {
			return nil, decodeFailed(tbl.Name, err)
		}
		result.Data = append(result.Data, tbl.BodyScaling.ApplyAll(raw))
	}

	if tbl.SwapAxes {
		result.Data = transpose(result.Data)
	}
	Logger().Debug("decoded table",
		zap.String("table", tbl.Name),
		zap.Int("rows", len(result.Data)))
	return result, nil
}

// checkRowCount rejects a row count no buffer of this length could hold
// before the row slice is allocated.
func checkRowCount(buf []byte, rows int) error {
	if rows > 0 && int64(rows) > int64(len(buf)) {
		return fmt.Errorf("%d rows: %w (buffer length %d)", rows, fixed.ErrRange, len(buf))
	}
	return nil
}

func decodeFailed(table string, err error) error {
	Logger().Debug("table decode failed",
		zap.String("table", table),
		zap.Error(err))
	return tferr.Wrap(tferr.PhaseDecode, tferr.KindOutOfBounds, table, err)
}

// axisRule resolves the effective rule for an axis: the axis's own rule,
// else the body's.
func axisRule(rule *scaling.Rule, tbl *schema.Table) *scaling.Rule {
	if rule != nil {
		return rule
	}
	return tbl.BodyScaling
}

func transpose(data [][]float64) [][]float64 {
	if len(data) == 0 || len(data[0]) == 0 {
		return [][]float64{}
	}
	out := make([][]float64, len(data[0]))
	for i := range out {
		out[i] = make([]float64, len(data))
		for j := range data {
			out[i][j] = data[j][i]
		}
	}
	return out
}
