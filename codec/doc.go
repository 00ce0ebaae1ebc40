// Package codec decodes and re-encodes schema-described lookup tables in a
// raw calibration image.
//
// Decode resolves a table's storage type, byte order and axis layout from
// its schema descriptor, reads the X/Y axis arrays and the row-major body at
// their absolute offsets, and applies the scaling rules per element:
//
//	decoded, err := codec.Decode(image, table)
//
// Tables flagged swapxy are read with exchanged axis roles and the body is
// transposed after extraction, so the result is indexed by the original axis
// roles.
//
// Encode validates the replacement data against the schema-declared
// dimensions and writes it back at the same offsets with the same element
// representation. Values are written in the raw domain exactly as supplied;
// the schema carries no inverse expression, so no scaling is reversed (a
// deliberate one-way property of the format, see the scaling package). The
// swap exchange is not reapplied on encode: replacement data addresses the
// table's physical row/column orientation.
//
// Every failure is table-scoped. Batch helpers in the root package log and
// skip a failing table rather than aborting the pass.
package codec
