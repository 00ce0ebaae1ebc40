// Package schema parses calibration definition documents into normalized
// table descriptors.
//
// A definition is an XML document in the conventional tuning-tool shape:
// named <scaling> records (formula, storage type, endianness) referenced by
// name from <table> elements, which in turn carry the body address and
// nested "X Axis" / "Y Axis" sub-tables with their own element counts,
// addresses and scaling references:
//
//	<rom>
//	  <scaling name="RPM" toexpr="x / 4" storagetype="uint16" endian="big"/>
//	  <table name="Fuel Map" address="7000" scaling="RPM" swapxy="false">
//	    <table type="X Axis" elements="16" address="7100" scaling="RPM"/>
//	    <table type="Y Axis" elements="12" address="7200"/>
//	  </table>
//	</rom>
//
// Parsing normalizes each table into a Table value with all defaults
// resolved: hex addresses to integers, storage type (default uint16) and
// byte order (default big) taken from the table's own scaling record, axis
// scaling falling back to the body's rule, and compiled scaling programs
// attached. Tables are immutable after parse.
//
// A scaling reference with no matching record, or a malformed table, degrades
// that one feature or table (logged) instead of failing the whole parse.
package schema
