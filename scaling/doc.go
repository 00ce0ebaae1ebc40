// Package scaling evaluates the raw-to-display transform expressions that
// calibration schemas attach to tables and axes.
//
// A rule's formula is an arithmetic expression in one free variable x, the
// raw value read from the binary image:
//
//	rule, err := scaling.Compile("(x / 10) - 40")
//	display := rule.Apply(1234) // 83.4
//
// Formulas are compiled once and reused for every element of a table. The
// grammar is constrained to numeric literals, the four arithmetic operators,
// parentheses, x, and a small built-in function set (abs, ceil, floor,
// round, min, max); a formula cannot reach anything else.
//
// Apply never fails: division by zero falls back to 0, any other evaluation
// fault falls back to the raw value, and both are logged. A decode or encode
// pass is never aborted by a bad formula.
package scaling
