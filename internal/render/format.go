// Package render formats a Circuit back into human- and machine-readable
// text: an ASCII wire diagram and canonical OpenQASM 2.0. It keeps the
// teacher's pi-aware parameter printer (params.go's formatParam) nearly
// verbatim, since QASM output that spells out "1.5707963267948966" instead
// of "pi/2" is technically correct but unreadable, and adapts its render.go
// cell-drawing conventions (●/⊕ for control/target, boxed labels) to the
// n-qubit moment IR instead of a fixed teacher-editor cursor state.
package render

import (
	"fmt"
	"math"
)

type piForm struct {
	value   float64
	display string
}

var piForms = []piForm{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// FormatParam renders a parameter value, preferring a pi-fraction spelling
// when val is within tolerance of one of the common forms.
func FormatParam(val float64) string {
	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}
	if val == 0 {
		return "0"
	}
	return fmt.Sprintf("%g", val)
}
