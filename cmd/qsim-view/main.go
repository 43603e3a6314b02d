// Command qsim-view is a read-only terminal viewer for a finished qsim
// run: it loads a circuit (QASM or the structured JSON dialect), evaluates
// it once, and displays the wire diagram alongside the resulting state
// vector in a scrollable bubbletea program. It never edits a circuit —
// the teacher's editor keybindings (ctrl+r, ctrl+s, gate placement, menu
// overlays) have no place here, since spec.md's non-goal excludes an
// interactive editor; only its panel layout and styling survive.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/eval"
	"github.com/qdeck-labs/qsim/internal/jsonio"
	"github.com/qdeck-labs/qsim/internal/qasm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: qsim-view <circuit.qasm|circuit.json>")
		os.Exit(1)
	}
	path := os.Args[1]

	circ, err := loadCircuit(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qsim-view:", err)
		os.Exit(1)
	}

	ev := eval.NewEvaluator(circ, nil)
	if err := ev.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "qsim-view:", err)
		os.Exit(1)
	}

	m := newModel(circ, ev)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "qsim-view:", err)
		os.Exit(1)
	}
}

func loadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return jsonio.DecodeCircuit(data)
	}
	return qasm.Elaborate(string(data), 26)
}
