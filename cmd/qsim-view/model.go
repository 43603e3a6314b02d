package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/eval"
	"github.com/qdeck-labs/qsim/internal/render"
)

var (
	circuitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	ampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73daca"))
)

// model is the read-only counterpart to the teacher's editable Model: one
// fixed diagram and one fixed result body, scrolled together by a single
// viewport instead of independently focusable panels.
type model struct {
	circ *circuit.Circuit
	ev   *eval.Evaluator
	vp   viewport.Model
	body string
	ready bool
}

func newModel(circ *circuit.Circuit, ev *eval.Evaluator) model {
	return model{circ: circ, ev: ev, body: renderBody(circ, ev)}
}

func renderBody(circ *circuit.Circuit, ev *eval.Evaluator) string {
	var b bytes.Buffer
	render.ASCII(&b, circ)

	var amps strings.Builder
	amps.WriteString(titleStyle.Render("State vector"))
	amps.WriteString("\n")
	probs := ev.SV.Probabilities()
	for i, a := range ev.SV.Amplitudes {
		if probs[i] < 1e-9 {
			continue
		}
		bits := basisLabel(i, circ.NumQubits)
		amps.WriteString(ampStyle.Render(fmt.Sprintf("|%s>", bits)))
		fmt.Fprintf(&amps, "  %6.3f%+6.3fi   p=%.4f\n", real(a), imag(a), probs[i])
	}

	if len(ev.Record) > 0 {
		amps.WriteString("\n")
		amps.WriteString(titleStyle.Render("Measurements"))
		amps.WriteString("\n")
		for _, m := range ev.Record {
			fmt.Fprintf(&amps, "q%d -> c%d = %d\n", m.Qubit, m.Creg, m.Bit)
		}
	}

	return titleStyle.Render("Circuit") + "\n" + b.String() + "\n" + amps.String()
}

// basisLabel renders basis state i as an MSB-first bitstring, matching
// internal/eval.ClassicalRegisters.Key's convention.
func basisLabel(i, n int) string {
	b := make([]byte, n)
	for q := 0; q < n; q++ {
		bit := byte('0')
		if i&(1<<uint(q)) != 0 {
			bit = '1'
		}
		b[n-1-q] = bit
	}
	return string(b)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width-4, msg.Height-4)
			m.vp.SetContent(m.body)
			m.ready = true
		} else {
			m.vp.Width = msg.Width - 4
			m.vp.Height = msg.Height - 4
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	footer := dimStyle.Render("↑↓ Scroll  q Quit")
	return circuitStyle.Render(m.vp.View()) + "\n" + footer
}
