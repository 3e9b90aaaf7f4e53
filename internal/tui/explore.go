// Package tui is an interactive explorer for binary mixtures: pick a
// mixture, then move the composition and total pressure and watch the
// equilibrium and its phase diagram follow.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/adsorb/internal/iast"
	"github.com/san-kum/adsorb/internal/viz"
)

const (
	fractionStep = 0.05
	pressureStep = 1.25
)

// Preset is a mixture the explorer can open.
type Preset struct {
	Name        string
	Description string
	Mixture     *iast.Mixture
	Fractions   []float64
	Pressure    float64
}

type state int

const (
	stateMenu state = iota
	stateExplore
)

type model struct {
	state   state
	cursor  int
	presets []Preset
	solver  *iast.Solver

	current  Preset
	fraction float64
	pressure float64
	mode     iast.Mode
	result   *iast.State
	err      error
	vle      *iast.Sweep

	theme  int
	width  int
	height int
	help   help.Model
}

// NewExplorer returns the bubbletea model. Only binary presets are
// offered.
func NewExplorer(solver *iast.Solver, presets []Preset) tea.Model {
	var binary []Preset
	for _, p := range presets {
		if p.Mixture != nil && p.Mixture.Len() == 2 {
			binary = append(binary, p)
		}
	}
	return model{
		presets: binary,
		solver:  solver,
		width:   80,
		height:  24,
		help:    help.New(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, exploreKeys.ForceQuit) {
			return m, tea.Quit
		}
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.exploreKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, menuKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, menuKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, menuKeys.Down):
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case key.Matches(msg, menuKeys.Open):
		if len(m.presets) == 0 {
			return m, nil
		}
		m.current = m.presets[m.cursor]
		m.fraction = m.current.Fractions[0]
		m.pressure = m.current.Pressure
		m.mode = iast.Forward
		m.state = stateExplore
		m.solve()
		m.sweep()
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, exploreKeys.Back):
		m.state = stateMenu
		m.result, m.err, m.vle = nil, nil, nil
		return m, tea.ClearScreen
	case key.Matches(msg, exploreKeys.Lean):
		m.fraction = math.Max(0, round(m.fraction-fractionStep))
		m.solve()
	case key.Matches(msg, exploreKeys.Rich):
		m.fraction = math.Min(1, round(m.fraction+fractionStep))
		m.solve()
	case key.Matches(msg, exploreKeys.Raise):
		m.pressure *= pressureStep
		m.solve()
		m.sweep()
	case key.Matches(msg, exploreKeys.Lower):
		m.pressure /= pressureStep
		m.solve()
		m.sweep()
	case key.Matches(msg, exploreKeys.Mode):
		if m.mode == iast.Forward {
			m.mode = iast.Reverse
		} else {
			m.mode = iast.Forward
		}
		m.solve()
	case key.Matches(msg, exploreKeys.Theme):
		m.theme = (m.theme + 1) % len(viz.Themes)
	}
	return m, nil
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// solve recomputes the equilibrium at the current composition. The
// fraction is y of the first component in forward mode and x in reverse.
func (m *model) solve() {
	fractions := []float64{m.fraction, 1 - m.fraction}
	if m.mode == iast.Forward {
		m.result, m.err = m.solver.Forward(m.current.Mixture, fractions, m.pressure)
	} else {
		m.result, m.err = m.solver.Reverse(m.current.Mixture, fractions, m.pressure)
	}
}

func (m *model) sweep() {
	sw, err := m.solver.BinaryVLE(context.Background(), m.current.Mixture, m.pressure, iast.DefaultVLEPoints)
	if err != nil {
		m.vle = nil
		return
	}
	m.vle = sw
}

func (m model) View() string {
	th := viz.Themes[m.theme]
	st := th.Styles()

	var sb strings.Builder
	if m.state == stateMenu {
		sb.WriteString(st.Title.Render("adsorb explorer") + "\n\n")
		if len(m.presets) == 0 {
			sb.WriteString(st.Muted.Render("no binary mixtures available") + "\n")
		}
		for i, p := range m.presets {
			cursor := "  "
			name := st.Muted.Render(p.Name)
			if i == m.cursor {
				cursor = st.Success.Render("> ")
				name = st.Value.Render(p.Name)
			}
			sb.WriteString(fmt.Sprintf("%s%s %s\n", cursor, name, st.Muted.Render(p.Description)))
		}
		sb.WriteString("\n" + m.help.View(menuKeys) + "\n")
		return sb.String()
	}

	labels := m.current.Mixture.Labels()
	phase := "y"
	if m.mode == iast.Reverse {
		phase = "x"
	}
	sb.WriteString(st.Title.Render(fmt.Sprintf("%s  (%s, %s)", m.current.Name, labels[0], labels[1])) + "\n")
	sb.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n\n",
		st.Muted.Render("mode"), m.mode,
		st.Muted.Render(phase+"("+labels[0]+")"), fmt.Sprintf("%.2f", m.fraction),
		st.Muted.Render("pressure"), fmt.Sprintf("%.4g", m.pressure),
		st.Muted.Render("theme"), th.Name))

	switch {
	case m.err != nil:
		sb.WriteString(st.Error.Render(fmt.Sprintf("%s: %v", iast.StatusOf(m.err), m.err)) + "\n")
	case m.result != nil:
		sb.WriteString(th.StateTable(m.result))
	}

	if m.vle != nil {
		width := max(20, min(m.width-12, 60))
		sb.WriteString("\n" + viz.VLEPlot(m.vle, viz.PlotOptions{Width: width, Height: 10}) + "\n")
	}

	sb.WriteString("\n" + m.help.View(exploreKeys) + "\n")
	return sb.String()
}
