// Package viz renders the simulation live in the terminal.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidlab/internal/compute"
	"github.com/san-kum/fluidlab/internal/solver"
)

const (
	canvasWidth     = 76
	canvasHeight    = 22
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the solver at the display rate and renders a side-view
// projection of the particle field.
type Model struct {
	solver  *solver.Solver
	canvas  *Canvas
	frameDt float32

	energyHistory []float64

	params    map[string]float64
	paramKeys []string
	selected  int

	sideView bool // xz top-down instead of xy side-on
	showHelp bool
}

func NewModel(s *solver.Solver, frameDt float32) Model {
	params := s.GetParams()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		solver:        s,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		frameDt:       frameDt,
		energyHistory: make([]float64, 0, historyCapacity),
		params:        params,
		paramKeys:     keys,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.solver.TogglePause()
		case "s":
			m.solver.RequestSingleStep()
		case "n":
			m.solver.SetSlowMotion(!m.solver.SlowMotion())
		case "r":
			m.solver.Reset()
			m.energyHistory = m.energyHistory[:0]
		case "v":
			m.sideView = !m.sideView
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.solver.Advance(m.frameDt) {
			m.observe()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if err := m.solver.SetParam(key, val); err == nil {
		m.params[key] = val
	}
}

func (m *Model) observe() {
	total := 0.0
	for _, v := range m.solver.Velocities() {
		total += 0.5 * float64(v.Dot(v))
	}
	m.energyHistory = append(m.energyHistory, total)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// draw projects particles onto the canvas and outlines the domain.
func (m *Model) draw() {
	m.canvas.Clear()

	bounds := m.solver.Config().Bounds
	cw, ch := float32(m.canvas.Width*2), float32(m.canvas.Height*4)

	axisU, axisV := 0, 1 // xy side view; y flipped for screen space
	if m.sideView {
		axisV = 2
	}
	halfU := bounds.Size[axisU] / 2
	halfV := bounds.Size[axisV] / 2

	project := func(u, v float32) (int, int) {
		x := (u - (bounds.Center[axisU] - halfU)) / (2 * halfU) * (cw - 1)
		y := (v - (bounds.Center[axisV] - halfV)) / (2 * halfV) * (ch - 1)
		return int(x), int(ch - 1 - y)
	}

	x0, y0 := project(bounds.Center[axisU]-halfU, bounds.Center[axisV]-halfV)
	x1, y1 := project(bounds.Center[axisU]+halfU, bounds.Center[axisV]+halfV)
	m.canvas.Line(x0, y0, x1, y0)
	m.canvas.Line(x0, y1, x1, y1)
	m.canvas.Line(x0, y0, x0, y1)
	m.canvas.Line(x1, y0, x1, y1)

	for _, p := range m.solver.Positions() {
		x, y := project(p[axisU], p[axisV])
		m.canvas.Set(x, y)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("FLUIDLAB") + "\n")

	status := strings.ToUpper(m.solver.State().String())
	if m.solver.SlowMotion() {
		status += " · SLOW"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	view := "xy"
	if m.sideView {
		view = "xz"
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.solver.Time())) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.solver.N())) + "\n")
	s.WriteString(labelStyle.Render("View") + valueStyle.Render(view) + "\n")
	s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(compute.GetBackend().Name()) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-15s %.3f", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\nSP:Pause S:Step N:Slow R:Reset\nV:View Tab:Param ↑↓:Tune Q:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Advance one frame        ║
║  N        - Toggle slow motion       ║
║  R        - Reset to spawn state     ║
║  V        - Toggle xy/xz view        ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view and blocks until quit.
func Run(s *solver.Solver, frameDt float32) error {
	p := tea.NewProgram(NewModel(s, frameDt))
	_, err := p.Run()
	return err
}
