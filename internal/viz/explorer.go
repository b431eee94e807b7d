package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/tiwire/internal/transport"
)

const (
	minStep      = 1e-3
	maxStep      = 1e3
	historyLimit = 400
)

// conductanceMsg carries one finished evaluation back to the model.
type conductanceMsg struct {
	energy, g float64
	err       error
}

type sample struct{ energy, g float64 }

// Explorer is a Bubble Tea model that evaluates the conductance at an energy
// chosen with the arrow keys and plots every point visited so far.
type Explorer struct {
	dev     *transport.Device
	name    string
	energy  float64
	step    float64
	last    float64
	err     error
	pending int
	history []sample
	profile string
	theme   int
	styles  Styles
}

func NewExplorer(name string, dev *transport.Device, energy, step float64) Explorer {
	if step <= 0 {
		step = 1
	}
	return Explorer{
		dev:     dev,
		name:    name,
		energy:  energy,
		step:    step,
		profile: Profile(dev, 40, 4),
		styles:  NewStyles(Themes[0]),
	}
}

func (m Explorer) Init() tea.Cmd {
	return m.evaluate()
}

func (m Explorer) evaluate() tea.Cmd {
	dev, e := m.dev, m.energy
	return func() tea.Msg {
		g, err := dev.Conductance(e)
		return conductanceMsg{energy: e, g: g, err: err}
	}
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.energy -= m.step
			m.pending++
			return m, m.evaluate()
		case "right", "l":
			m.energy += m.step
			m.pending++
			return m, m.evaluate()
		case "up", "k":
			m.step = min(m.step*2, maxStep)
		case "down", "j":
			m.step = max(m.step/2, minStep)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		}
	case conductanceMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = msg.err
		if msg.err == nil {
			m.last = msg.g
			m.record(msg.energy, msg.g)
		}
	}
	return m, nil
}

// record inserts a point keeping history sorted by energy.
func (m *Explorer) record(e, g float64) {
	h := append([]sample(nil), m.history...)
	i := sort.Search(len(h), func(i int) bool { return h[i].energy >= e })
	if i < len(h) && h[i].energy == e {
		h[i].g = g
	} else {
		h = append(h, sample{})
		copy(h[i+1:], h[i:])
		h[i] = sample{energy: e, g: g}
	}
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	m.history = h
}

// Energy is the energy currently selected.
func (m Explorer) Energy() float64 { return m.energy }

func (m Explorer) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("tiwire explorer · "+m.name) + "\n")
	if m.profile != "" {
		b.WriteString(s.Graph.Render(m.profile) + "\n")
	}

	b.WriteString(s.Row("Energy", fmt.Sprintf("%.4g meV", m.energy)) + "\n")
	b.WriteString(s.Row("Step", fmt.Sprintf("%.4g meV", m.step)) + "\n")
	status := fmt.Sprintf("%.4f e²/h", m.last)
	if m.pending > 0 {
		status += " …"
	}
	b.WriteString(s.Row("Conductance", status) + "\n")
	if m.err != nil {
		b.WriteString(s.Error.Render(m.err.Error()) + "\n")
	}

	if len(m.history) > 1 {
		es := make([]float64, len(m.history))
		gs := make([]float64, len(m.history))
		for i, p := range m.history {
			es[i], gs[i] = p.energy, p.g
		}
		b.WriteString(s.Graph.Render(Conductance(es, gs, PlotOptions{Width: 60, Height: 10})) + "\n")
	}

	b.WriteString(s.Hint.Render("←/→ energy · ↑/↓ step · t theme · q quit"))
	return s.Panel.Render(b.String())
}
