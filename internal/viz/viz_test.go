package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tiwire/internal/transport"
)

func coneDevice(t *testing.T) *transport.Device {
	t.Helper()
	dev, err := transport.New(transport.Params{FermiVelocity: 330, Cutoff: 1})
	require.NoError(t, err)
	require.NoError(t, dev.AddWire(transport.WireSpec{X0: 0, XF: 50, Section: transport.Circle{R: 10}}))
	require.NoError(t, dev.AddCone(transport.ConeSpec{X0: 50, XF: 100, Points: 6,
		Start: transport.Circle{R: 10}, End: transport.Circle{R: 20}}))
	return dev
}

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(100, 100)
	assert.Equal(t, rune(0x2801), c.Grid[0][0])

	c.DrawLine(0, 0, 3, 3)
	// diagonal dots (0,0),(1,1) in the first cell and (2,2),(3,3) in the second
	assert.Equal(t, rune(0x2800|0x1|0x10), c.Grid[0][0])
	assert.Equal(t, rune(0x2800|0x4|0x80), c.Grid[0][1])
	assert.Equal(t, 1, strings.Count(c.String(), "\n"))
}

func TestProfile(t *testing.T) {
	dev := coneDevice(t)
	out := Profile(dev, 20, 3)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}

	empty, err := transport.New(transport.Params{FermiVelocity: 330})
	require.NoError(t, err)
	assert.Empty(t, Profile(empty, 20, 3))
}

func TestRadiusAt(t *testing.T) {
	regs := coneDevice(t).Regions()
	assert.Equal(t, 10.0, radiusAt(regs, 25))
	assert.InDelta(t, 15.0, radiusAt(regs, 75), 1e-9)
	assert.InDelta(t, 20.0, radiusAt(regs, 100), 1e-9)
	assert.Equal(t, 0.0, radiusAt(regs, 150))
}

func TestPlots(t *testing.T) {
	out := Conductance([]float64{0, 1, 2, 3}, []float64{0, 1, 1, 2}, PlotOptions{Height: 5})
	assert.Contains(t, out, "G (e²/h) for E = 0 … 3 meV")
	assert.Empty(t, Conductance(nil, nil, PlotOptions{}))

	dev := coneDevice(t)
	bs, err := dev.Bands(0, []float64{-0.1, 0, 0.1})
	require.NoError(t, err)
	out = Bands(bs, PlotOptions{Height: 6, Caption: "bands"})
	assert.Contains(t, out, "bands")
}

func TestExplorerKeys(t *testing.T) {
	dev := coneDevice(t)
	m := NewExplorer("cone", dev, 10, 2)

	init := m.Init()
	require.NotNil(t, init)
	model, _ := m.Update(init())
	m = model.(Explorer)
	require.Len(t, m.history, 1)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = model.(Explorer)
	assert.Equal(t, 12.0, m.Energy())
	require.NotNil(t, cmd)
	model, _ = m.Update(cmd())
	m = model.(Explorer)
	require.Len(t, m.history, 2)
	assert.Equal(t, 12.0, m.history[1].energy)

	want, err := dev.Conductance(12)
	require.NoError(t, err)
	assert.Equal(t, want, m.last)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(Explorer)
	assert.Equal(t, 4.0, m.step)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = model.(Explorer)
	assert.Equal(t, 8.0, m.Energy())

	view := m.View()
	assert.Contains(t, view, "tiwire explorer")
	assert.Contains(t, view, "Conductance")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestExplorerRecordsSorted(t *testing.T) {
	m := NewExplorer("x", coneDevice(t), 0, 1)
	for _, e := range []float64{5, 1, 3, 1} {
		m.record(e, e*10)
	}
	require.Len(t, m.history, 3)
	assert.Equal(t, []sample{{1, 10}, {3, 30}, {5, 50}}, m.history)
}

func TestExplorerShowsErrors(t *testing.T) {
	m := NewExplorer("x", coneDevice(t), 0, 1)
	model, _ := m.Update(conductanceMsg{energy: 0, err: transport.ErrNeedsDiscretization})
	assert.Contains(t, model.View(), "discretization")
}

func TestSVG(t *testing.T) {
	var b strings.Builder
	xs := []float64{0, 1, 2, 3}
	ys := [][]float64{
		{0, 1, 2, 3},
		{1, math.NaN(), 2, 3},
	}
	require.NoError(t, SVG(&b, xs, ys, SVGOptions{Title: "G <E>"}))

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	// the NaN leaves a single point before it, which is not drawn
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "G &lt;E&gt;")
	assert.Contains(t, out, string(Themes[0].Primary))

	assert.ErrorIs(t, SVG(&b, xs[:1], ys, SVGOptions{}), ErrNoSeries)
	assert.ErrorIs(t, SVG(&b, xs, nil, SVGOptions{}), ErrNoSeries)
}
