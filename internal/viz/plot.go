package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tiwire/internal/transport"
)

type PlotOptions struct {
	Width, Height int
	Caption       string
}

func (o PlotOptions) options(caption string) []asciigraph.Option {
	if o.Caption != "" {
		caption = o.Caption
	}
	opts := []asciigraph.Option{asciigraph.Caption(caption), asciigraph.Precision(2)}
	if o.Height > 0 {
		opts = append(opts, asciigraph.Height(o.Height))
	}
	if o.Width > 0 {
		opts = append(opts, asciigraph.Width(o.Width))
	}
	return opts
}

// Conductance plots G(E). The conductance axis starts at zero.
func Conductance(energies, g []float64, o PlotOptions) string {
	if len(g) == 0 {
		return ""
	}
	caption := fmt.Sprintf("G (e²/h) for E = %g … %g meV", energies[0], energies[len(energies)-1])
	return asciigraph.Plot(g, append(o.options(caption), asciigraph.LowerBound(0))...)
}

// Bands plots every band of bs against k.
func Bands(bs *transport.BandStructure, o PlotOptions) string {
	if len(bs.K) == 0 || len(bs.Energies) == 0 {
		return ""
	}
	caption := fmt.Sprintf("E (meV) for k = %g … %g nm⁻¹", bs.K[0], bs.K[len(bs.K)-1])
	return asciigraph.PlotMany(bs.Energies, o.options(caption)...)
}
