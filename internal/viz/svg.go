package viz

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var ErrNoSeries = errors.New("viz: nothing to draw")

type SVGOptions struct {
	Width, Height int
	Theme         Theme
	Title         string
}

// series colors after the theme's primary and accent
var svgPalette = []string{"#ffaa00", "#44ff88", "#ff4488", "#4488ff", "#cccc44"}

// SVG writes every series in ys against xs as polylines on a shared frame.
// Non-finite samples break the line.
func SVG(w io.Writer, xs []float64, ys [][]float64, o SVGOptions) error {
	if len(xs) < 2 || len(ys) == 0 {
		return ErrNoSeries
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.Theme.Name == "" {
		o.Theme = Themes[0]
	}

	minX, maxX := bounds([][]float64{xs})
	minY, maxY := bounds(ys)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}
	padY := (maxY - minY) * 0.05
	minY -= padY
	maxY += padY

	const margin = 40.0
	plotW := float64(o.Width) - 2*margin
	plotH := float64(o.Height) - 2*margin
	px := func(x float64) float64 { return margin + (x-minX)/(maxX-minX)*plotW }
	py := func(y float64) float64 { return margin + (maxY-y)/(maxY-minY)*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="none" stroke="%s"/>
`, o.Width, o.Height, o.Width, o.Height, margin, margin, plotW, plotH, o.Theme.Muted)

	if o.Title != "" {
		fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" fill="%s" font-family="monospace" font-size="14">%s</text>
`, margin, margin/2, o.Theme.Text, escape(o.Title))
	}
	fmt.Fprintf(&sb, `<g fill="%s" font-family="monospace" font-size="11">
<text x="%.0f" y="%.0f">%.3g</text>
<text x="%.0f" y="%.0f" text-anchor="end">%.3g</text>
<text x="%.0f" y="%.0f" text-anchor="end">%.3g</text>
<text x="%.0f" y="%.0f" text-anchor="end">%.3g</text>
</g>
`, o.Theme.Muted,
		margin, float64(o.Height)-margin/3, minX,
		float64(o.Width)-margin, float64(o.Height)-margin/3, maxX,
		margin-4, py(minY), minY,
		margin-4, py(maxY)+10, maxY)

	colors := append([]string{string(o.Theme.Primary), string(o.Theme.Accent)}, svgPalette...)
	for i, y := range ys {
		color := colors[i%len(colors)]
		for _, run := range finiteRuns(xs, y) {
			if len(run) < 2 {
				continue
			}
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
			for j, k := range run {
				if j > 0 {
					sb.WriteString(" L")
				}
				fmt.Fprintf(&sb, "%.1f,%.1f", px(xs[k]), py(y[k]))
			}
			sb.WriteString("\"/>\n")
		}
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func bounds(series [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// finiteRuns splits the indices of y into runs of finite samples.
func finiteRuns(xs, y []float64) [][]int {
	var runs [][]int
	var cur []int
	for k := 0; k < len(xs) && k < len(y); k++ {
		if math.IsNaN(y[k]) || math.IsInf(y[k], 0) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, k)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
