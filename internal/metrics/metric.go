package metrics

import "math"

// Metric accumulates a scalar over the points of a conductance sweep.
type Metric interface {
	Name() string
	Observe(energy, conductance float64)
	Value() float64
	Reset()
}

// Peak is the largest conductance seen.
type Peak struct {
	max     float64
	samples int
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak_conductance" }

func (p *Peak) Observe(_, g float64) {
	if p.samples == 0 || g > p.max {
		p.max = g
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

// Mean is the average conductance.
type Mean struct {
	sum     float64
	samples int
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean_conductance" }

func (m *Mean) Observe(_, g float64) {
	m.sum += g
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Quantization is the mean distance of the conductance from the nearest
// integer. It tends to zero on well-formed plateaus.
type Quantization struct {
	sum     float64
	samples int
}

func NewQuantization() *Quantization { return &Quantization{} }

func (q *Quantization) Name() string { return "quantization_error" }

func (q *Quantization) Observe(_, g float64) {
	q.sum += math.Abs(g - math.Round(g))
	q.samples++
}

func (q *Quantization) Value() float64 {
	if q.samples == 0 {
		return 0
	}
	return q.sum / float64(q.samples)
}

func (q *Quantization) Reset() {
	q.sum = 0
	q.samples = 0
}

// Defaults returns fresh instances of every sweep metric.
func Defaults() []Metric {
	return []Metric{NewPeak(), NewMean(), NewQuantization()}
}
