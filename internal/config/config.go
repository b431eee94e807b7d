package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tiwire/internal/cmat"
	"github.com/san-kum/tiwire/internal/transport"
)

const (
	DefaultFermiVelocity = 330.0 // meV·nm
	DefaultCutoff        = 2
	DefaultRadius        = 20.0
	DefaultLength        = 100.0
	DefaultEMin          = 0.0
	DefaultEMax          = 100.0
	DefaultSweepPoints   = 101
	DefaultKMax          = 0.2
	DefaultBandPoints    = 81
)

var ErrInvalidConfig = errors.New("config: invalid device configuration")

type Config struct {
	Name          string         `yaml:"name"`
	FermiVelocity float64        `yaml:"fermi_velocity"`
	BPerp         float64        `yaml:"b_perp"`
	BPar          float64        `yaml:"b_par"`
	ModeCutoff    int            `yaml:"mode_cutoff"`
	Regions       []RegionConfig `yaml:"regions"`
	Sweep         SweepConfig    `yaml:"sweep"`
	Bands         BandsConfig    `yaml:"bands"`
}

// RegionConfig is a wire (shape inline) or a cone (start and end shapes).
type RegionConfig struct {
	Type        string  `yaml:"type"`
	X0          float64 `yaml:"x0"`
	XF          float64 `yaml:"xf"`
	Points      int     `yaml:"points,omitempty"`
	Sigma       float64 `yaml:"sigma,omitempty"`
	ShapeConfig `yaml:",inline"`

	Start     *ShapeConfig     `yaml:"start,omitempty"`
	End       *ShapeConfig     `yaml:"end,omitempty"`
	Potential *PotentialConfig `yaml:"potential,omitempty"`
}

// ShapeConfig is a circle when Radius is set, a rectangle when Width and
// Height are.
type ShapeConfig struct {
	Radius float64 `yaml:"radius,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// PotentialConfig sets the electrostatic potential in the mode basis. At most
// one of the forms may be given.
type PotentialConfig struct {
	Uniform  float64     `yaml:"uniform,omitempty"`
	Diagonal []float64   `yaml:"diagonal,omitempty"`
	Real     [][]float64 `yaml:"real,omitempty"`
	Imag     [][]float64 `yaml:"imag,omitempty"`
}

type SweepConfig struct {
	EMin   float64 `yaml:"e_min"`
	EMax   float64 `yaml:"e_max"`
	Points int     `yaml:"points"`
}

type BandsConfig struct {
	Region int     `yaml:"region"`
	KMin   float64 `yaml:"k_min"`
	KMax   float64 `yaml:"k_max"`
	Points int     `yaml:"points"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "nanowire",
		FermiVelocity: DefaultFermiVelocity,
		ModeCutoff:    DefaultCutoff,
		Regions: []RegionConfig{
			{Type: "wire", X0: 0, XF: DefaultLength, ShapeConfig: ShapeConfig{Radius: DefaultRadius}},
		},
		Sweep: SweepConfig{EMin: DefaultEMin, EMax: DefaultEMax, Points: DefaultSweepPoints},
		Bands: BandsConfig{KMin: -DefaultKMax, KMax: DefaultKMax, Points: DefaultBandPoints},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// regions are replaced, not merged
	cfg.Regions = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the device parameters.
func (c *Config) Params() transport.Params {
	return transport.Params{
		FermiVelocity: c.FermiVelocity,
		BPerp:         c.BPerp,
		BPar:          c.BPar,
		Cutoff:        c.ModeCutoff,
	}
}

// Validate checks the parts of the configuration the device does not.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("%w: no regions", ErrInvalidConfig)
	}
	for i, r := range c.Regions {
		if r.Type != "wire" && r.Type != "cone" {
			return fmt.Errorf("%w: region %d: unknown type %q", ErrInvalidConfig, i, r.Type)
		}
	}
	if c.Sweep.Points < 1 || c.Sweep.EMin > c.Sweep.EMax {
		return fmt.Errorf("%w: sweep needs points >= 1 and e_min <= e_max", ErrInvalidConfig)
	}
	if c.Bands.Points < 1 || c.Bands.KMin > c.Bands.KMax {
		return fmt.Errorf("%w: bands need points >= 1 and k_min <= k_max", ErrInvalidConfig)
	}
	if c.Bands.Region < 0 || c.Bands.Region >= len(c.Regions) {
		return fmt.Errorf("%w: bands region %d out of range", ErrInvalidConfig, c.Bands.Region)
	}
	return nil
}

// Build validates the configuration and assembles the device.
func (c *Config) Build() (*transport.Device, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	dev, err := transport.New(c.Params())
	if err != nil {
		return nil, err
	}
	n := 2*c.ModeCutoff + 1
	for i, r := range c.Regions {
		if err := r.add(dev, n); err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
	}
	return dev, nil
}

func (r RegionConfig) add(dev *transport.Device, n int) error {
	v, err := r.Potential.Matrix(n)
	if err != nil {
		return err
	}
	if r.Type == "cone" {
		return dev.AddCone(transport.ConeSpec{
			X0:        r.X0,
			XF:        r.XF,
			Points:    r.Points,
			Sigma:     r.Sigma,
			Start:     r.Start.Section(),
			End:       r.End.Section(),
			Potential: v,
		})
	}
	return dev.AddWire(transport.WireSpec{
		X0:        r.X0,
		XF:        r.XF,
		Section:   r.ShapeConfig.Section(),
		Potential: v,
		Points:    r.Points,
	})
}

// Section returns the cross section, or nil when the shape is incomplete.
// A width and height take precedence over a radius.
func (s *ShapeConfig) Section() transport.CrossSection {
	switch {
	case s == nil:
		return nil
	case s.Width != 0 && s.Height != 0:
		return transport.Rectangle{W: s.Width, H: s.Height}
	case s.Radius != 0:
		return transport.Circle{R: s.Radius}
	}
	return nil
}

// Matrix returns the n×n potential, or nil for no potential.
func (p *PotentialConfig) Matrix(n int) (*cmat.Matrix, error) {
	if p == nil {
		return nil, nil
	}
	forms := 0
	if p.Uniform != 0 {
		forms++
	}
	if p.Diagonal != nil {
		forms++
	}
	if p.Real != nil || p.Imag != nil {
		forms++
	}
	if forms > 1 {
		return nil, fmt.Errorf("%w: potential: give one of uniform, diagonal or real/imag", ErrInvalidConfig)
	}

	switch {
	case p.Diagonal != nil:
		if len(p.Diagonal) != n {
			return nil, fmt.Errorf("%w: diagonal has %d entries, want %d", transport.ErrPotentialShape, len(p.Diagonal), n)
		}
		d := make([]complex128, n)
		for i, v := range p.Diagonal {
			d[i] = complex(v, 0)
		}
		return cmat.Diag(d), nil
	case p.Real != nil || p.Imag != nil:
		return p.dense(n)
	case p.Uniform != 0:
		return cmat.Identity(n).Scale(complex(p.Uniform, 0)), nil
	}
	return nil, nil
}

func (p *PotentialConfig) dense(n int) (*cmat.Matrix, error) {
	m := cmat.New(n, n)
	for _, part := range []struct {
		rows [][]float64
		unit complex128
	}{{p.Real, 1}, {p.Imag, 1i}} {
		if part.rows == nil {
			continue
		}
		if len(part.rows) != n {
			return nil, fmt.Errorf("%w: %d rows, want %d", transport.ErrPotentialShape, len(part.rows), n)
		}
		for i, row := range part.rows {
			if len(row) != n {
				return nil, fmt.Errorf("%w: row %d has %d entries, want %d", transport.ErrPotentialShape, i, len(row), n)
			}
			for j, v := range row {
				m.Set(i, j, m.At(i, j)+complex(v, 0)*part.unit)
			}
		}
	}
	return m, nil
}
