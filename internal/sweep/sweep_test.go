package sweep_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tiwire/internal/metrics"
	"github.com/san-kum/tiwire/internal/sweep"
	"github.com/san-kum/tiwire/internal/transport"
)

type countingRecorder struct {
	mu       sync.Mutex
	started  int
	observed map[string]int
	failed   int
}

func (c *countingRecorder) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started++
}

func (c *countingRecorder) Observe(kind string, _ int, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.observed == nil {
		c.observed = map[string]int{}
	}
	c.observed[kind]++
	if err != nil {
		c.failed++
	}
}

type pointLog struct {
	mu      sync.Mutex
	indices map[int]float64
}

func (p *pointLog) OnPoint(i int, _, g float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indices[i] = g
}

func wireDevice(length float64) *transport.Device {
	dev, err := transport.New(transport.Params{FermiVelocity: 330, Cutoff: 2})
	Expect(err).NotTo(HaveOccurred())
	Expect(dev.AddWire(transport.WireSpec{X0: 0, XF: length, Section: transport.Circle{R: 20}})).To(Succeed())
	return dev
}

var _ = Describe("Linspace", func() {
	It("includes both end points", func() {
		Expect(sweep.Linspace(0, 1, 5)).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	})
	It("handles degenerate counts", func() {
		Expect(sweep.Linspace(3, 9, 1)).To(Equal([]float64{3}))
		Expect(sweep.Linspace(3, 9, 0)).To(BeEmpty())
	})
})

var _ = Describe("Runner", func() {
	var (
		dev      *transport.Device
		energies []float64
		ctx      context.Context
	)

	BeforeEach(func() {
		dev = wireDevice(100)
		energies = sweep.Linspace(0, 60, 13)
		ctx = context.Background()
	})

	Describe("Conductance", func() {
		It("matches serial evaluation in input order", func() {
			res, err := sweep.New(dev, sweep.WithWorkers(4)).Conductance(ctx, energies)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Energies).To(Equal(energies))
			Expect(res.Conductance).To(HaveLen(len(energies)))

			for i, e := range energies {
				want, err := dev.Conductance(e)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Conductance[i]).To(BeNumerically("~", want, 1e-12))
			}
		})

		It("gives the same answer for any worker count", func() {
			serial, err := sweep.New(dev, sweep.WithWorkers(1)).Conductance(ctx, energies)
			Expect(err).NotTo(HaveOccurred())
			parallel, err := sweep.New(dev, sweep.WithWorkers(8)).Conductance(ctx, energies)
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel.Conductance).To(Equal(serial.Conductance))
		})

		It("fills in metrics, recorder and observers", func() {
			rec := &countingRecorder{}
			obs := &pointLog{indices: map[int]float64{}}
			res, err := sweep.New(dev,
				sweep.WithRecorder(rec),
				sweep.WithObserver(obs),
				sweep.WithMetrics(metrics.Defaults()...),
			).Conductance(ctx, energies)
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.started).To(Equal(len(energies)))
			Expect(rec.observed["conductance"]).To(Equal(len(energies)))
			Expect(rec.failed).To(BeZero())
			Expect(obs.indices).To(HaveLen(len(energies)))
			Expect(obs.indices[3]).To(Equal(res.Conductance[3]))

			Expect(res.Metrics).To(HaveKey("peak_conductance"))
			Expect(res.Metrics).To(HaveKey("mean_conductance"))
			Expect(res.Metrics["peak_conductance"]).To(BeNumerically(">=", res.Metrics["mean_conductance"]))
		})

		It("stops on the first failing point", func() {
			long := wireDevice(5000)
			rec := &countingRecorder{}
			_, err := sweep.New(long, sweep.WithWorkers(2), sweep.WithRecorder(rec)).Conductance(ctx, []float64{0, 0, 0})
			Expect(err).To(MatchError(transport.ErrNeedsDiscretization))
			Expect(err.Error()).To(ContainSubstring("E=0"))
			Expect(rec.failed).To(BeNumerically(">=", 1))
		})

		It("honours a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sweep.New(dev).Conductance(cctx, energies)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Bands", func() {
		It("stitches chunks back in momentum order", func() {
			ks := sweep.Linspace(-0.2, 0.2, 21)
			got, err := sweep.New(dev, sweep.WithWorkers(3)).Bands(ctx, 0, ks)
			Expect(err).NotTo(HaveOccurred())
			want, err := dev.Bands(0, ks)
			Expect(err).NotTo(HaveOccurred())

			Expect(got.K).To(Equal(ks))
			Expect(got.Bottom).To(Equal(want.Bottom))
			Expect(got.Energies).To(HaveLen(len(want.Energies)))
			for i := range want.Energies {
				Expect(got.Energies[i]).To(HaveLen(len(ks)))
				for j := range ks {
					Expect(got.Energies[i][j]).To(BeNumerically("~", want.Energies[i][j], 1e-12))
				}
			}
		})

		It("rejects cones", func() {
			cone, err := transport.New(transport.Params{FermiVelocity: 330, Cutoff: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(cone.AddCone(transport.ConeSpec{X0: 0, XF: 10, Points: 3,
				Start: transport.Circle{R: 4}, End: transport.Circle{R: 6}})).To(Succeed())

			_, err = sweep.New(cone).Bands(ctx, 0, []float64{0})
			Expect(err).To(MatchError(transport.ErrNotWire))
		})
	})
})
