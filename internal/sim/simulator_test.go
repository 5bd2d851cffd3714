package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/logging"
	"github.com/san-kum/ecosim/internal/met"
	"github.com/san-kum/ecosim/internal/phenology"
)

type countingObserver struct {
	days  int
	years []int
}

func (o *countingObserver) OnDay(*bgc.Day) error { o.days++; return nil }

func (o *countingObserver) OnYear(a bgc.AnnualSummary, _ *bgc.Day) error {
	o.years = append(o.years, a.Year)
	return nil
}

func buildSimulator(vegetation string, metYears int) (*Simulator, *bgc.State) {
	epc := *config.GetPreset(vegetation)
	rec := met.Synthetic(met.Climate{
		Years: metYears, FirstYear: 2000, MeanTemp: 8, TempAmplitude: 12, AnnualPrcp: 900, Latitude: 45,
	})
	sig, err := phenology.Build(&epc, rec)
	Expect(err).NotTo(HaveOccurred())

	s := New(Inputs{EPC: epc, Site: config.DefaultSite(), Met: rec, Phen: sig}, logging.Discard())
	site := s.Site()
	x0 := InitialState(config.DefaultConfig().Init, &epc, &site)
	return s, x0
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	DescribeTable("multi-year model runs conserve mass",
		func(vegetation string) {
			s, x0 := buildSimulator(vegetation, 2)
			res, err := s.Run(ctx, x0, Config{Mode: ModeModel, Years: 3, FirstYear: 1990})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Annual).To(HaveLen(3))
			Expect(res.Days).To(Equal(3 * bgc.DaysPerYear))
			Expect(res.MaxDrift["water"]).To(BeNumerically("<", 1e-4))
			Expect(res.MaxDrift["carbon"]).To(BeNumerically("<", 1e-8))
			Expect(res.MaxDrift["nitrogen"]).To(BeNumerically("<", 1e-8))
			Expect(res.State.IsValid()).To(BeTrue())
			Expect(res.Annual[2].GPP).To(BeNumerically(">", 0))
		},
		Entry("evergreen needleleaf", "enf"),
		Entry("deciduous broadleaf", "dbf"),
		Entry("C3 grass", "c3grass"),
	)

	It("cycles meteorology years and reports the continuation year", func() {
		s, x0 := buildSimulator("c3grass", 2)
		res, err := s.Run(ctx, x0, Config{Mode: ModeModel, Years: 3, FirstYear: 1990, StartMetYear: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Annual[0].MetYear).To(Equal(1))
		Expect(res.Annual[1].MetYear).To(Equal(0))
		Expect(res.Annual[2].MetYear).To(Equal(1))
		Expect(res.Annual[2].Year).To(Equal(1992))
		Expect(res.NextMetYear).To(Equal(0))
	})

	It("leaves the initial state untouched", func() {
		s, x0 := buildSimulator("c3grass", 1)
		before := *x0
		_, err := s.Run(ctx, x0, Config{Mode: ModeModel, Years: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(*x0).To(Equal(before))
	})

	It("feeds metrics and observers every day", func() {
		s, x0 := buildSimulator("c3grass", 1)
		obs := &countingObserver{}
		s.AddObserver(obs)
		m := newCountMetric()
		s.AddMetric(m)

		res, err := s.Run(ctx, x0, Config{Mode: ModeModel, Years: 2, FirstYear: 2000})
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.days).To(Equal(2 * bgc.DaysPerYear))
		Expect(obs.years).To(Equal([]int{2000, 2001}))
		Expect(res.Metrics).To(HaveKeyWithValue("days", float64(2*bgc.DaysPerYear)))
	})

	It("stops between years when the context is cancelled", func() {
		s, x0 := buildSimulator("c3grass", 1)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res, err := s.Run(cctx, x0, Config{Mode: ModeModel, Years: 5})
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Annual).To(BeEmpty())
	})

	It("rejects invalid configurations before touching state", func() {
		s, x0 := buildSimulator("c3grass", 1)
		_, err := s.Run(ctx, x0, Config{Mode: Mode(7), Years: 1})
		Expect(errors.Is(err, bgc.ErrUnknownMode)).To(BeTrue())
		Expect(bgc.Classify(err)).To(Equal(bgc.KindConfig))

		_, err = s.Run(ctx, x0, Config{Mode: ModeModel})
		Expect(errors.Is(err, bgc.ErrInvalidConfig)).To(BeTrue())
	})

	It("aborts on a physically impossible state with the failing stage", func() {
		s, x0 := buildSimulator("enf", 1)
		x0.Carbon.LeafC = -1
		_, err := s.Run(ctx, x0, Config{Mode: ModeModel, Years: 1, FirstYear: 1990})

		var se *bgc.StageError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Stage).To(Equal("radiation"))
		Expect(se.YDay).To(Equal(0))
		Expect(errors.Is(err, bgc.ErrNegativeLeafC)).To(BeTrue())
		Expect(bgc.Classify(err)).To(Equal(bgc.KindPhysical))
	})

	Describe("spinup", func() {
		It("runs whole comparison windows and stops at the year cap", func() {
			s, x0 := buildSimulator("c3grass", 1)
			res, err := s.Run(ctx, x0, Config{Mode: ModeSpinup, MaxYears: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Spinup).NotTo(BeNil())
			Expect(res.Spinup.NBlock).To(Equal(101))
			Expect(res.Spinup.Years).To(Equal(3 * 101))
			Expect(res.Spinup.Converged).To(BeFalse())
			Expect(res.Annual).To(HaveLen(3 * 101))
			Expect(res.MaxDrift["carbon"]).To(BeNumerically("<", 1e-8))
			Expect(res.MaxDrift["nitrogen"]).To(BeNumerically("<", 1e-8))
			Expect(res.State.Carbon.SoilC()).To(BeNumerically(">", 0))
		})
	})
})
