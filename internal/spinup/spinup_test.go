package spinup

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ecosim/internal/bgc"
)

// runBlock drives one block with a soil carbon value per year.
func runBlock(m *Machine, soilC func(year int) float64) {
	for {
		c := soilC(m.SpinYears)
		for d := 0; d < bgc.DaysPerYear; d++ {
			m.AccumulateDay(c)
		}
		if m.EndYear() {
			return
		}
	}
}

var _ = Describe("NBlock", func() {
	DescribeTable("cycles short records about a hundred times",
		func(metYears, want int) {
			Expect(NBlock(metYears)).To(Equal(want))
		},
		Entry("one year", 1, 101),
		Entry("ten years", 10, 110),
		Entry("thirty years", 30, 120),
		Entry("forty-nine years", 49, 147),
		Entry("long record", 50, 50),
		Entry("very long record", 120, 120),
	)
})

var _ = Describe("Machine", func() {
	var m *Machine

	BeforeEach(func() {
		m = New(2, 100000)
	})

	It("starts rising in the supplemented phase", func() {
		Expect(m.Rising).To(BeTrue())
		Expect(m.Metcycle).To(Equal(0))
		Expect(m.Steady1).To(BeFalse())
		Expect(m.Steady2).To(BeFalse())
		Expect(m.NBlock()).To(Equal(102))
		Expect(m.NAddFrac()).To(Equal(1.0))
	})

	It("decays the N supplement linearly over the block", func() {
		for i := 0; i < 51; i++ {
			m.EndYear()
		}
		Expect(m.NAddFrac()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("stops supplementing during measurement blocks", func() {
		runBlock(m, func(int) float64 { return 1 })
		Expect(m.Metcycle).To(Equal(1))
		Expect(m.NAddFrac()).To(BeZero())
	})

	Context("with a flat soil carbon trajectory", func() {
		flat := func(int) float64 { return 10 }

		It("becomes steady1 on the first comparison", func() {
			runBlock(m, flat)
			runBlock(m, flat)
			Expect(m.Steady1).To(BeFalse())

			runBlock(m, flat)
			Expect(m.Steady1).To(BeTrue())
			Expect(m.Rising).To(BeFalse())
			Expect(m.Metcycle).To(Equal(0))
			Expect(m.Done()).To(BeFalse())
		})

		It("terminates after the confirming comparison", func() {
			blocks := 0
			for !m.Done() {
				runBlock(m, flat)
				blocks++
			}
			Expect(blocks).To(Equal(6))
			Expect(m.Converged()).To(BeTrue())
			Expect(m.SpinYears).To(Equal(6 * m.NBlock()))
		})
	})

	Context("with a decaying trend", func() {
		It("terminates in finite blocks", func() {
			decay := func(year int) float64 { return 20 - 10/(1+float64(year)/100) }
			blocks := 0
			for !m.Done() && blocks < 1000 {
				runBlock(m, decay)
				blocks++
			}
			Expect(m.Converged()).To(BeTrue())
			Expect(blocks).To(BeNumerically("<", 1000))
		})
	})

	Context("with a persistent rise", func() {
		rising := func(year int) float64 { return float64(year) }

		It("measures the trend and keeps supplementing", func() {
			for i := 0; i < 3; i++ {
				runBlock(m, rising)
			}
			Expect(m.Steady1).To(BeFalse())
			Expect(m.Rising).To(BeTrue())
			Expect(m.Trend).To(BeNumerically("~", 1, 1e-9))
			Expect(m.NAddFrac()).To(Equal(1.0))
		})

		It("stops at the year cap only between comparisons", func() {
			m = New(2, 150)
			runBlock(m, rising)
			Expect(m.SpinYears).To(Equal(102))
			Expect(m.Done()).To(BeFalse())

			runBlock(m, rising)
			Expect(m.SpinYears).To(BeNumerically(">=", 150))
			Expect(m.Metcycle).To(Equal(2))
			Expect(m.Done()).To(BeFalse())

			runBlock(m, rising)
			Expect(m.Metcycle).To(Equal(0))
			Expect(m.Done()).To(BeTrue())
			Expect(m.Converged()).To(BeFalse())
		})
	})

	Context("checked after every year", func() {
		It("never stops inside a block", func() {
			m = New(1, 50)
			Expect(m.NBlock()).To(Equal(101))
			for !m.Done() {
				Expect(m.SpinYears).To(BeNumerically("<", 1000))
				for d := 0; d < bgc.DaysPerYear; d++ {
					m.AccumulateDay(float64(m.SpinYears))
				}
				m.EndYear()
				if m.BlockYear() != 0 {
					Expect(m.Done()).To(BeFalse())
				}
			}
			Expect(m.SpinYears).To(Equal(3 * m.NBlock()))
			Expect(m.BlockYear()).To(BeZero())
			Expect(m.Metcycle).To(BeZero())
			Expect(m.Converged()).To(BeFalse())
		})

		It("does not stop before the first year", func() {
			Expect(New(1, 0).Done()).To(BeFalse())
		})
	})

	Context("when soil carbon rises again after the first steady state", func() {
		It("returns to the supplemented phase", func() {
			flat := func(int) float64 { return 10 }
			for i := 0; i < 3; i++ {
				runBlock(m, flat)
			}
			Expect(m.Steady1).To(BeTrue())

			base := m.SpinYears
			rise := func(year int) float64 { return 10 + float64(year-base) }
			for i := 0; i < 3; i++ {
				runBlock(m, rise)
			}
			Expect(m.Steady1).To(BeFalse())
			Expect(m.Steady2).To(BeFalse())
			Expect(m.Rising).To(BeTrue())
		})
	})
})
