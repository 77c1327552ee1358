package lattice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/tracking"
)

func callStrings(r *recorder) []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.String()
	}
	return out
}

var _ = Describe("LineModel", func() {
	var (
		line *LineModel
		rec  *recorder
		p    *tracking.Probe
	)

	BeforeEach(func() {
		line = NewLineModel("LINE")
		mustAdd(line, leaf("A", 1), leaf("B", 2), leaf("C", 3))
		rec = &recorder{}
		p = newProbe(rec)
	})

	Context("without a marked element", func() {
		It("propagates every child fully from s=0", func() {
			Expect(line.Propagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"fwd:A:1", "fwd:B:2", "fwd:C:3"}))
			Expect(p.Position()).To(BeNumerically("~", 6, 1e-12))
		})

		It("skips children behind the probe and partially propagates the one holding it", func() {
			p.SetPosition(1.5)
			Expect(line.Propagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"part:B:0.5", "fwd:C:3"}))
		})

		It("treats a probe exactly at a child start as a full propagation of that child", func() {
			p.SetPosition(1)
			Expect(line.Propagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"part:A:1", "fwd:B:2", "fwd:C:3"}))
		})

		It("does nothing when the probe is past the end", func() {
			p.SetPosition(7)
			Expect(line.Propagate(p)).To(Succeed())
			Expect(rec.calls).To(BeEmpty())
		})

		It("mirrors the position test when propagating backward", func() {
			p.SetPosition(6)
			Expect(line.BackPropagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"back:C:3", "back:B:2", "back:A:1"}))

			rec.calls = nil
			p.SetPosition(4)
			Expect(line.BackPropagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"backpart:C:2", "back:B:2", "back:A:1"}))
		})
	})

	Context("with a marked element", func() {
		It("restarts at the marked child and initializes the probe", func() {
			p.SetPosition(42)
			p.Save()
			p.SetCurrentElement(tracking.ElementRef{ID: "B"})

			Expect(line.Propagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"fwd:B:2", "fwd:C:3"}))
			Expect(p.Trajectory().Len()).To(Equal(1))
			Expect(p.Trajectory().Initial().Position).To(BeNumerically("~", 1, 1e-12))
			Expect(p.Position()).To(BeNumerically("~", 6, 1e-12))
		})

		It("restarts at the tail of the marked child when propagating backward", func() {
			p.SetCurrentElement(tracking.ElementRef{ID: "B"})

			Expect(line.BackPropagate(p)).To(Succeed())
			Expect(callStrings(rec)).To(Equal([]string{"back:B:2", "back:A:1"}))
			Expect(p.Trajectory().Initial().Position).To(BeNumerically("~", 3, 1e-12))
			Expect(p.Position()).To(BeNumerically("~", 0, 1e-12))
		})

		DescribeTable("rejects a probe the algorithm cannot drive before resetting it",
			func(backward bool) {
				p := tracking.NewProbe(tracking.KindParticle, tracking.Proton, 1e6)
				p.SetAlgorithm(algorithms.NewTransferMapTracker())
				p.SetPosition(0.25)
				p.SetCurrentElement(tracking.ElementRef{ID: "B"})
				before := p.Trajectory()

				var err error
				if backward {
					err = line.BackPropagate(p)
				} else {
					err = line.Propagate(p)
				}
				Expect(err).To(MatchError(tracking.ErrIncompatibleProbe))
				Expect(p.Position()).To(Equal(0.25))
				Expect(p.Time()).To(BeZero())
				Expect(p.KineticEnergy()).To(Equal(1e6))
				Expect(p.Trajectory()).To(BeIdenticalTo(before))
			},
			Entry("forward", false),
			Entry("backward", true),
		)

		It("reports a missing algorithm without moving the probe", func() {
			p := tracking.NewProbe(tracking.KindParticle, tracking.Proton, 1e6)
			p.SetPosition(0.25)
			p.SetCurrentElement(tracking.ElementRef{ID: "B"})

			Expect(line.Propagate(p)).To(MatchError(tracking.ErrNoAlgorithm))
			Expect(p.Position()).To(Equal(0.25))
		})

		It("falls back to the position test for an unknown marker", func() {
			p.SetCurrentElement(tracking.ElementRef{ID: "NOPE"})
			Expect(line.Propagate(p)).To(Succeed())
			Expect(rec.ids()).To(Equal([]string{"A", "B", "C"}))
		})
	})

	It("surfaces the first propagation error", func() {
		rec.failAt = "B"
		err := line.Propagate(p)
		Expect(err).To(MatchError(errBoom))
		Expect(rec.ids()).To(Equal([]string{"A"}))
	})
})
