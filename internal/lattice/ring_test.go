package lattice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beamsim/internal/algorithms"
	"github.com/san-kum/beamsim/internal/phase"
	"github.com/san-kum/beamsim/internal/tracking"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

var _ = Describe("RingModel", func() {
	var ring *RingModel

	BeforeEach(func() {
		ring = NewRingModel("RING")
		mustAdd(ring, leaf("A", 1), leaf("B", 1), leaf("C", 1), leaf("D", 1))
	})

	Describe("RotateToStart", func() {
		It("rotates without dropping or duplicating children", func() {
			in := ring.Children()
			out, ok := RotateToStart(in, "C")
			Expect(ok).To(BeTrue())
			Expect(ids(out)).To(Equal([]string{"C", "D", "A", "B"}))
			Expect(ids(in)).To(Equal([]string{"A", "B", "C", "D"}))
		})

		It("is idempotent", func() {
			once, _ := RotateToStart(ring.Children(), "C")
			twice, _ := RotateToStart(once, "C")
			Expect(ids(twice)).To(Equal(ids(once)))
		})

		It("leaves the order alone for an unknown id", func() {
			out, ok := RotateToStart(ring.Children(), "Z")
			Expect(ok).To(BeFalse())
			Expect(ids(out)).To(Equal([]string{"A", "B", "C", "D"}))
		})

		It("rotates to the child that contains a nested start element", func() {
			sec := NewSector("S")
			mustAdd(sec, leaf("E", 1), leaf("F", 1))
			mustAdd(ring, sec)

			out, ok := RotateToStart(ring.Children(), "F")
			Expect(ok).To(BeTrue())
			Expect(ids(out)).To(Equal([]string{"S", "A", "B", "C", "D"}))
		})
	})

	It("propagates from the algorithm's start element", func() {
		rec := &recorder{start: "C"}
		p := newProbe(rec)

		Expect(ring.Propagate(p)).To(Succeed())
		Expect(rec.ids()).To(Equal([]string{"C", "D", "A", "B"}))
		Expect(ids(ring.Children())).To(Equal([]string{"C", "D", "A", "B"}))

		rec.calls = nil
		Expect(ring.Propagate(p)).To(Succeed())
		Expect(rec.ids()).To(Equal([]string{"C", "D", "A", "B"}))
	})

	Context("with a nested start element", func() {
		BeforeEach(func() {
			ring = NewRingModel("RING")
			sec := NewSector("S")
			mustAdd(sec, driftLeaf("E", 1), driftLeaf("F", 1))
			mustAdd(ring, driftLeaf("A", 1), sec, driftLeaf("D", 1))
		})

		It("closes the turn with the part of the sector before the start", func() {
			p := tracking.NewProbe(tracking.KindTransferMap, tracking.Proton, 1e9)
			p.SetAlgorithm(algorithms.NewTransferMapTracker(algorithms.WithRange("F", "", false)))

			m, err := ring.OneTurnMap(p)
			Expect(err).NotTo(HaveOccurred())

			var visited []string
			for _, st := range p.Trajectory().States()[1:] {
				visited = append(visited, st.Element.ID)
			}
			Expect(visited).To(Equal([]string{"F", "D", "A", "E"}))
			Expect(m[phase.X][phase.XP]).To(BeNumerically("~", ring.Length(), 1e-12))
			Expect(p.Position()).To(BeNumerically("~", 4, 1e-12))
		})

		It("does not revisit elements when the start is a direct child", func() {
			p := tracking.NewProbe(tracking.KindTransferMap, tracking.Proton, 1e9)
			p.SetAlgorithm(algorithms.NewTransferMapTracker(algorithms.WithRange("D", "", false)))

			m, err := ring.OneTurnMap(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Trajectory().Len()).To(Equal(5))
			Expect(m[phase.X][phase.XP]).To(BeNumerically("~", 4, 1e-12))
		})
	})

	It("propagates in stored order without a start element", func() {
		rec := &recorder{}
		Expect(ring.Propagate(newProbe(rec))).To(Succeed())
		Expect(rec.ids()).To(Equal([]string{"A", "B", "C", "D"}))
	})

	It("keeps child positions consistent after rotation", func() {
		ring.RotateTo("C")
		c, _ := ring.Find("C")
		a, _ := ring.Find("A")
		Expect(c.Position()).To(BeNumerically("==", 0))
		Expect(a.Position()).To(BeNumerically("==", 2))
		Expect(ring.Length()).To(BeNumerically("==", 4))
	})

	Describe("OneTurnMap", func() {
		It("rejects probes that do not carry a transfer map", func() {
			_, err := ring.OneTurnMap(newProbe(&recorder{}))
			Expect(err).To(MatchError(tracking.ErrIncompatibleProbe))
		})

		It("starts from the identity", func() {
			p := tracking.NewProbe(tracking.KindTransferMap, tracking.Proton, 1e9)
			p.SetAlgorithm(&recorder{})
			m := phase.Identity()
			m[phase.X][phase.XP] = 3
			p.SetTransferMap(m)

			got, err := ring.OneTurnMap(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(phase.Identity()))
		})
	})
})
