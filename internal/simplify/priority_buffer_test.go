package simplify_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planbiir/gsquish/internal/simplify"
	"github.com/planbiir/gsquish/internal/track"
)

var _ = Describe("PriorityBuffer", func() {
	var buf *simplify.PriorityBuffer

	pushAll := func(points []track.Point) {
		GinkgoHelper()
		for _, p := range points {
			Expect(buf.Push(p)).To(Succeed())
		}
	}

	Describe("parameter validation", func() {
		DescribeTable("rejects invalid parameters before processing",
			func(ratio, errorBound float64) {
				_, err := simplify.NewPriorityBuffer(ratio, errorBound)
				var paramErr *simplify.InvalidParameterError
				Expect(errors.As(err, &paramErr)).To(BeTrue(), "expected InvalidParameterError, got %v", err)
			},
			Entry("zero ratio", 0.0, 0.0),
			Entry("negative ratio", -2.0, 0.0),
			Entry("NaN ratio", math.NaN(), 0.0),
			Entry("negative error bound", 10.0, -1.0),
			Entry("NaN error bound", 10.0, math.NaN()),
		)

		It("accepts an infinite error bound", func() {
			_, err := simplify.NewPriorityBuffer(10, math.Inf(1))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("single eviction", func() {
		points := []track.Point{{Lat: 0, Lon: 0, Time: 0}, {Lat: 1, Lon: 1, Time: 1}, {Lat: 2, Lon: 2, Time: 2}, {Lat: 10, Lon: 10, Time: 3}}

		BeforeEach(func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(100, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("evicts the interior point with the smallest SED", func() {
			pushAll(points)

			Expect(buf.Points()).To(Equal([]track.Point{points[0], points[2], points[3]}))
			Expect(buf.Stats().Evicted).To(Equal(1))
		})

		It("recomputes the survivor against its new neighbours", func() {
			pushAll(points)

			entries := buf.Entries()
			Expect(entries).To(HaveLen(3))
			Expect(entries[1].Point).To(Equal(points[2]))
			// (2,2) against chord (0,0)→(10,10) at t=2/3: (6.67, 6.67)
			Expect(entries[1].Cost).To(BeNumerically("~", sqrt2(20.0/3-2), 1e-9))
		})

		It("keeps both anchors at infinite cost", func() {
			pushAll(points)

			entries := buf.Entries()
			Expect(entries[0].Anchor).To(BeTrue())
			Expect(entries[len(entries)-1].Anchor).To(BeTrue())
			Expect(math.IsInf(entries[0].Cost, 1)).To(BeTrue())
			Expect(math.IsInf(entries[len(entries)-1].Cost, 1)).To(BeTrue())
		})

		It("stops converging when the cheapest cost exceeds the bound", func() {
			pushAll(points)

			out, err := buf.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]track.Point{points[0], points[2], points[3]}))
			Expect(buf.State()).To(Equal(simplify.StateDone))
		})
	})

	Describe("compensation propagation", func() {
		// p2 is the cheapest point (0.5) and hands its cost to p1 and p3.
		points := []track.Point{{Lat: 0, Lon: 0, Time: 0}, {Lat: 1, Lon: 0, Time: 1}, {Lat: 0, Lon: 0, Time: 2}, {Lat: 0, Lon: 0, Time: 3}}

		It("adds the evicted cost to the surviving neighbours", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(100, 0)
			Expect(err).NotTo(HaveOccurred())
			pushAll(points)

			entries := buf.Entries()
			Expect(entries).To(HaveLen(3))
			Expect(entries[1].Point).To(Equal(points[1]))
			Expect(entries[1].Compensation).To(BeNumerically("~", 0.5, 1e-12))
			// SED of (1,0) against (0,0)→(0,0) is 1, plus the absorbed 0.5
			Expect(entries[1].Cost).To(BeNumerically("~", 1.5, 1e-12))
			Expect(entries[0].Compensation).To(BeZero(), "the head anchor never carries compensation")
			Expect(buf.Stats().MaxCompensation).To(BeNumerically("~", 0.5, 1e-12))
		})

		DescribeTable("converges against the compensated cost",
			func(bound float64, expected []int, converged int) {
				var err error
				buf, err = simplify.NewPriorityBuffer(100, bound)
				Expect(err).NotTo(HaveOccurred())
				pushAll(points)

				out, err := buf.Finish()
				Expect(err).NotTo(HaveOccurred())

				want := make([]track.Point, len(expected))
				for i, idx := range expected {
					want[i] = points[idx]
				}
				Expect(out).To(Equal(want))
				Expect(buf.Stats().Converged).To(Equal(converged))
			},
			Entry("bound below the raw SED keeps p1", 0.9, []int{0, 1, 3}, 0),
			Entry("bound between raw and compensated cost keeps p1", 1.2, []int{0, 1, 3}, 0),
			Entry("bound at the compensated cost removes p1", 1.5, []int{0, 3}, 1),
		)
	})

	Describe("tie breaking", func() {
		It("evicts the lowest index among equal costs", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(100, 0)
			Expect(err).NotTo(HaveOccurred())

			points := diagonal(8)
			pushAll(points)

			Expect(buf.Points()).To(Equal([]track.Point{points[0], points[6], points[7]}))
		})
	})

	Describe("capacity schedule", func() {
		It("grows capacity with throughput and never lets the buffer exceed it", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(2, 0)
			Expect(err).NotTo(HaveOccurred())

			rng := rand.New(rand.NewSource(7))
			prev := buf.Capacity()
			for _, p := range randomWalk(rng, 20) {
				Expect(buf.Push(p)).To(Succeed())
				Expect(buf.Len()).To(BeNumerically("<=", buf.Capacity()))
				Expect(buf.Capacity()).To(BeNumerically(">=", prev))
				prev = buf.Capacity()
			}
			// capacity reaches i/2 for the last index i=18 that triggered growth
			Expect(buf.Capacity()).To(Equal(10))
		})

		It("returns to growing once an eviction frees a slot", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(100, 0)
			Expect(err).NotTo(HaveOccurred())

			points := diagonal(6)
			for i, p := range points {
				Expect(buf.Push(p)).To(Succeed())
				Expect(buf.State()).To(Equal(simplify.StateGrowing))
				Expect(buf.Len()).To(BeNumerically("<", buf.Capacity()))
				if i >= 3 {
					Expect(buf.Stats().Evicted).To(Equal(i - 2))
				} else {
					Expect(buf.Stats().Evicted).To(BeZero())
				}
			}
		})
	})

	Describe("stream end", func() {
		It("removes every interior point with an infinite error bound", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(2, math.Inf(1))
			Expect(err).NotTo(HaveOccurred())

			points := randomWalk(rand.New(rand.NewSource(3)), 50)
			pushAll(points)

			out, err := buf.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]track.Point{points[0], points[49]}))
		})

		It("returns a two point input unchanged", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(0.1, math.Inf(1))
			Expect(err).NotTo(HaveOccurred())

			points := []track.Point{{Lat: 1, Lon: 2, Time: 3}, {Lat: 4, Lon: 5, Time: 6}}
			pushAll(points)

			out, err := buf.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(points))
		})

		It("rejects a single point", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Push(track.Point{Lat: 1, Lon: 1, Time: 1})).To(Succeed())

			_, err = buf.Finish()
			Expect(err).To(MatchError(simplify.ErrTooFewPoints))
		})

		It("refuses points after finishing", func() {
			var err error
			buf, err = simplify.NewPriorityBuffer(10, 0)
			Expect(err).NotTo(HaveOccurred())
			pushAll([]track.Point{{Lat: 0, Lon: 0, Time: 0}, {Lat: 1, Lon: 0, Time: 1}, {Lat: 0, Lon: 0, Time: 2}})

			_, err = buf.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.Push(track.Point{Lat: 9, Lon: 9, Time: 9})).To(MatchError(simplify.ErrFinished))

			again, err := buf.Finish()
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(HaveLen(3))
		})
	})

	Describe("randomized invariants", func() {
		DescribeTable("hold across ratios and bounds",
			func(seed int64, n int, ratio, bound float64) {
				var err error
				buf, err = simplify.NewPriorityBuffer(ratio, bound)
				Expect(err).NotTo(HaveOccurred())

				points := randomWalk(rand.New(rand.NewSource(seed)), n)
				compensation := make(map[track.Point]float64)

				for _, p := range points {
					Expect(buf.Push(p)).To(Succeed())
					Expect(buf.Len()).To(BeNumerically("<=", buf.Capacity()))

					for _, e := range buf.Entries() {
						Expect(e.Compensation).To(BeNumerically(">=", compensation[e.Point]),
							"compensation must never decrease")
						compensation[e.Point] = e.Compensation
						if !e.Anchor {
							Expect(math.IsInf(e.Cost, 0) || math.IsNaN(e.Cost)).To(BeFalse())
						}
					}
				}

				out, err := buf.Finish()
				Expect(err).NotTo(HaveOccurred())
				expectSubsequenceWithAnchors(points, out)
				Expect(buf.Stats().Inserted).To(Equal(n))
				Expect(buf.Stats().Inserted - buf.Stats().Evicted - buf.Stats().Converged).To(Equal(len(out)))
			},
			Entry("ratio 2", int64(1), 200, 2.0, 0.0),
			Entry("ratio 5 with bound", int64(2), 500, 5.0, 0.0002),
			Entry("ratio 20", int64(3), 300, 20.0, 0.0),
			Entry("ratio below one", int64(4), 50, 0.5, 0.0),
			Entry("infinite bound", int64(5), 100, 3.0, math.Inf(1)),
		)
	})
})

var _ = Describe("SquishE", func() {
	It("is registered with defaults", func() {
		algo, err := simplify.Create("squish_e", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(algo.Name()).To(Equal("squish_e"))
		Expect(algo.Metadata()).To(Equal("squish_e(ratio=10,error_bound=0)"))
	})

	It("accepts string and integer parameters", func() {
		algo, err := simplify.Create("squish_e", map[string]interface{}{"ratio": "4", "error_bound": 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(algo.Metadata()).To(Equal("squish_e(ratio=4,error_bound=1)"))
	})

	It("rejects a non-positive ratio at creation", func() {
		_, err := simplify.Create("squish_e", map[string]interface{}{"ratio": 0})
		Expect(err).To(HaveOccurred())
	})

	It("compresses roughly by the ratio and exposes buffer stats", func() {
		algo, err := simplify.NewSquishE(map[string]interface{}{"ratio": 10.0})
		Expect(err).NotTo(HaveOccurred())

		points := randomWalk(rand.New(rand.NewSource(11)), 1000)
		out, err := algo.Simplify(points)
		Expect(err).NotTo(HaveOccurred())
		expectSubsequenceWithAnchors(points, out)
		Expect(len(out)).To(BeNumerically("<=", 1000/10+1))

		stats := algo.(*simplify.SquishE).LastStats()
		Expect(stats.Inserted).To(Equal(1000))
	})

	It("rejects a single point before touching the buffer", func() {
		algo, err := simplify.NewSquishE(nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = algo.Simplify([]track.Point{{Lat: 1, Lon: 1, Time: 1}})
		Expect(err).To(MatchError(simplify.ErrTooFewPoints))
	})
})
