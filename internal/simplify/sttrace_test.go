package simplify_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planbiir/gsquish/internal/simplify"
	"github.com/planbiir/gsquish/internal/track"
)

var _ = Describe("SlidingBuffer", func() {
	DescribeTable("MaxBufferSize floors the fraction of the input",
		func(ratio float64, n, expected int) {
			Expect(simplify.MaxBufferSize(ratio, n)).To(Equal(expected))
		},
		Entry("three quarters of four", 0.75, 4, 3),
		Entry("half of nine", 0.5, 9, 4),
		Entry("tiny ratio", 0.01, 50, 0),
		Entry("full size", 1.0, 10, 10),
	)

	It("evicts the cheapest interior point and recomputes its neighbours", func() {
		points := []track.Point{{Lat: 0, Lon: 0, Time: 0}, {Lat: 1, Lon: 1, Time: 1}, {Lat: 2, Lon: 2, Time: 2}, {Lat: 10, Lon: 10, Time: 3}}
		buf := simplify.NewSlidingBuffer(simplify.MaxBufferSize(0.75, len(points)))

		for _, p := range points {
			Expect(buf.Push(p)).To(Succeed())
		}
		out, err := buf.Finish()
		Expect(err).NotTo(HaveOccurred())

		Expect(out).To(Equal([]track.Point{points[0], points[2], points[3]}))
		Expect(buf.Entries()[1].Cost).To(BeNumerically("~", sqrt2(20.0/3-2), 1e-9))
		Expect(buf.Evicted()).To(Equal(1))
	})

	It("keeps only the endpoints when the buffer is too small", func() {
		points := diagonal(4)
		buf := simplify.NewSlidingBuffer(simplify.MaxBufferSize(0.5, len(points)))
		Expect(buf.MaxSize()).To(Equal(2))

		out, err := simplify.Drive(points, buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]track.Point{points[0], points[3]}))
		Expect(buf.Evicted()).To(Equal(2))
	})

	It("never holds more than its maximum size", func() {
		points := randomWalk(rand.New(rand.NewSource(21)), 400)
		buf := simplify.NewSlidingBuffer(simplify.MaxBufferSize(0.1, len(points)))

		for _, p := range points {
			Expect(buf.Push(p)).To(Succeed())
			Expect(buf.Len()).To(BeNumerically("<=", buf.MaxSize()))
		}
		out, err := buf.Finish()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(40))
		expectSubsequenceWithAnchors(points, out)
	})

	It("rejects points after finishing", func() {
		buf := simplify.NewSlidingBuffer(5)
		for _, p := range diagonal(3) {
			Expect(buf.Push(p)).To(Succeed())
		}
		_, err := buf.Finish()
		Expect(err).NotTo(HaveOccurred())

		Expect(buf.Push(track.Point{})).To(MatchError(simplify.ErrFinished))
	})

	It("needs two points to finish", func() {
		buf := simplify.NewSlidingBuffer(1)
		Expect(buf.Push(track.Point{Lat: 1, Lon: 1, Time: 1})).To(Succeed())

		_, err := buf.Finish()
		Expect(err).To(MatchError(simplify.ErrTooFewPoints))
	})
})

var _ = Describe("STTrace", func() {
	It("is registered with defaults", func() {
		algo, err := simplify.Create("sttrace", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(algo.Metadata()).To(Equal("sttrace(compression_ratio=0.5)"))
	})

	DescribeTable("rejects non-positive compression ratios",
		func(ratio interface{}) {
			_, err := simplify.Create("sttrace", map[string]interface{}{"compression_ratio": ratio})
			var paramErr *simplify.InvalidParameterError
			Expect(errors.As(err, &paramErr)).To(BeTrue())
			Expect(paramErr.Param).To(Equal("compression_ratio"))
		},
		Entry("zero", 0.0),
		Entry("negative", -0.5),
		Entry("garbage", "half"),
	)

	It("keeps the fraction of the input it was configured for", func() {
		algo, err := simplify.Create("sttrace", map[string]interface{}{"compression_ratio": 0.25})
		Expect(err).NotTo(HaveOccurred())

		points := randomWalk(rand.New(rand.NewSource(5)), 200)
		out, err := algo.Simplify(points)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(50))
		expectSubsequenceWithAnchors(points, out)
	})

	It("returns a two point input unchanged", func() {
		algo, err := simplify.Create("sttrace", nil)
		Expect(err).NotTo(HaveOccurred())

		points := []track.Point{{Lat: 1, Lon: 2, Time: 3}, {Lat: 4, Lon: 5, Time: 6}}
		Expect(algo.Simplify(points)).To(Equal(points))
	})
})
