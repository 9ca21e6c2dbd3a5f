package simplify_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/planbiir/gsquish/internal/simplify"
	"github.com/planbiir/gsquish/internal/track"
)

var _ = Describe("Registry", func() {
	It("lists every built-in algorithm", func() {
		Expect(simplify.Names()).To(Equal([]string{
			"dead_reckoning", "douglas_peucker", "opw", "opw_tr", "squish_e", "sttrace", "threshold", "uniform",
		}))
	})

	It("reports unknown algorithms with a typed error", func() {
		_, err := simplify.Create("visvalingam", nil)

		var notFound *simplify.AlgorithmNotFoundError
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(notFound.Name).To(Equal("visvalingam"))
		Expect(err).To(MatchError("algorithm not found: visvalingam"))
	})

	DescribeTable("rejects malformed parameters",
		func(name, key string, value interface{}) {
			_, err := simplify.Create(name, map[string]interface{}{key: value})

			var paramErr *simplify.InvalidParameterError
			Expect(errors.As(err, &paramErr)).To(BeTrue(), "got %v", err)
			Expect(paramErr.Algorithm).To(Equal(name))
			Expect(paramErr.Param).To(Equal(key))
		},
		Entry("unparseable string", "squish_e", "ratio", "ten"),
		Entry("unsupported type", "squish_e", "error_bound", []int{1}),
		Entry("negative epsilon", "opw", "epsilon", -1.0),
		Entry("negative epsilon for dead reckoning", "dead_reckoning", "epsilon", -0.1),
		Entry("negative epsilon for douglas peucker", "douglas_peucker", "epsilon", -0.1),
		Entry("non-string distance mode", "threshold", "distance", 3),
		Entry("negative orientation", "threshold", "orientation_threshold", -1),
		Entry("negative speed", "threshold", "speed_threshold", "-2"),
	)

	Describe("output contract", func() {
		builtins := []string{"dead_reckoning", "douglas_peucker", "opw", "opw_tr", "squish_e", "sttrace", "threshold", "uniform"}

		for _, name := range builtins {
			name := name

			It(name+" returns an anchored subsequence", func() {
				points := randomWalk(rand.New(rand.NewSource(42)), 300)
				out, err := mustCreate(name, nil).Simplify(points)
				Expect(err).NotTo(HaveOccurred())
				expectSubsequenceWithAnchors(points, out)
				Expect(len(out)).To(BeNumerically("<=", len(points)))
			})

			It(name+" leaves a two point input unchanged", func() {
				points := []track.Point{{Lat: 46, Lon: 7, Time: 0}, {Lat: 46.1, Lon: 7.1, Time: 60}}
				Expect(mustCreate(name, nil).Simplify(points)).To(Equal(points))
			})

			It(name+" rejects fewer than two points", func() {
				_, err := mustCreate(name, nil).Simplify([]track.Point{{Lat: 46, Lon: 7, Time: 0}})
				Expect(err).To(MatchError(simplify.ErrTooFewPoints))

				_, err = mustCreate(name, nil).Simplify(nil)
				Expect(err).To(MatchError(simplify.ErrTooFewPoints))
			})
		}
	})
})
