package review_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/review"
)

func TestBuildIndex(t *testing.T) {
	pois := []*poi.POI{
		{
			ID: "sungsimdang",
			ReviewKeywords: []poi.ReviewKeyword{
				{Keyword: "빵이 맛있어요", Count: 1200},
				{Keyword: "커피가 맛있어요", Count: 300},
			},
		},
		{ID: "quiet-cafe"},
		nil,
		{ReviewKeywords: []poi.ReviewKeyword{{Keyword: "x", Count: 1}}},
	}

	idx := review.BuildIndex(pois)

	require.Equal(t, 2, idx.Size(), "nil POIs and POIs without an ID are skipped")
	assert.Equal(t, 1500, idx.TotalReviews("sungsimdang"))
	assert.Equal(t, 300, idx.Count("sungsimdang", "커피가 맛있어요"))
	assert.Equal(t, 0, idx.Count("sungsimdang", "디저트가 맛있어요"))
	assert.Equal(t, 0, idx.TotalReviews("quiet-cafe"))
	assert.Equal(t, 0, idx.TotalReviews("unknown"))
}

func TestPopularityScore(t *testing.T) {
	pois := []*poi.POI{
		{ID: "rated", Rating: 4.5, ReviewKeywords: []poi.ReviewKeyword{{Keyword: "k", Count: 999}}},
		{ID: "unrated"},
	}
	idx := review.BuildIndex(pois)

	t.Run("rated with reviews", func(t *testing.T) {
		want := 10.0 * (0.6*(4.5/5.0) + 0.4*math.Log10(1000)/math.Log10(50001))
		assert.InDelta(t, want, review.PopularityScore(pois[0], idx), 1e-9)
	})

	t.Run("unknown rating uses neutral midpoint", func(t *testing.T) {
		assert.InDelta(t, 10.0*0.6*0.5, review.PopularityScore(pois[1], idx), 1e-9)
	})

	t.Run("more reviews score higher at equal rating", func(t *testing.T) {
		low := review.PopularityScore(pois[1], idx)
		high := review.PopularityScore(&poi.POI{ID: "rated"}, idx)
		assert.Greater(t, high, low)
	})
}
