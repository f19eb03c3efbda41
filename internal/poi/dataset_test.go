package poi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastetrail/tastetrail/internal/poi"
)

const sampleDataset = `[
  {
    "name": "성심당 본점",
    "slug_en": "sungsimdang-main",
    "latitude": "36.3276",
    "longitude": 127.4273,
    "rating": 9.2,
    "road_address": "대전 중구 대종로480번길 15",
    "district": "중구",
    "monday": "08:00 - 22:00 (21:30 라스트오더)",
    "tuesday": "08:00 - 22:00",
    "sunday": "08:00 - 22:00",
    "review_keywords": [
      {"keyword": "빵이 맛있어요", "count": "45,483"},
      {"keyword": "커피가 맛있어요", "count": 1200}
    ],
    "keyword_details": {
      "final_keywords": ["소금빵", "튀김소보로"],
      "keyword_stats": {
        "소금빵": {"pos_count": 412},
        "튀김소보로": {"pos_count": "1,031"}
      }
    },
    "waiting_prediction": {
      "predictions": {
        "토요일": {
          "predicted_wait_minutes": 25,
          "by_time": {"lunch": {"predicted_wait_minutes": 40}}
        }
      },
      "overall_stats": {"average_minutes": 18.5}
    }
  },
  {
    "name": "이름없는집",
    "latitude": 0,
    "longitude": 0,
    "rating": "없음"
  },
  {
    "rating": 4.1
  }
]`

func TestDecodeDataset(t *testing.T) {
	pois, err := poi.DecodeDataset([]byte(sampleDataset))
	require.NoError(t, err)
	// The record with no name and no slug is dropped.
	require.Len(t, pois, 2)

	p := pois[0]
	assert.Equal(t, "sungsimdang-main", p.ID)
	assert.Equal(t, "성심당 본점", p.Name)
	assert.InDelta(t, 36.3276, p.Coordinate.Lat, 1e-6)
	assert.InDelta(t, 127.4273, p.Coordinate.Lon, 1e-6)
	assert.True(t, p.Locatable())

	// Combined 0-10 rating is normalized to 0-5.
	assert.InDelta(t, 4.6, p.Rating, 1e-9)

	require.NotNil(t, p.Hours)
	require.NotNil(t, p.Hours.Days[0])
	assert.Equal(t, poi.NewTimeOfDay(21, 30), p.Hours.Days[0].EffectiveClose())
	assert.Nil(t, p.Hours.Days[2], "wednesday has no entry")

	require.Len(t, p.ReviewKeywords, 2)
	assert.Equal(t, 45483, p.ReviewKeywords[0].Count, "comma-separated counts are parsed")

	assert.Equal(t, 412, p.KeywordStats["소금빵"])
	assert.Equal(t, 1031, p.KeywordStats["튀김소보로"])

	require.NotNil(t, p.WaitPrediction)
	require.NotNil(t, p.WaitPrediction.Days[5], "saturday prediction present")
	assert.InDelta(t, 25, p.WaitPrediction.Days[5].AvgMinutes, 1e-9)
	assert.InDelta(t, 40, p.WaitPrediction.Days[5].LunchMinutes, 1e-9)
	assert.Zero(t, p.WaitPrediction.Days[5].DinnerMinutes)
	assert.InDelta(t, 18.5, p.WaitPrediction.OverallAvgMinutes, 1e-9)
}

func TestDecodeDataset_DegradedRecord(t *testing.T) {
	pois, err := poi.DecodeDataset([]byte(sampleDataset))
	require.NoError(t, err)

	p := pois[1]
	assert.Equal(t, "이름없는집", p.ID, "name backfills missing slug")
	assert.False(t, p.Locatable(), "zero coordinates mean unlocatable")
	assert.Zero(t, p.Rating, "unparseable rating degrades to unknown")
	assert.Nil(t, p.Hours)
	assert.Nil(t, p.WaitPrediction)
}

func TestDecodeDataset_Invalid(t *testing.T) {
	_, err := poi.DecodeDataset([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestMemoryRepository(t *testing.T) {
	pois, err := poi.DecodeDataset([]byte(sampleDataset))
	require.NoError(t, err)

	repo := poi.NewMemoryRepository(pois)
	loaded, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, len(pois))

	empty := poi.NewMemoryRepository(nil)
	_, err = empty.LoadAll(context.Background())
	assert.ErrorIs(t, err, poi.ErrEmptyDataset)
}
