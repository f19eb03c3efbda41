package sequence_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/sequence"
)

// nearStation places a POI a short walk from the given Line 1 station.
func nearStation(id string, stationIdx int, score float64) sequence.Item {
	st := sequence.DefaultLine().Stations[stationIdx]
	return sequence.Item{
		POI: &poi.POI{
			ID:   id,
			Name: id,
			Coordinate: geo.Coordinate{
				Lat: st.Coordinate.Lat + 0.002,
				Lon: st.Coordinate.Lon,
			},
		},
		Score: score,
	}
}

func placedIDs(placed []sequence.Placed) []string {
	out := make([]string, len(placed))
	for i, p := range placed {
		out[i] = p.POI.ID
	}
	return out
}

func TestLineSelector_ContiguousAndMonotonic(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{MaxStops: 4}, sequence.DefaultLine())

	items := []sequence.Item{
		nearStation("jungangno", 4, 9),
		nearStation("daejeon-station", 3, 8),
		nearStation("city-hall", 10, 7),
		nearStation("yuseong", 15, 6),
		nearStation("banseok", 21, 1),
	}

	got := sel.Sequence(items)

	require.Len(t, got, 4, "overall cap limits the itinerary")
	// Top four by score are stations 3, 4, 10, 15; banseok at 21 would
	// displace a better stop, so the winning interval excludes it.
	assert.Equal(t, []string{"daejeon-station", "jungangno", "city-hall", "yuseong"}, placedIDs(got))

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].StationIndex, got[i-1].StationIndex,
			"stop order never backtracks along the line")
	}
}

func TestLineSelector_PerStationCap(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine())

	var items []sequence.Item
	for i := 0; i < 5; i++ {
		items = append(items, nearStation(fmt.Sprintf("p%d", i), 4, float64(i)))
	}

	got := sel.Sequence(items)

	require.Len(t, got, 3, "one station contributes at most three stops")
	assert.Equal(t, []string{"p4", "p3", "p2"}, placedIDs(got), "ties on station index break by score")
}

func TestLineSelector_ExcludesLongWalks(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine())

	onLine := nearStation("on-line", 10, 5)
	offLine := sequence.Item{
		// Sintanjin, roughly 10 km from the nearest Line 1 station.
		POI:   &poi.POI{ID: "off-line", Name: "off-line", Coordinate: geo.Coordinate{Lat: 36.4433, Lon: 127.4312}},
		Score: 9,
	}

	got := sel.Sequence([]sequence.Item{offLine, onLine})

	require.Len(t, got, 1)
	assert.Equal(t, "on-line", got[0].POI.ID)
	assert.Equal(t, 10, got[0].StationIndex)
}

func TestLineSelector_FallbackWhenNothingReachesTheLine(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{MaxStops: 2}, sequence.DefaultLine())

	far := geo.Coordinate{Lat: 36.4433, Lon: 127.4312}
	items := []sequence.Item{
		{POI: &poi.POI{ID: "low", Coordinate: far}, Score: 1},
		{POI: &poi.POI{ID: "high", Coordinate: far}, Score: 9},
		{POI: &poi.POI{ID: "mid", Coordinate: far}, Score: 5},
	}

	got := sel.Sequence(items)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"high", "mid"}, placedIDs(got))
	for _, p := range got {
		assert.Equal(t, -1, p.StationIndex, "fallback results carry no station")
	}
}

func TestLineSelector_Station(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine())

	st, ok := sel.Station(3)
	require.True(t, ok)
	assert.Equal(t, "대전역", st.Name)

	_, ok = sel.Station(-1)
	assert.False(t, ok)
	_, ok = sel.Station(99)
	assert.False(t, ok)
}

func TestLineSelector_Empty(t *testing.T) {
	sel := sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine())
	assert.Nil(t, sel.Sequence(nil))
}
