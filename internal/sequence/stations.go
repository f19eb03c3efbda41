package sequence

import "github.com/tastetrail/tastetrail/internal/geo"

// DefaultLine returns Daejeon Metro Line 1 in travel order, Panam to
// Banseok. Coordinates are station entrances, good enough for
// nearest-station assignment.
func DefaultLine() Line {
	return Line{
		Name: "대전 도시철도 1호선",
		Stations: []Station{
			{Name: "판암", Coordinate: geo.Coordinate{Lat: 36.3178, Lon: 127.4585}},
			{Name: "신흥", Coordinate: geo.Coordinate{Lat: 36.3217, Lon: 127.4470}},
			{Name: "대동", Coordinate: geo.Coordinate{Lat: 36.3254, Lon: 127.4396}},
			{Name: "대전역", Coordinate: geo.Coordinate{Lat: 36.3315, Lon: 127.4341}},
			{Name: "중앙로", Coordinate: geo.Coordinate{Lat: 36.3285, Lon: 127.4255}},
			{Name: "중구청", Coordinate: geo.Coordinate{Lat: 36.3252, Lon: 127.4189}},
			{Name: "서대전네거리", Coordinate: geo.Coordinate{Lat: 36.3222, Lon: 127.4097}},
			{Name: "오룡", Coordinate: geo.Coordinate{Lat: 36.3258, Lon: 127.4013}},
			{Name: "용문", Coordinate: geo.Coordinate{Lat: 36.3312, Lon: 127.3923}},
			{Name: "탄방", Coordinate: geo.Coordinate{Lat: 36.3352, Lon: 127.3851}},
			{Name: "시청", Coordinate: geo.Coordinate{Lat: 36.3395, Lon: 127.3780}},
			{Name: "정부청사", Coordinate: geo.Coordinate{Lat: 36.3447, Lon: 127.3706}},
			{Name: "갈마", Coordinate: geo.Coordinate{Lat: 36.3493, Lon: 127.3639}},
			{Name: "월평", Coordinate: geo.Coordinate{Lat: 36.3544, Lon: 127.3572}},
			{Name: "갑천", Coordinate: geo.Coordinate{Lat: 36.3575, Lon: 127.3479}},
			{Name: "유성온천", Coordinate: geo.Coordinate{Lat: 36.3540, Lon: 127.3413}},
			{Name: "구암", Coordinate: geo.Coordinate{Lat: 36.3585, Lon: 127.3305}},
			{Name: "현충원", Coordinate: geo.Coordinate{Lat: 36.3640, Lon: 127.3211}},
			{Name: "월드컵경기장", Coordinate: geo.Coordinate{Lat: 36.3686, Lon: 127.3194}},
			{Name: "노은", Coordinate: geo.Coordinate{Lat: 36.3748, Lon: 127.3179}},
			{Name: "지족", Coordinate: geo.Coordinate{Lat: 36.3824, Lon: 127.3146}},
			{Name: "반석", Coordinate: geo.Coordinate{Lat: 36.3920, Lon: 127.3119}},
		},
	}
}
