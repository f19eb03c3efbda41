package poi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// koreanWeekdays maps weekday index (0=Monday) to the dataset's weekday key
// used by the wait-prediction table.
var koreanWeekdays = [7]string{
	"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일",
}

// flexFloat decodes a JSON number that may arrive as a number, a numeric
// string, or a string with thousands separators. Undecodable values become
// zero rather than failing the whole dataset load.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Float64(); err == nil {
			*f = flexFloat(v)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = flexFloat(v)
		}
	}
	return nil
}

// flexInt is flexFloat truncated to an int.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = flexInt(int(f))
	return nil
}

// datasetRecord mirrors one entry of the source dataset.
type datasetRecord struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug_en"`
	Latitude    flexFloat `json:"latitude"`
	Longitude   flexFloat `json:"longitude"`
	Rating      flexFloat `json:"rating"`
	RoadAddress string    `json:"road_address"`
	District    string    `json:"district"`

	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`

	ReviewKeywords []struct {
		Keyword string  `json:"keyword"`
		Count   flexInt `json:"count"`
	} `json:"review_keywords"`

	KeywordDetails struct {
		FinalKeywords []string `json:"final_keywords"`
		KeywordStats  map[string]struct {
			PosCount flexInt `json:"pos_count"`
		} `json:"keyword_stats"`
	} `json:"keyword_details"`

	WaitingPrediction *struct {
		Predictions map[string]struct {
			PredictedWaitMinutes flexFloat `json:"predicted_wait_minutes"`
			ByTime               map[string]struct {
				PredictedWaitMinutes flexFloat `json:"predicted_wait_minutes"`
			} `json:"by_time"`
		} `json:"predictions"`
		OverallStats struct {
			AverageMinutes flexFloat `json:"average_minutes"`
		} `json:"overall_stats"`
	} `json:"waiting_prediction"`
}

// toPOI converts a dataset record into the domain model. Records without a
// usable identifier return nil.
func (r *datasetRecord) toPOI() *POI {
	id := r.Slug
	if id == "" {
		id = r.Name
	}
	if id == "" {
		return nil
	}

	name := r.Name
	if name == "" {
		name = r.Slug
	}

	p := &POI{
		ID:          id,
		Name:        name,
		Rating:      normalizeRating(float64(r.Rating)),
		RoadAddress: r.RoadAddress,
		District:    r.District,
	}

	p.Coordinate.Lat = float64(r.Latitude)
	p.Coordinate.Lon = float64(r.Longitude)

	p.Hours = ParseWeeklyHours([7]string{
		r.Monday, r.Tuesday, r.Wednesday, r.Thursday, r.Friday, r.Saturday, r.Sunday,
	})

	for _, rk := range r.ReviewKeywords {
		if rk.Keyword == "" {
			continue
		}
		p.ReviewKeywords = append(p.ReviewKeywords, ReviewKeyword{
			Keyword: rk.Keyword,
			Count:   int(rk.Count),
		})
	}

	p.Keywords = r.KeywordDetails.FinalKeywords
	if len(r.KeywordDetails.KeywordStats) > 0 {
		p.KeywordStats = make(map[string]int, len(r.KeywordDetails.KeywordStats))
		for kw, stat := range r.KeywordDetails.KeywordStats {
			p.KeywordStats[kw] = int(stat.PosCount)
		}
	}

	if wp := r.WaitingPrediction; wp != nil {
		pred := &WaitPrediction{
			OverallAvgMinutes: float64(wp.OverallStats.AverageMinutes),
		}
		hasAny := pred.OverallAvgMinutes > 0
		for idx, weekday := range koreanWeekdays {
			day, ok := wp.Predictions[weekday]
			if !ok {
				continue
			}
			dw := &DayWait{AvgMinutes: float64(day.PredictedWaitMinutes)}
			if band, ok := day.ByTime["lunch"]; ok {
				dw.LunchMinutes = float64(band.PredictedWaitMinutes)
			}
			if band, ok := day.ByTime["dinner"]; ok {
				dw.DinnerMinutes = float64(band.PredictedWaitMinutes)
			}
			pred.Days[idx] = dw
			hasAny = true
		}
		if hasAny {
			p.WaitPrediction = pred
		}
	}

	return p
}

// normalizeRating maps the dataset's combined 0-10 rating onto the internal
// 0-5 scale. Zero stays zero (unknown).
func normalizeRating(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	if raw > 5 {
		return raw / 2
	}
	return raw
}

// DecodeDataset parses a JSON array of dataset records into POIs, skipping
// records without an identifier.
func DecodeDataset(data []byte) ([]*POI, error) {
	var records []datasetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	pois := make([]*POI, 0, len(records))
	for i := range records {
		if p := records[i].toPOI(); p != nil {
			pois = append(pois, p)
		}
	}
	return pois, nil
}
