package polyline

import (
	"math"
	"testing"
)

// coordsEqual checks if two coordinates are equal within a tolerance.
func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func TestDecode_GoogleExample(t *testing.T) {
	// The worked example from Google's polyline documentation.
	got := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	want := []Coordinate{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d coordinates, got %d", len(want), len(got))
	}
	for i := range got {
		if !coordsEqual(got[i], want[i], 0.00001) {
			t.Errorf("coordinate %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestDecode_EmptyString(t *testing.T) {
	if got := Decode(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		coords []Coordinate
	}{
		{
			name:   "single point",
			coords: []Coordinate{{Lat: 36.3315, Lon: 127.4341}},
		},
		{
			name: "Daejeon station to city hall",
			coords: []Coordinate{
				{Lat: 36.3315, Lon: 127.4341},
				{Lat: 36.3395, Lon: 127.3780},
			},
		},
		{
			name: "negative hemisphere deltas",
			coords: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.coords)
			if encoded == "" {
				t.Fatal("expected non-empty encoded string")
			}

			decoded := Decode(encoded)
			if len(decoded) != len(tt.coords) {
				t.Fatalf("round-trip: expected %d coordinates, got %d", len(tt.coords), len(decoded))
			}
			for i := range decoded {
				// 5 decimal places of precision survive the round trip.
				if !coordsEqual(decoded[i], tt.coords[i], 0.00001) {
					t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, tt.coords[i], decoded[i])
				}
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("expected empty string for nil coordinates, got %q", got)
	}
	if got := Encode([]Coordinate{}); got != "" {
		t.Errorf("expected empty string for empty coordinates, got %q", got)
	}
}

func BenchmarkEncode(b *testing.B) {
	coords := []Coordinate{
		{Lat: 36.3315, Lon: 127.4341},
		{Lat: 36.3395, Lon: 127.3780},
		{Lat: 36.3540, Lon: 127.3413},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(coords)
	}
}

func BenchmarkDecode(b *testing.B) {
	encoded := Encode([]Coordinate{
		{Lat: 36.3315, Lon: 127.4341},
		{Lat: 36.3395, Lon: 127.3780},
		{Lat: 36.3540, Lon: 127.3413},
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(encoded)
	}
}
