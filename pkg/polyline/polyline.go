// Package polyline implements Google's encoded polyline format at the
// standard 1e-5 precision, used to ship itinerary geometry to map
// clients.
package polyline

import "math"

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Encode encodes coordinates as a polyline string. An empty slice
// encodes to "".
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	out := make([]byte, 0, len(coords)*4)
	var prevLat, prevLon int
	for _, c := range coords {
		lat := int(math.Round(c.Lat * 1e5))
		lon := int(math.Round(c.Lon * 1e5))
		out = appendValue(out, lat-prevLat)
		out = appendValue(out, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(out)
}

// Decode decodes a polyline string. Truncated input yields the
// coordinates decoded so far.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	var lat, lon int
	for i := 0; i < len(encoded); {
		dLat, next := readValue(encoded, i)
		dLon, after := readValue(encoded, next)
		if after == next {
			break
		}
		i = after
		lat += dLat
		lon += dLon
		coords = append(coords, Coordinate{Lat: float64(lat) / 1e5, Lon: float64(lon) / 1e5})
	}
	return coords
}

// appendValue writes one zigzag-encoded delta in 5-bit chunks.
func appendValue(dst []byte, v int) []byte {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		dst = append(dst, byte((0x20|(u&0x1f))+63))
		u >>= 5
	}
	return append(dst, byte(u+63))
}

// readValue reads one delta starting at i and returns it with the index
// past its last byte.
func readValue(encoded string, i int) (int, int) {
	var result, shift int
	for i < len(encoded) {
		b := int(encoded[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}
