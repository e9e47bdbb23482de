package domain

// Point is a WGS84 coordinate reported by a device.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AreaPoint is one vertex of an area polygon. Key preserves the vertex
// ordering key assigned when the game master drew the area.
type AreaPoint struct {
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PointInArea reports whether p lies inside the polygon formed by the ordered
// vertices, using even-odd ray casting. Convex and simple non-convex polygons
// behave identically. Fewer than three vertices never contain a point.
func PointInArea(p Point, area []AreaPoint) bool {
	if len(area) < 3 {
		return false
	}
	inside := false
	j := len(area) - 1
	for i := 0; i < len(area); i++ {
		a, b := area[i], area[j]
		if (a.Latitude > p.Latitude) != (b.Latitude > p.Latitude) {
			crossing := (b.Longitude-a.Longitude)*(p.Latitude-a.Latitude)/(b.Latitude-a.Latitude) + a.Longitude
			if p.Longitude < crossing {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
