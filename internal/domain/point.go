package domain

// Immutable geographic coordinates (latitude, longitude), WGS 84.
type Point struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (p Point) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// InRange reports whether the point lies within valid latitude/longitude bounds.
func (p Point) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
