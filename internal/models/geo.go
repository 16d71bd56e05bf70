package models

// Coordinate - точка в градусах WGS84
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds - прямоугольная область поиска
type Bounds struct {
	SouthWest Coordinate `json:"south_west"`
	NorthEast Coordinate `json:"north_east"`
}

// Contains проверяет, попадает ли точка в область (границы включительно)
func (b Bounds) Contains(c Coordinate) bool {
	return c.Latitude >= b.SouthWest.Latitude && c.Latitude <= b.NorthEast.Latitude &&
		c.Longitude >= b.SouthWest.Longitude && c.Longitude <= b.NorthEast.Longitude
}
