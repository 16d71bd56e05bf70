package models

// SafePlace - безопасное место рядом с пользователем, не сохраняется
type SafePlace struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Location       Coordinate `json:"location"`
	DistanceMeters float64    `json:"distance_meters"`
	Rating         *float64   `json:"rating,omitempty"`
}

// NearbyPlaces - результат поиска: места по возрастанию расстояния и ошибки по категориям
type NearbyPlaces struct {
	Places   []*SafePlace      `json:"places"`
	Failures map[string]string `json:"failures,omitempty"`
}
