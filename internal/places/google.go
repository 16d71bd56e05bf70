package places

import (
	"context"
	"fmt"
	"math"

	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"googlemaps.github.io/maps"
)

// Google Places не принимает радиус больше 50 км
const maxSearchRadiusMeters = 50000

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskGeometryLocation,
	maps.PlaceDetailsFieldMaskRatings,
}

// GoogleClient ищет места и геокодирует адреса через Google Maps Platform
type GoogleClient struct {
	client *maps.Client
}

func NewGoogleClient(apiKey string, opts ...maps.ClientOption) (*GoogleClient, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	return &GoogleClient{client: client}, nil
}

// SearchCategory возвращает id мест категории внутри прямоугольника
func (g *GoogleClient) SearchCategory(ctx context.Context, bounds models.Bounds, category string) ([]string, error) {
	center := models.Coordinate{
		Latitude:  (bounds.SouthWest.Latitude + bounds.NorthEast.Latitude) / 2,
		Longitude: (bounds.SouthWest.Longitude + bounds.NorthEast.Longitude) / 2,
	}
	radius := math.Min(service.Distance(center, bounds.NorthEast), maxSearchRadiusMeters)

	resp, err := g.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Latitude, Lng: center.Longitude},
		Radius:   uint(math.Ceil(radius)),
		Type:     maps.PlaceType(category),
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search for %s: %w", category, err)
	}

	ids := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		loc := models.Coordinate{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng}
		if bounds.Contains(loc) {
			ids = append(ids, r.PlaceID)
		}
	}
	return ids, nil
}

// PlaceDetails загружает имя, координаты и рейтинг места
func (g *GoogleClient) PlaceDetails(ctx context.Context, placeID string) (*service.PlaceDetails, error) {
	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  detailFields,
	})
	if err != nil {
		return nil, fmt.Errorf("place details for %s: %w", placeID, err)
	}

	details := &service.PlaceDetails{
		ID:   resp.PlaceID,
		Name: resp.Name,
		Location: models.Coordinate{
			Latitude:  resp.Geometry.Location.Lat,
			Longitude: resp.Geometry.Location.Lng,
		},
	}
	if details.ID == "" {
		details.ID = placeID
	}
	if resp.Rating > 0 {
		rating := float64(resp.Rating)
		details.Rating = &rating
	}
	return details, nil
}

// Geocode переводит адрес в список возможных координат
func (g *GoogleClient) Geocode(ctx context.Context, address string) ([]models.Coordinate, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	coords := make([]models.Coordinate, 0, len(results))
	for _, r := range results {
		coords = append(coords, models.Coordinate{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})
	}
	return coords, nil
}
