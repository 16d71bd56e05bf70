package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	kmPerDegreeLatitude  = 110.574
	kmPerDegreeLongitude = 111.320
	earthRadiusMeters    = 6371008.8
)

// PlaceCategories - категории безопасных мест в порядке опроса
var PlaceCategories = []string{"police", "hospital", "pharmacy", "fire_station"}

// PlaceDetails - подробности о месте из внешнего сервиса
type PlaceDetails struct {
	ID       string
	Name     string
	Location models.Coordinate
	Rating   *float64
}

// PlaceSearcher - внешний сервис поиска мест
type PlaceSearcher interface {
	SearchCategory(ctx context.Context, bounds models.Bounds, category string) ([]string, error)
	PlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// Geocoder переводит адрес в координаты
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]models.Coordinate, error)
}

// PlaceCache кеширует результаты поиска; промах возвращает nil, nil
type PlaceCache interface {
	GetPlaces(ctx context.Context, key string) ([]*models.SafePlace, error)
	SetPlaces(ctx context.Context, key string, places []*models.SafePlace, ttl time.Duration) error
}

// PlaceService определяет контракт поиска безопасных мест и геокодирования
type PlaceService interface {
	FindNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) (*models.NearbyPlaces, error)
	Geocode(ctx context.Context, address string) (*models.Coordinate, error)
}

type placeService struct {
	searcher PlaceSearcher
	geocoder Geocoder
	cache    PlaceCache
	logger   *logrus.Logger
	cfg      *config.Config
}

// NewPlaceService собирает сервис; nil searcher или geocoder означает, что поиск мест не настроен
func NewPlaceService(searcher PlaceSearcher, geocoder Geocoder, cache PlaceCache, logger *logrus.Logger, cfg *config.Config) PlaceService {
	return &placeService{
		searcher: searcher,
		geocoder: geocoder,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// FindNearby опрашивает каждую категорию независимо и сортирует места по расстоянию.
// Ошибка категории попадает в Failures; весь вызов падает, только если упали все категории.
func (s *placeService) FindNearby(ctx context.Context, center models.Coordinate, radiusMeters float64) (*models.NearbyPlaces, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.PlacesDefaultRadius
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "places",
		"method":  "FindNearby",
		"lat":     center.Latitude,
		"lon":     center.Longitude,
		"radius":  radiusMeters,
	})

	if s.searcher == nil {
		return nil, fmt.Errorf("service: could not find nearby places: %w", ErrPlacesUnavailable)
	}

	key := placesCacheKey(center, radiusMeters)
	cached, err := s.cache.GetPlaces(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Failed to read places cache")
	} else if cached != nil {
		// Ключ кеша округляет центр, поэтому расстояния считаются заново от точного центра
		for _, p := range cached {
			p.DistanceMeters = Distance(center, p.Location)
		}
		sortByDistance(cached)
		log.Debug("Places served from cache")
		return &models.NearbyPlaces{Places: cached}, nil
	}

	bounds := BoundingBox(center, radiusMeters)
	result := &models.NearbyPlaces{
		Places:   make([]*models.SafePlace, 0),
		Failures: make(map[string]string),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, category := range PlaceCategories {
		g.Go(func() error {
			places, err := s.searchCategory(ctx, log, center, bounds, category)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithError(err).WithField("category", category).Warn("Place category search failed")
				result.Failures[category] = err.Error()
				return nil
			}
			result.Places = append(result.Places, places...)
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Failures) == len(PlaceCategories) {
		log.Error("All place categories failed")
		return nil, fmt.Errorf("service: could not find nearby places: %w", ErrAllCategoriesFailed)
	}

	sortByDistance(result.Places)

	if len(result.Failures) == 0 {
		result.Failures = nil
		if err := s.cache.SetPlaces(ctx, key, result.Places, s.cfg.PlacesCacheTTL); err != nil {
			log.WithError(err).Warn("Failed to write places cache")
		}
	}

	log.WithField("count", len(result.Places)).Info("Nearby places found")
	return result, nil
}

func (s *placeService) searchCategory(ctx context.Context, log *logrus.Entry, center models.Coordinate, bounds models.Bounds, category string) ([]*models.SafePlace, error) {
	ids, err := s.searcher.SearchCategory(ctx, bounds, category)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		g      errgroup.Group
		places = make([]*models.SafePlace, 0, len(ids))
		seen   = make(map[string]struct{}, len(ids))
	)
	g.SetLimit(s.cfg.PlacesDetailConcurrency)

	label := CategoryLabel(category)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			details, err := s.searcher.PlaceDetails(ctx, id)
			if err != nil {
				log.WithError(err).WithField("place_id", id).Warn("Failed to fetch place details")
				return nil
			}
			if !bounds.Contains(details.Location) {
				return nil
			}

			mu.Lock()
			places = append(places, &models.SafePlace{
				ID:             details.ID,
				Name:           details.Name,
				Category:       label,
				Location:       details.Location,
				DistanceMeters: Distance(center, details.Location),
				Rating:         details.Rating,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return places, nil
}

// Geocode возвращает первую найденную точку по адресу
func (s *placeService) Geocode(ctx context.Context, address string) (*models.Coordinate, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "places",
		"method":  "Geocode",
	})

	if s.geocoder == nil {
		return nil, fmt.Errorf("service: could not geocode address: %w", ErrPlacesUnavailable)
	}

	results, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.WithError(err).Error("Geocoding failed")
		return nil, fmt.Errorf("service: could not geocode address: %w", err)
	}
	if len(results) == 0 {
		log.WithField("address", address).Info("Address not found")
		return nil, ErrLocationNotFound
	}
	return &results[0], nil
}

func sortByDistance(places []*models.SafePlace) {
	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceMeters < places[j].DistanceMeters
	})
}

// BoundingBox строит прямоугольник вокруг точки по приближенным длинам градуса
func BoundingBox(center models.Coordinate, radiusMeters float64) models.Bounds {
	latRad := center.Latitude * math.Pi / 180
	radiusKm := radiusMeters / 1000
	deltaLat := radiusKm / kmPerDegreeLatitude
	deltaLon := radiusKm / (kmPerDegreeLongitude * math.Cos(latRad))

	return models.Bounds{
		SouthWest: models.Coordinate{Latitude: center.Latitude - deltaLat, Longitude: center.Longitude - deltaLon},
		NorthEast: models.Coordinate{Latitude: center.Latitude + deltaLat, Longitude: center.Longitude + deltaLon},
	}
}

// Distance - расстояние по большому кругу в метрах
func Distance(from, to models.Coordinate) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// CategoryLabel: "fire_station" -> "Fire Station"
func CategoryLabel(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func placesCacheKey(center models.Coordinate, radiusMeters float64) string {
	return fmt.Sprintf("places:%.4f:%.4f:%.0f", center.Latitude, center.Longitude, radiusMeters)
}
