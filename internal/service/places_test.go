package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/safewalk/internal/config"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/shenikar/safewalk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type placeMocks struct {
	searcher *mocks.MockPlaceSearcher
	geocoder *mocks.MockGeocoder
	cache    *mocks.MockPlaceCache
}

func newTestPlaceService(t *testing.T) (service.PlaceService, placeMocks) {
	ctrl := gomock.NewController(t)
	m := placeMocks{
		searcher: mocks.NewMockPlaceSearcher(ctrl),
		geocoder: mocks.NewMockGeocoder(ctrl),
		cache:    mocks.NewMockPlaceCache(ctrl),
	}
	cfg := &config.Config{
		PlacesDefaultRadius:     1500,
		PlacesCacheTTL:          5 * time.Minute,
		PlacesDetailConcurrency: 2,
	}
	return service.NewPlaceService(m.searcher, m.geocoder, m.cache, newTestLogger(), cfg), m
}

func offset(c models.Coordinate, dLat, dLon float64) models.Coordinate {
	return models.Coordinate{Latitude: c.Latitude + dLat, Longitude: c.Longitude + dLon}
}

func TestFindNearby_SortedAndFiltered(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()

	m.cache.EXPECT().GetPlaces(ctx, gomock.Any()).Return(nil, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "police").Return([]string{"p1", "p-far"}, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "hospital").Return([]string{"h1"}, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "pharmacy").Return(nil, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "fire_station").Return([]string{"f1"}, nil).Times(1)

	m.searcher.EXPECT().PlaceDetails(ctx, "p1").
		Return(&service.PlaceDetails{ID: "p1", Name: "Precinct", Location: offset(berlin, 0.008, 0)}, nil).Times(1)
	m.searcher.EXPECT().PlaceDetails(ctx, "p-far").
		Return(&service.PlaceDetails{ID: "p-far", Name: "Far Precinct", Location: offset(berlin, 0.5, 0)}, nil).Times(1)
	m.searcher.EXPECT().PlaceDetails(ctx, "h1").
		Return(&service.PlaceDetails{ID: "h1", Name: "Charite", Location: offset(berlin, 0.001, 0.001)}, nil).Times(1)
	m.searcher.EXPECT().PlaceDetails(ctx, "f1").
		Return(&service.PlaceDetails{ID: "f1", Name: "Station 1", Location: offset(berlin, 0, 0.004)}, nil).Times(1)

	m.cache.EXPECT().SetPlaces(ctx, gomock.Any(), gomock.Any(), 5*time.Minute).Return(nil).Times(1)

	result, err := svc.FindNearby(ctx, berlin, 1500)

	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Places, 3)
	assert.Equal(t, "h1", result.Places[0].ID)
	assert.Equal(t, "f1", result.Places[1].ID)
	assert.Equal(t, "p1", result.Places[2].ID)
	assert.Equal(t, "Fire Station", result.Places[1].Category)
	assert.Equal(t, "Police", result.Places[2].Category)
	for i := 1; i < len(result.Places); i++ {
		assert.LessOrEqual(t, result.Places[i-1].DistanceMeters, result.Places[i].DistanceMeters)
	}
}

func TestFindNearby_CategoryFailureReported(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()

	m.cache.EXPECT().GetPlaces(ctx, gomock.Any()).Return(nil, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "police").Return(nil, errors.New("quota exceeded")).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "hospital").Return([]string{"h1"}, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "pharmacy").Return(nil, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), "fire_station").Return(nil, nil).Times(1)
	m.searcher.EXPECT().PlaceDetails(ctx, "h1").
		Return(&service.PlaceDetails{ID: "h1", Name: "Charite", Location: berlin}, nil).Times(1)

	result, err := svc.FindNearby(ctx, berlin, 0)

	require.NoError(t, err)
	require.Len(t, result.Places, 1)
	assert.Equal(t, "quota exceeded", result.Failures["police"])
	assert.Len(t, result.Failures, 1)
}

func TestFindNearby_DetailFailureDropsCandidate(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()

	m.cache.EXPECT().GetPlaces(ctx, gomock.Any()).Return(nil, nil).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), gomock.Any()).Return([]string{"x"}, nil).Times(4)
	m.searcher.EXPECT().PlaceDetails(ctx, "x").Return(nil, errors.New("timeout")).Times(4)
	m.cache.EXPECT().SetPlaces(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	result, err := svc.FindNearby(ctx, berlin, 1000)

	require.NoError(t, err)
	assert.Empty(t, result.Places)
}

func TestFindNearby_AllCategoriesFailed(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()

	m.cache.EXPECT().GetPlaces(ctx, gomock.Any()).Return(nil, errors.New("redis down")).Times(1)
	m.searcher.EXPECT().SearchCategory(ctx, gomock.Any(), gomock.Any()).Return(nil, errors.New("network")).Times(4)

	result, err := svc.FindNearby(ctx, berlin, 1000)

	assert.ErrorIs(t, err, service.ErrAllCategoriesFailed)
	assert.Nil(t, result)
}

func TestFindNearby_FromCacheRecomputesDistances(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()
	// Запрос из точки в ~10 м от округленного центра ключа кеша
	query := offset(berlin, 0.00004, 0.00004)
	far := &models.SafePlace{ID: "h1", Name: "Charite", Category: "Hospital", Location: offset(berlin, 0.004, 0), DistanceMeters: 100}
	near := &models.SafePlace{ID: "p1", Name: "Polizei", Category: "Police", Location: offset(berlin, 0.001, 0), DistanceMeters: 400}

	m.cache.EXPECT().GetPlaces(ctx, "places:52.5200:13.4050:1500").
		Return([]*models.SafePlace{far, near}, nil).Times(1)

	result, err := svc.FindNearby(ctx, query, 1500)

	require.NoError(t, err)
	require.Len(t, result.Places, 2)
	assert.Equal(t, "p1", result.Places[0].ID)
	assert.Equal(t, "h1", result.Places[1].ID)
	for _, p := range result.Places {
		assert.InDelta(t, service.Distance(query, p.Location), p.DistanceMeters, 1e-9)
	}
	assert.LessOrEqual(t, result.Places[0].DistanceMeters, result.Places[1].DistanceMeters)
}

func TestPlaceService_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{PlacesDefaultRadius: 1500, PlacesDetailConcurrency: 1}
	svc := service.NewPlaceService(nil, nil, mocks.NewMockPlaceCache(ctrl), newTestLogger(), cfg)

	_, err := svc.FindNearby(context.Background(), berlin, 0)
	assert.ErrorIs(t, err, service.ErrPlacesUnavailable)

	_, err = svc.Geocode(context.Background(), "Alexanderplatz")
	assert.ErrorIs(t, err, service.ErrPlacesUnavailable)
}

func TestBoundingBox_ShrinksWithRadius(t *testing.T) {
	prev := service.BoundingBox(berlin, 5000)
	for _, radius := range []float64{2000, 1000, 500, 100} {
		box := service.BoundingBox(berlin, radius)

		assert.Less(t, box.NorthEast.Latitude-box.SouthWest.Latitude, prev.NorthEast.Latitude-prev.SouthWest.Latitude)
		assert.Less(t, box.NorthEast.Longitude-box.SouthWest.Longitude, prev.NorthEast.Longitude-prev.SouthWest.Longitude)
		assert.True(t, box.Contains(berlin))
		prev = box
	}
}

func TestBoundingBox_DistanceWithinDiagonal(t *testing.T) {
	box := service.BoundingBox(berlin, 1500)
	diagonal := service.Distance(box.SouthWest, box.NorthEast)

	for _, p := range []models.Coordinate{box.SouthWest, box.NorthEast, offset(berlin, 0.005, -0.01), berlin} {
		require.True(t, box.Contains(p))
		assert.LessOrEqual(t, service.Distance(berlin, p), diagonal)
	}
}

func TestDistance(t *testing.T) {
	paris := models.Coordinate{Latitude: 48.8566, Longitude: 2.3522}

	assert.InDelta(t, 878000, service.Distance(berlin, paris), 5000)
	assert.Zero(t, service.Distance(berlin, berlin))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Fire Station", service.CategoryLabel("fire_station"))
	assert.Equal(t, "Police", service.CategoryLabel("police"))
}

func TestGeocode(t *testing.T) {
	svc, m := newTestPlaceService(t)
	ctx := context.Background()

	m.geocoder.EXPECT().Geocode(ctx, "Alexanderplatz").Return([]models.Coordinate{berlin}, nil).Times(1)
	m.geocoder.EXPECT().Geocode(ctx, "nowhere").Return(nil, nil).Times(1)

	location, err := svc.Geocode(ctx, "Alexanderplatz")
	require.NoError(t, err)
	assert.Equal(t, berlin, *location)

	_, err = svc.Geocode(ctx, "nowhere")
	assert.ErrorIs(t, err, service.ErrLocationNotFound)
}
