package services

import (
	"math"
	"testing"

	. "sitelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPoints generates calibration samples by applying a known similarity
// transform to model coordinates centered on the origin.
func buildPoints(scale, rotation, originLat, originLng float64, modelXY [][2]float64) []CalibrationPoint {
	a := scale * math.Cos(rotation)
	b := scale * math.Sin(rotation)

	points := make([]CalibrationPoint, len(modelXY))
	for i, xy := range modelXY {
		e := a*xy[0] - b*xy[1]
		n := b*xy[0] + a*xy[1]

		lat, lng := unprojectFromPlane(e, n, originLat, originLng)
		points[i] = CalibrationPoint{
			ModelX:    xy[0],
			ModelY:    xy[1],
			Latitude:  lat,
			Longitude: lng,
			IsEnabled: true,
		}
	}
	return points
}

func TestFitRecoversKnownTransform(t *testing.T) {
	service := NewCalibrationService()

	scale := 0.001 // model in millimeters
	rotation := 0.35
	originLat := 59.437
	originLng := 24.7536

	// Model footprint roughly 120 x 80 meters, centered at zero
	modelXY := [][2]float64{
		{-60000, -40000},
		{60000, -40000},
		{60000, 40000},
		{-60000, 40000},
		{0, 0},
	}

	result, err := service.Fit(buildPoints(scale, rotation, originLat, originLng, modelXY))
	require.NoError(t, err)

	assert.Equal(t, 5, result.PointCount)
	assert.InDelta(t, scale, result.Transform.Scale(), 1e-9)
	assert.InDelta(t, rotation, result.Transform.Rotation(), 1e-9)
	assert.InDelta(t, originLat, result.Transform.OriginLat, 1e-9)
	assert.InDelta(t, originLng, result.Transform.OriginLng, 1e-9)
	assert.Less(t, result.RMSEMeters, 0.001)
	assert.Len(t, result.Residuals, 5)
}

func TestFitSkipsDisabledPoints(t *testing.T) {
	service := NewCalibrationService()

	points := buildPoints(1.0, 0, 59.437, 24.7536, [][2]float64{
		{0, 0}, {100, 0}, {100, 100}, {0, 100},
	})

	// A wildly wrong disabled sample must not influence the fit
	points = append(points, CalibrationPoint{
		ModelX:    5000,
		ModelY:    5000,
		Latitude:  10.0,
		Longitude: 10.0,
		IsEnabled: false,
	})

	result, err := service.Fit(points)
	require.NoError(t, err)

	assert.Equal(t, 4, result.PointCount)
	assert.InDelta(t, 1.0, result.Transform.Scale(), 1e-4)
	assert.Less(t, result.RMSEMeters, 0.01)
}

func TestFitInsufficientPoints(t *testing.T) {
	service := NewCalibrationService()

	tests := []struct {
		name   string
		points []CalibrationPoint
	}{
		{name: "empty", points: nil},
		{
			name: "single point",
			points: []CalibrationPoint{
				{ModelX: 1, ModelY: 1, Latitude: 59.4, Longitude: 24.7, IsEnabled: true},
			},
		},
		{
			name: "two points but one disabled",
			points: []CalibrationPoint{
				{ModelX: 0, ModelY: 0, Latitude: 59.4, Longitude: 24.7, IsEnabled: true},
				{ModelX: 100, ModelY: 0, Latitude: 59.41, Longitude: 24.7, IsEnabled: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Fit(tt.points)
			assert.ErrorIs(t, err, ErrInsufficientPoints)
		})
	}
}

func TestFitCoincidentModelPoints(t *testing.T) {
	service := NewCalibrationService()

	points := []CalibrationPoint{
		{ModelX: 50, ModelY: 50, Latitude: 59.437, Longitude: 24.7536, IsEnabled: true},
		{ModelX: 50, ModelY: 50, Latitude: 59.438, Longitude: 24.7540, IsEnabled: true},
	}

	_, err := service.Fit(points)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestModelToGPSRoundTrip(t *testing.T) {
	service := NewCalibrationService()

	points := buildPoints(1.0, 0.25, 59.437, 24.7536, [][2]float64{
		{-80, -50}, {80, -50}, {80, 50}, {-80, 50},
	})

	result, err := service.Fit(points)
	require.NoError(t, err)

	x, y := 37.5, -12.25
	lat, lng := service.ModelToGPS(result.Transform, x, y)

	gotX, gotY, err := service.GPSToModel(result.Transform, lat, lng)
	require.NoError(t, err)

	assert.InDelta(t, x, gotX, 1e-6)
	assert.InDelta(t, y, gotY, 1e-6)
}

func TestGPSToModelDegenerateTransform(t *testing.T) {
	service := NewCalibrationService()

	_, _, err := service.GPSToModel(Transform{}, 59.437, 24.7536)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestTransformFromSetting(t *testing.T) {
	setting := &CoordinateSetting{
		Scale:       2.0,
		RotationRad: math.Pi / 6,
		TranslateE:  120.5,
		TranslateN:  -42.0,
		OriginLat:   59.437,
		OriginLng:   24.7536,
	}

	transform := TransformFromSetting(setting)

	assert.InDelta(t, 2.0, transform.Scale(), 1e-12)
	assert.InDelta(t, math.Pi/6, transform.Rotation(), 1e-12)
	assert.Equal(t, 120.5, transform.TranslateE)
	assert.Equal(t, -42.0, transform.TranslateN)
}
