package services

import (
	"errors"
	"math"

	"sitelog/internal/logger"
	. "sitelog/internal/models"

	"github.com/umahmood/haversine"
)

var (
	ErrInsufficientPoints = errors.New("at least two enabled calibration points are required")
	ErrDegenerateGeometry = errors.New("calibration points are coincident in model space")
)

// earthRadiusMeters is the WGS84 equatorial radius used for the local
// tangent plane projection.
const earthRadiusMeters = 6378137.0

// Transform is a fitted 2D similarity (Helmert) transform between model
// space and a local east/north tangent plane anchored at Origin.
type Transform struct {
	// A and B are the rotation/scale parameters: E = A*x - B*y + TranslateE
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	TranslateE float64 `json:"translateE"`
	TranslateN float64 `json:"translateN"`
	OriginLat  float64 `json:"originLat"`
	OriginLng  float64 `json:"originLng"`
}

// Rotation returns the fitted rotation in radians
func (t Transform) Rotation() float64 {
	return math.Atan2(t.B, t.A)
}

// Scale returns the fitted scale factor (target meters per model unit)
func (t Transform) Scale() float64 {
	return math.Hypot(t.A, t.B)
}

// PointResidual is the per-point fit error in meters
type PointResidual struct {
	PointID string  `json:"pointId"`
	Label   string  `json:"label"`
	Meters  float64 `json:"meters"`
}

// FitResult is the outcome of a recalibration
type FitResult struct {
	Transform  Transform       `json:"transform"`
	RMSEMeters float64         `json:"rmseMeters"`
	PointCount int             `json:"pointCount"`
	Residuals  []PointResidual `json:"residuals"`
}

// CalibrationService fits and applies the model-to-GPS similarity transform
type CalibrationService struct {
	log logger.Logger
}

func NewCalibrationService() *CalibrationService {
	return &CalibrationService{
		log: logger.New("calibrationService"),
	}
}

// Fit estimates the similarity transform from the enabled calibration
// points by least squares. Disabled points are ignored. Z is not part of
// the fit; the transform is planar.
func (s *CalibrationService) Fit(points []CalibrationPoint) (*FitResult, error) {
	log := s.log.Function("Fit")

	enabled := make([]CalibrationPoint, 0, len(points))
	for _, p := range points {
		if p.IsEnabled {
			enabled = append(enabled, p)
		}
	}

	if len(enabled) < 2 {
		return nil, ErrInsufficientPoints
	}

	// Anchor the tangent plane at the GPS centroid
	var originLat, originLng float64
	for _, p := range enabled {
		originLat += p.Latitude
		originLng += p.Longitude
	}
	originLat /= float64(len(enabled))
	originLng /= float64(len(enabled))

	type planar struct{ x, y, e, n float64 }
	samples := make([]planar, len(enabled))
	for i, p := range enabled {
		e, n := projectToPlane(p.Latitude, p.Longitude, originLat, originLng)
		samples[i] = planar{x: p.ModelX, y: p.ModelY, e: e, n: n}
	}

	// Centered least squares for E = a*x - b*y + tE, N = b*x + a*y + tN
	var meanX, meanY, meanE, meanN float64
	for _, s := range samples {
		meanX += s.x
		meanY += s.y
		meanE += s.e
		meanN += s.n
	}
	count := float64(len(samples))
	meanX /= count
	meanY /= count
	meanE /= count
	meanN /= count

	var numA, numB, denom float64
	for _, s := range samples {
		u := s.x - meanX
		v := s.y - meanY
		e := s.e - meanE
		n := s.n - meanN

		numA += u*e + v*n
		numB += u*n - v*e
		denom += u*u + v*v
	}

	if denom == 0 {
		return nil, ErrDegenerateGeometry
	}

	a := numA / denom
	b := numB / denom

	transform := Transform{
		A:          a,
		B:          b,
		TranslateE: meanE - a*meanX + b*meanY,
		TranslateN: meanN - b*meanX - a*meanY,
		OriginLat:  originLat,
		OriginLng:  originLng,
	}

	residuals := make([]PointResidual, len(enabled))
	var sumSquares float64
	for i, p := range enabled {
		lat, lng := s.ModelToGPS(transform, p.ModelX, p.ModelY)

		_, km := haversine.Distance(
			haversine.Coord{Lat: p.Latitude, Lon: p.Longitude},
			haversine.Coord{Lat: lat, Lon: lng},
		)
		meters := km * 1000

		residuals[i] = PointResidual{
			PointID: p.ID.String(),
			Label:   p.Label,
			Meters:  meters,
		}
		sumSquares += meters * meters
	}

	result := &FitResult{
		Transform:  transform,
		RMSEMeters: math.Sqrt(sumSquares / count),
		PointCount: len(enabled),
		Residuals:  residuals,
	}

	log.Info(
		"Transform fitted",
		"pointCount", result.PointCount,
		"scale", transform.Scale(),
		"rotationRad", transform.Rotation(),
		"rmseMeters", result.RMSEMeters,
	)

	return result, nil
}

// ModelToGPS applies the transform to a model coordinate
func (s *CalibrationService) ModelToGPS(t Transform, x, y float64) (lat, lng float64) {
	e := t.A*x - t.B*y + t.TranslateE
	n := t.B*x + t.A*y + t.TranslateN
	return unprojectFromPlane(e, n, t.OriginLat, t.OriginLng)
}

// GPSToModel inverts the transform for a GPS coordinate
func (s *CalibrationService) GPSToModel(t Transform, lat, lng float64) (x, y float64, err error) {
	scaleSq := t.A*t.A + t.B*t.B
	if scaleSq == 0 {
		return 0, 0, ErrDegenerateGeometry
	}

	e, n := projectToPlane(lat, lng, t.OriginLat, t.OriginLng)
	e -= t.TranslateE
	n -= t.TranslateN

	x = (t.A*e + t.B*n) / scaleSq
	y = (t.A*n - t.B*e) / scaleSq
	return x, y, nil
}

// TransformFromSetting rebuilds the fitted transform stored on a project
func TransformFromSetting(setting *CoordinateSetting) Transform {
	a := setting.Scale * math.Cos(setting.RotationRad)
	b := setting.Scale * math.Sin(setting.RotationRad)
	return Transform{
		A:          a,
		B:          b,
		TranslateE: setting.TranslateE,
		TranslateN: setting.TranslateN,
		OriginLat:  setting.OriginLat,
		OriginLng:  setting.OriginLng,
	}
}

// projectToPlane maps a GPS coordinate to east/north meters on the local
// tangent plane anchored at the origin.
func projectToPlane(lat, lng, originLat, originLng float64) (e, n float64) {
	latRad := lat * math.Pi / 180
	lngRad := lng * math.Pi / 180
	originLatRad := originLat * math.Pi / 180
	originLngRad := originLng * math.Pi / 180

	e = earthRadiusMeters * math.Cos(originLatRad) * (lngRad - originLngRad)
	n = earthRadiusMeters * (latRad - originLatRad)
	return e, n
}

func unprojectFromPlane(e, n, originLat, originLng float64) (lat, lng float64) {
	originLatRad := originLat * math.Pi / 180

	lat = originLat + (n/earthRadiusMeters)*180/math.Pi
	lng = originLng + (e/(earthRadiusMeters*math.Cos(originLatRad)))*180/math.Pi
	return lat, lng
}
