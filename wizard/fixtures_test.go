package wizard

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/config"
	redisdao "pqr-portal/dao/redis"
	"pqr-portal/db"
	"pqr-portal/models"
)

var testNodes = []models.Node{
	{PK: 101, PaintingCode: 1234567, Comuna: "Comuna 2", District: "San Fernando", Lat: 3.4300, Lng: -76.5400},
	{PK: 102, PaintingCode: 1234567, Comuna: "Comuna 2", District: "San Fernando", Lat: 3.4305, Lng: -76.5402},
	{PK: 201, PaintingCode: 7654321, Comuna: "Comuna 19", District: "El Lido", Lat: 3.4100, Lng: -76.5500},
}

var testOptions = models.DamageOptions{
	TypeDamage: []models.Option{{ID: 2, Name: "poste caído"}, {ID: 1, Name: "Luminaria apagada"}},
	Origin:     []models.Option{{ID: 1, Name: "Vandalismo"}, {ID: 2, Name: "accidente"}},
}

func coverage() models.BoundingBox {
	return models.NewBoundingBox(config.COVERAGE_SW_LAT, config.COVERAGE_SW_LNG, config.COVERAGE_NE_LAT, config.COVERAGE_NE_LNG)
}

func newStorage() SessionStorage {
	dao := redisdao.NewRedisSessionDAO(db.NewMockRedisClient(context.Background()), time.Hour)
	return dao.Scope("test-session")
}

func newGeocoder() *geocoding.GeocoderMock {
	return geocoding.NewGeocoderMock(map[string]geocoding.GeocodeResult{
		"Carrera 38 # 5-20 Cali Colombia": {Lat: 3.4301, Lng: -76.5401, FormattedAddress: "Carrera 38 #5-20, San Fernando, Cali"},
		"Calle 5 Cali Colombia":           {Lat: 3.4100, Lng: -76.5500, FormattedAddress: "Calle 5, El Lido, Cali"},
		"Bogota Cali Colombia":            {Lat: 4.7110, Lng: -74.0721, FormattedAddress: "Bogotá"},
	})
}

func newTestWizard() (*Wizard, *pqr.PqrApiClientMock, *geocoding.GeocoderMock) {
	api := pqr.NewPqrApiClientMock(testNodes, testOptions)
	geo := newGeocoder()
	w, err := New("test-session", api, geo, newStorage(), coverage(), zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return w, api, geo
}

// stubAPI lets a test control each backend call.
type stubAPI struct {
	mock.Mock
}

func (s *stubAPI) GetDamageOptions(ctx context.Context) (models.Result[models.DamageOptions], error) {
	args := s.Called(ctx)
	return args.Get(0).(models.Result[models.DamageOptions]), args.Error(1)
}

func (s *stubAPI) SearchNodesByPaintingCode(ctx context.Context, code string) (models.Result[[]models.Node], error) {
	args := s.Called(ctx, code)
	return args.Get(0).(models.Result[[]models.Node]), args.Error(1)
}

func (s *stubAPI) SearchNodesInArea(ctx context.Context, lat, lng float64) ([]models.Node, error) {
	args := s.Called(ctx, lat, lng)
	nodes, _ := args.Get(0).([]models.Node)
	return nodes, args.Error(1)
}

func (s *stubAPI) ValidateNode(ctx context.Context, nodeID string) (models.Result[models.Empty], error) {
	args := s.Called(ctx, nodeID)
	return args.Get(0).(models.Result[models.Empty]), args.Error(1)
}

func (s *stubAPI) CreatePqr(ctx context.Context, form url.Values) (models.Result[models.Empty], error) {
	args := s.Called(ctx, form)
	return args.Get(0).(models.Result[models.Empty]), args.Error(1)
}

func (s *stubAPI) ListPqrs(ctx context.Context, query models.PqrListQuery) (models.Result[models.PqrListPage], error) {
	args := s.Called(ctx, query)
	return args.Get(0).(models.Result[models.PqrListPage]), args.Error(1)
}

func (s *stubAPI) RecoverPassword(ctx context.Context, username string) (models.Result[models.Empty], error) {
	args := s.Called(ctx, username)
	return args.Get(0).(models.Result[models.Empty]), args.Error(1)
}

func (s *stubAPI) ChangePassword(ctx context.Context, token, password, confirm string) (models.Result[models.Empty], error) {
	args := s.Called(ctx, token, password, confirm)
	return args.Get(0).(models.Result[models.Empty]), args.Error(1)
}

func (s *stubAPI) SearchPageURL() string {
	return config.PQR_SEARCH_PAGE_PATH
}
