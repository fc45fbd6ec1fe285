package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/config"
	"pqr-portal/dao/redis"
	"pqr-portal/db"
	"pqr-portal/models"
	"pqr-portal/server/handlers"
	services "pqr-portal/service"
)

var testNodes = []models.Node{
	{PK: 101, PaintingCode: 1234567, Comuna: "Comuna 2", District: "San Fernando", Lat: 3.4300, Lng: -76.5400},
	{PK: 201, PaintingCode: 7654321, Comuna: "Comuna 19", District: "El Lido", Lat: 3.4100, Lng: -76.5500},
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	redisClient := db.NewMockRedisClient(context.Background())
	sessionDao := redis.NewRedisSessionDAO(redisClient, time.Hour)
	pqrAPI := pqr.NewPqrApiClientMock(testNodes, models.DamageOptions{
		TypeDamage: []models.Option{{ID: 1, Name: "Luminaria apagada"}},
		Origin:     []models.Option{{ID: 1, Name: "Vandalismo"}},
	})
	pqrAPI.AddRecoveryToken("tok-1", "ciudadano")
	geocoder := geocoding.NewGeocoderMock(map[string]geocoding.GeocodeResult{
		"Carrera 38 # 5-20 Cali Colombia": {Lat: 3.4301, Lng: -76.5401, FormattedAddress: "Carrera 38 #5-20"},
		"Bogota Cali Colombia":            {Lat: 4.7110, Lng: -74.0721, FormattedAddress: "Bogotá"},
	})
	coverage := models.NewBoundingBox(config.COVERAGE_SW_LAT, config.COVERAGE_SW_LNG, config.COVERAGE_NE_LAT, config.COVERAGE_NE_LNG)

	sessions := services.NewWizardSessionService(sessionDao, pqrAPI, geocoder, coverage)
	muxRouter := mux.NewRouter()
	router := NewRouter(
		handlers.NewWizardHandler(sessions, coverage),
		handlers.NewPqrHandler(services.NewPqrListService(pqrAPI)),
		handlers.NewPasswordHandler(services.NewPasswordService(pqrAPI)),
		handlers.NewHealthHandler(redisClient),
		muxRouter,
	)
	router.RegisterRoutes()
	return muxRouter
}

// client replays the portal session cookie like a browser would.
type client struct {
	t      *testing.T
	router *mux.Router
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == config.PORTAL_SESSION_COOKIE {
			c.cookie = ck
		}
	}
	var decoded map[string]interface{}
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	}
	return rr, decoded
}

func TestRouter_RegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"Ping Route", "GET", "/ping", http.StatusOK},
		{"Open Wizard", "POST", "/v1/wizard", http.StatusOK},
		{"State Without Session", "GET", "/v1/wizard", http.StatusNotFound},
		{"Search Without Session", "POST", "/v1/wizard/search/code", http.StatusNotFound},
		{"Map Without Session", "GET", "/v1/wizard/map", http.StatusNotFound},
		{"List Received", "POST", "/v1/pqrs/recibidas", http.StatusOK},
		{"List Unknown Status", "POST", "/v1/pqrs/borradas", http.StatusNotFound},
		{"Recover Password", "POST", "/v1/password/recover", http.StatusBadRequest},
		{"Wrong Method", "GET", "/v1/wizard/submit", http.StatusMethodNotAllowed},
		{"Invalid Route", "GET", "/invalid", http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}
		})
	}
}

func TestRouter_WizardFlow(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t)}

	rr, body := c.do("POST", "/v1/wizard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, c.cookie)
	state := body["state"].(map[string]interface{})
	assert.Equal(t, float64(1), state["step"])
	assert.Equal(t, "painting_code", state["search_mode"])

	rr, body = c.do("POST", "/v1/wizard/search/code", `{"code":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "El código de pintado debe ser de 7 dígitos numéricos", body["msg"])

	rr, body = c.do("POST", "/v1/wizard/search/code", `{"code":"1111111"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "question", body["type"])
	assert.Equal(t, "Sin resultados", body["title"])

	rr, body = c.do("POST", "/v1/wizard/next", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "warning", body["type"])
	assert.Equal(t, "No se seleccionó ningún poste para reportar.", body["msg"])

	rr, _ = c.do("POST", "/v1/wizard/mode", `{"mode":"address"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, body = c.do("POST", "/v1/wizard/search/address", `{"address":"Bogota"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "La dirección está fuera del área de cobertura", body["msg"])

	rr, body = c.do("POST", "/v1/wizard/search/address", `{"address":"Carrera 38 # 5-20"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	markers := body["outcome"].(map[string]interface{})["markers"].([]interface{})
	require.Len(t, markers, 1)
	markerID := int(markers[0].(float64))

	rr, body = c.do("POST", "/v1/wizard/infowindow", `{"marker_id":`+itoa(markerID)+`}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "San Fernando", body["marker"].(map[string]interface{})["info_window"].(map[string]interface{})["district"])

	rr, _ = c.do("GET", "/v1/wizard/map", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1234567")

	rr, body = c.do("POST", "/v1/wizard/select", `{"marker_id":`+itoa(markerID)+`}`)
	require.Equal(t, http.StatusOK, rr.Code)
	state = body["state"].(map[string]interface{})
	assert.Equal(t, float64(2), state["step"])
	assert.Equal(t, "101", state["selection"])

	rr, body = c.do("GET", "/v1/wizard/options", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["typeDamage"], 1)

	rr, body = c.do("POST", "/v1/wizard/submit", `{"name":"Ana","observation":"No enciende"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Debe seleccionar el tipo de daño", body["msg"])

	rr, body = c.do("POST", "/v1/wizard/submit", `{"name":"Ana","observation":"No enciende","typeDamage":"1","origin":"1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", body["type"])
	assert.Equal(t, "Se ha creado la PQR con número de radicado 2024000001", body["msg"])
	assert.Equal(t, "/pqr/search/", body["search_url"])

	rr, body = c.do("GET", "/v1/wizard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), body["state"].(map[string]interface{})["step"])

	rr, body = c.do("POST", "/v1/pqrs/recibidas", `{"op":"sort","value":"name"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["rows"], 1)
	assert.Equal(t, "Mostrando 1 a 1 de 1 registros", body["pagination"].(map[string]interface{})["info"])
}

func TestRouter_PasswordChange(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t)}

	rr, body := c.do("POST", "/v1/password/change/tok-1", `{"password":"a1","confirm_password":"a2"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Las contraseñas deben ser iguales", body["msg"])

	rr, body = c.do("POST", "/v1/password/change/tok-1", `{"password":"a1","confirm_password":"a1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", body["type"])

	rr, body = c.do("POST", "/v1/password/recover", `{"username":"ciudadano"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", body["type"])
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
