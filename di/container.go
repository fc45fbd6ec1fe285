package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"pqr-portal/api"
	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/config"
	"pqr-portal/dao/redis"
	"pqr-portal/db"
	"pqr-portal/models"
	"pqr-portal/server"
	"pqr-portal/server/handlers"
	services "pqr-portal/service"
	"pqr-portal/util"
)

// ENV_DEV swaps redis, the PQR backend and the geocoder for in-memory fakes.
const ENV_DEV = "dev"

// Container holds all application dependencies.
type Container struct {
	RedisClient           db.RedisClient
	RedisSessionDao       *redis.RedisSessionDAO
	PqrAPI                pqr.PqrAPI
	Geocoder              geocoding.Geocoder
	WizardSessionService  *services.WizardSessionService
	PqrListService        *services.PqrListService
	PasswordService       *services.PasswordService
	SessionSweeperService *services.SessionSweeperService
	WizardHandler         *handlers.WizardHandler
	PqrHandler            *handlers.PqrHandler
	PasswordHandler       *handlers.PasswordHandler
	HealthHandler         *handlers.HealthHandler
	MuxRouter             *mux.Router
	Router                *server.Router
	PortalHttpServer      *server.PortalHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(env string) (*Container, error) {
	log.Info().Str("env", env).Msg("Initializing container")
	ctx := context.Background()

	var redisClient db.RedisClient
	var pqrAPI pqr.PqrAPI
	var geocoder geocoding.Geocoder

	if env == ENV_DEV {
		log.Info().Msg("Using mock redis, PQR backend and geocoder")
		redisClient = db.NewMockRedisClient(ctx)

		mockAPI, mockGeocoder, err := newDevBackends()
		if err != nil {
			return nil, err
		}
		pqrAPI = mockAPI
		geocoder = mockGeocoder
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     config.GetString("redis.address"),
			Password: config.GetString("redis.password"),
			DB:       config.GetInt("redis.db"),
		})
		sessionRedisClient := db.NewSessionRedisClient(ctx, redisInternalClient)
		if err := sessionRedisClient.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisClient = sessionRedisClient

		log.Info().Str("baseUrl", config.GetString("backend.baseUrl")).Msg("Using PQR backend")
		httpClient := api.NewHTTPClientWithTimeout(config.GetString("backend.baseUrl"), config.GetDuration("backend.timeout"))
		pqrAPI = pqr.NewPqrApiClient(httpClient, config.GetString("backend.createPath"))

		geocoder = geocoding.NewNominatimGeocoder(
			config.GetString("geocoder.baseUrl"),
			config.GetString("geocoder.userAgent"),
			config.GEOCODER_COUNTRY_CODE,
			config.GetDuration("geocoder.timeout"),
		)
	}

	coverage := models.NewBoundingBox(
		config.COVERAGE_SW_LAT, config.COVERAGE_SW_LNG,
		config.COVERAGE_NE_LAT, config.COVERAGE_NE_LNG,
	)
	coverage.MapZoom = config.MAP_INITIAL_ZOOM

	sessionTTL := config.GetDuration("session.ttl")
	redisSessionDao := redis.NewRedisSessionDAO(redisClient, sessionTTL)

	wizardSessionService := services.NewWizardSessionService(redisSessionDao, pqrAPI, geocoder, coverage)
	pqrListService := services.NewPqrListService(pqrAPI)
	passwordService := services.NewPasswordService(pqrAPI)
	sessionSweeperService := services.NewSessionSweeperService(wizardSessionService, redisSessionDao, sessionTTL)

	wizardHandler := handlers.NewWizardHandler(wizardSessionService, coverage)
	pqrHandler := handlers.NewPqrHandler(pqrListService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	healthHandler := handlers.NewHealthHandler(redisClient)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(wizardHandler, pqrHandler, passwordHandler, healthHandler, muxRouter)

	portalHttpServer := server.NewPortalHttpServer(
		router,
		muxRouter,
		config.GetString("server.address"),
		config.GetDuration("server.shutdownTimeout"),
	)

	return &Container{
		RedisClient:           redisClient,
		RedisSessionDao:       redisSessionDao,
		PqrAPI:                pqrAPI,
		Geocoder:              geocoder,
		WizardSessionService:  wizardSessionService,
		PqrListService:        pqrListService,
		PasswordService:       passwordService,
		SessionSweeperService: sessionSweeperService,
		WizardHandler:         wizardHandler,
		PqrHandler:            pqrHandler,
		PasswordHandler:       passwordHandler,
		HealthHandler:         healthHandler,
		MuxRouter:             muxRouter,
		Router:                router,
		PortalHttpServer:      portalHttpServer,
	}, nil
}

// newDevBackends builds the in-memory backend and geocoder from the resource fixtures.
func newDevBackends() (*pqr.PqrApiClientMock, *geocoding.GeocoderMock, error) {
	nodes, err := util.ReadNodesFromJSON(config.GetResourcePath(config.NODES_FIXTURE_RESOURCE))
	if err != nil {
		return nil, nil, err
	}
	options, err := util.ReadDamageOptionsFromJSON(config.GetResourcePath(config.DAMAGE_OPTIONS_FIXTURE_RESOURCE))
	if err != nil {
		return nil, nil, err
	}
	addresses, err := util.ReadAddressesFromJSON(config.GetResourcePath(config.ADDRESSES_FIXTURE_RESOURCE))
	if err != nil {
		return nil, nil, err
	}
	return pqr.NewPqrApiClientMock(nodes, *options), geocoding.NewGeocoderMock(addresses), nil
}
