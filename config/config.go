package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Coverage area (Cali). Geocoded points outside it are rejected.
const COVERAGE_SW_LAT = 3.273336759797639
const COVERAGE_SW_LNG = -76.70717563811434
const COVERAGE_NE_LAT = 3.5485267251372963
const COVERAGE_NE_LNG = -76.45883778721213

// Map defaults
const MAP_CENTER_LAT = 3.413568
const MAP_CENTER_LNG = -76.519832
const MAP_INITIAL_ZOOM = 12
const MAP_SEARCH_ZOOM = 18

// Markers are hidden at or below this zoom level.
const MARKER_ZOOM_THRESHOLD = 16

const NODE_CIRCLE_RADIUS_METERS = 120
const CENTER_CIRCLE_RADIUS_METERS = 2.5

// Appended to every address before geocoding to avoid ambiguous global matches.
const ADDRESS_LOCALITY_SUFFIX = " Cali Colombia"
const GEOCODER_COUNTRY_CODE = "co"

// Session storage key holding the selected pole.
const SESSION_NODE_TO_REPORT_KEY = "nodeToReport"

const CSRF_COOKIE_NAME = "csrftoken"
const CSRF_HEADER_NAME = "X-CSRFToken"
const PORTAL_SESSION_COOKIE = "pqr_session"

// PQR backend paths
const PQR_CREATE_PAGE_PATH = "/pqr/crear/"
const PQR_SEARCH_PAGE_PATH = "/pqr/search/"
const PQR_VALIDATE_NODE_PATH = "/pqr/api/validateNode/"
const PQR_CREATE_API_PATH = "/pqr/api/create/"
const NODES_BY_PAINTING_CODE_PATH_FORMAT = "/infrastructure/searchNodesByPaintingCode/%s/"
const NODES_IN_AREA_PATH = "/infrastructure/searchNodesInArea/"
const PQR_LIST_PATH_FORMAT = "/pqr/%s/"
const PASSWORD_RECOVERY_PATH = "/login/recovery/"
const PASSWORD_CHANGE_PATH_FORMAT = "/login/change_password/%s/"

// Marker icons served by the backend
const NODE_MARKER_ICON = "/static/img/markers/nodemarker.png"
const NODE_AREA_MARKER_ICON = "/static/img/markers/node.png"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const NODES_FIXTURE_RESOURCE = "nodes.json"
const DAMAGE_OPTIONS_FIXTURE_RESOURCE = "damage_options.json"
const ADDRESSES_FIXTURE_RESOURCE = "addresses.json"

const CONFIG_FILE_NAME = "pqr_portal.cfg.json"

// Load sets defaults and reads the optional JSON config file from configDir.
// Environment variables prefixed with PQR_ override both (e.g. PQR_BACKEND_BASEURL).
func Load(configDir string) error {
	viper.SetDefault("env", "prod")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.shutdownTimeout", "5s")

	viper.SetDefault("backend.baseUrl", "http://localhost:8000")
	viper.SetDefault("backend.timeout", "10s")
	viper.SetDefault("backend.createPath", PQR_CREATE_PAGE_PATH)

	viper.SetDefault("geocoder.baseUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoder.userAgent", "pqr-portal/1.0")
	viper.SetDefault("geocoder.timeout", "10s")

	viper.SetDefault("redis.address", "redis:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("session.ttl", "2h")
	viper.SetDefault("session.sweepInterval", "10m")

	viper.SetEnvPrefix("PQR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(CONFIG_FILE_NAME)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
