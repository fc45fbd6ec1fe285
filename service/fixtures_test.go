package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/config"
	"pqr-portal/dao/redis"
	"pqr-portal/db"
	"pqr-portal/models"
)

func testNodes(n int) []models.Node {
	nodes := make([]models.Node, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, models.Node{
			PK:           int64(i + 1),
			PaintingCode: int64(1000000 + i),
			Comuna:       "Comuna 2",
			District:     "San Fernando",
			Lat:          3.43 + float64(i)*0.01,
			Lng:          -76.54,
		})
	}
	return nodes
}

var testOptions = models.DamageOptions{
	TypeDamage: []models.Option{{ID: 1, Name: "Luminaria apagada"}},
	Origin:     []models.Option{{ID: 1, Name: "Vandalismo"}},
}

// seededAPI returns a mock backend holding n received complaints.
func seededAPI(n int) *pqr.PqrApiClientMock {
	api := pqr.NewPqrApiClientMock(testNodes(n), testOptions)
	for i := 0; i < n; i++ {
		form := url.Values{}
		form.Set("idNode", fmt.Sprint(i+1))
		form.Set("name", fmt.Sprintf("Ciudadano %02d", i+1))
		form.Set("observation", "Sin luz")
		form.Set("typeDamage", "1")
		form.Set("origin", "1")
		if _, err := api.CreatePqr(context.Background(), form); err != nil {
			panic(err)
		}
	}
	return api
}

func newSessionDao() (*redis.RedisSessionDAO, *db.MockRedisClient) {
	client := db.NewMockRedisClient(context.Background())
	return redis.NewRedisSessionDAO(client, time.Hour), client
}

func coverage() models.BoundingBox {
	return models.NewBoundingBox(config.COVERAGE_SW_LAT, config.COVERAGE_SW_LNG, config.COVERAGE_NE_LAT, config.COVERAGE_NE_LNG)
}

func newSessions(api pqr.PqrAPI) (*WizardSessionService, *redis.RedisSessionDAO) {
	dao, _ := newSessionDao()
	geo := geocoding.NewGeocoderMock(nil)
	return NewWizardSessionService(dao, api, geo, coverage()), dao
}
