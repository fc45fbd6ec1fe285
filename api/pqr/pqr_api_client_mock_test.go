package pqr

import (
	"context"
	"net/url"
	"testing"

	"pqr-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMock() *PqrApiClientMock {
	return NewPqrApiClientMock(
		[]models.Node{
			{PK: 1, PaintingCode: 1234567, Comuna: "Comuna 2", District: "Granada", Lat: 3.4550, Lng: -76.5330},
			{PK: 2, PaintingCode: 7654321, Comuna: "Comuna 3", District: "San Antonio", Lat: 3.4480, Lng: -76.5400},
		},
		models.DamageOptions{
			TypeDamage: []models.Option{{ID: 1, Name: "Luminaria apagada"}},
			Origin:     []models.Option{{ID: 1, Name: "Web"}},
		},
	)
}

func TestMock_SearchNodesByPaintingCode(t *testing.T) {
	m := fixtureMock()

	res, err := m.SearchNodesByPaintingCode(context.Background(), "1234567")
	require.NoError(t, err)
	require.True(t, res.IsOk())
	assert.Len(t, res.Value(), 1)

	res, err = m.SearchNodesByPaintingCode(context.Background(), "0")
	require.NoError(t, err)
	assert.False(t, res.IsOk())
}

func TestMock_SearchNodesInArea(t *testing.T) {
	m := fixtureMock()

	nodes, err := m.SearchNodesInArea(context.Background(), 3.4552, -76.5331)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, int64(1), nodes[0].PK)
}

func TestMock_CreateThenValidateRejectsReportedNode(t *testing.T) {
	m := fixtureMock()
	ctx := context.Background()

	res, err := m.ValidateNode(ctx, "1")
	require.NoError(t, err)
	require.True(t, res.IsOk())

	form := models.PqrReport{Name: "Ana", Observation: "Poste inclinado", TypeDamage: "1", Origin: "1"}.Form("1")
	created, err := m.CreatePqr(ctx, form)
	require.NoError(t, err)
	require.True(t, created.IsOk())
	assert.Contains(t, created.Message(), "2024000001")

	res, err = m.ValidateNode(ctx, "1")
	require.NoError(t, err)
	assert.False(t, res.IsOk())

	page, err := m.ListPqrs(ctx, models.PqrListQuery{Status: "recibidas", Limit: 10, OrderBy: "id", OrderDir: "asc"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Value().Total)
	assert.Equal(t, "Luminaria apagada", page.Value().Objects[0].TypeDamageName)
	assert.Equal(t, "Granada", page.Value().Objects[0].DistrictName)
}

func TestMock_CreateRequiresFields(t *testing.T) {
	m := fixtureMock()

	res, err := m.CreatePqr(context.Background(), url.Values{"idNode": {"1"}})
	require.NoError(t, err)
	assert.False(t, res.IsOk())
}

func TestMock_ChangePasswordConsumesToken(t *testing.T) {
	m := fixtureMock()
	m.AddRecoveryToken("tok", "ciudadano")
	ctx := context.Background()

	res, err := m.ChangePassword(ctx, "tok", "a-long-secret", "a-long-secret")
	require.NoError(t, err)
	assert.True(t, res.IsOk())

	res, err = m.ChangePassword(ctx, "tok", "a-long-secret", "a-long-secret")
	require.NoError(t, err)
	assert.False(t, res.IsOk())
}
