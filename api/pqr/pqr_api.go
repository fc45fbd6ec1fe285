package pqr

import (
	"context"
	"net/url"

	"pqr-portal/models"
)

// PqrAPI defines the interface for interacting with the PQR backend.
// Every call returns a decoded Result for backend-reported outcomes and a non-nil
// error only for transport or parse failures.
type PqrAPI interface {
	GetDamageOptions(ctx context.Context) (models.Result[models.DamageOptions], error)
	SearchNodesByPaintingCode(ctx context.Context, code string) (models.Result[[]models.Node], error)
	SearchNodesInArea(ctx context.Context, lat, lng float64) ([]models.Node, error)
	ValidateNode(ctx context.Context, nodeID string) (models.Result[models.Empty], error)
	CreatePqr(ctx context.Context, form url.Values) (models.Result[models.Empty], error)
	ListPqrs(ctx context.Context, query models.PqrListQuery) (models.Result[models.PqrListPage], error)
	RecoverPassword(ctx context.Context, username string) (models.Result[models.Empty], error)
	ChangePassword(ctx context.Context, token, password, confirm string) (models.Result[models.Empty], error)
	SearchPageURL() string
}
