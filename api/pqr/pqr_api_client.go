package pqr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"pqr-portal/api"
	"pqr-portal/config"
	"pqr-portal/models"
)

// PqrApiClient embeds the common HTTPClient
type PqrApiClient struct {
	*api.HTTPClient
	createPath string
}

// NewPqrApiClient creates a new instance of PqrApiClient. createPath is the page whose
// POST handler serves the dropdown options; it also hands out the CSRF cookie.
func NewPqrApiClient(httpClient *api.HTTPClient, createPath string) *PqrApiClient {
	if httpClient.CSRFPath == "" {
		httpClient.CSRFPath = createPath
	}
	return &PqrApiClient{
		HTTPClient: httpClient,
		createPath: createPath,
	}
}

// GetDamageOptions fetches the type-of-damage and origin dropdown data.
func (c *PqrApiClient) GetDamageOptions(ctx context.Context) (models.Result[models.DamageOptions], error) {
	var env models.Envelope
	if err := c.PostForm(ctx, c.createPath, url.Values{"action": {"getTypeDamage"}}, &env); err != nil {
		return models.Result[models.DamageOptions]{}, err
	}
	return models.DecodeResult[models.DamageOptions](env)
}

// SearchNodesByPaintingCode looks up poles by their painted asset code.
func (c *PqrApiClient) SearchNodesByPaintingCode(ctx context.Context, code string) (models.Result[[]models.Node], error) {
	var env models.Envelope
	endpoint := fmt.Sprintf(config.NODES_BY_PAINTING_CODE_PATH_FORMAT, url.PathEscape(code))
	if err := c.Get(ctx, endpoint, nil, &env); err != nil {
		return models.Result[[]models.Node]{}, err
	}
	return models.DecodeResult[[]models.Node](env)
}

// SearchNodesInArea returns the poles near a coordinate. The endpoint answers with a
// GeoJSON FeatureCollection, sometimes wrapped in a JSON string.
func (c *PqrApiClient) SearchNodesInArea(ctx context.Context, lat, lng float64) ([]models.Node, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	raw, err := c.GetRaw(ctx, config.NODES_IN_AREA_PATH, query)
	if err != nil {
		return nil, err
	}
	return DecodeNodeFeatures(raw)
}

// ValidateNode asks the backend whether the pole can still be reported.
func (c *PqrApiClient) ValidateNode(ctx context.Context, nodeID string) (models.Result[models.Empty], error) {
	return c.postEnvelope(ctx, config.PQR_VALIDATE_NODE_PATH, url.Values{"value": {nodeID}})
}

// CreatePqr files a new complaint.
func (c *PqrApiClient) CreatePqr(ctx context.Context, form url.Values) (models.Result[models.Empty], error) {
	return c.postEnvelope(ctx, config.PQR_CREATE_API_PATH, form)
}

// ListPqrs runs the server-side search/sort/page query of a list view.
func (c *PqrApiClient) ListPqrs(ctx context.Context, query models.PqrListQuery) (models.Result[models.PqrListPage], error) {
	form := url.Values{}
	form.Set("action", "searchdata")
	form.Set("inicio", strconv.Itoa(query.Start))
	form.Set("limite", strconv.Itoa(query.Limit))
	form.Set("filtro", query.Filter)
	form.Set("order_by", query.OrderBy)
	form.Set("order_dir", query.OrderDir)
	if query.WithOrders {
		form.Set("with_orders", "true")
	}
	if query.Canceled {
		form.Set("canceled", "true")
	}

	var resp models.PqrListResponse
	if err := c.PostForm(ctx, fmt.Sprintf(config.PQR_LIST_PATH_FORMAT, query.Status), form, &resp); err != nil {
		return models.Result[models.PqrListPage]{}, err
	}
	if resp.Type != models.ResultTypeSuccess {
		return models.Err[models.PqrListPage](resp.Msg), nil
	}
	return models.Ok(models.PqrListPage{Total: resp.Length, Objects: resp.Objects}, resp.Msg), nil
}

// RecoverPassword triggers the recovery e-mail for a username.
func (c *PqrApiClient) RecoverPassword(ctx context.Context, username string) (models.Result[models.Empty], error) {
	var env models.Envelope
	body := models.PasswordRecoveryRequest{Username: username}
	if err := c.Request(ctx, "POST", config.PASSWORD_RECOVERY_PATH, nil, body, &env); err != nil {
		return models.Result[models.Empty]{}, err
	}
	return models.DecodeResult[models.Empty](env)
}

// ChangePassword sets a new password using the token from the recovery e-mail.
// The view answers {} on success and {"error": ...} otherwise.
func (c *PqrApiClient) ChangePassword(ctx context.Context, token, password, confirm string) (models.Result[models.Empty], error) {
	form := url.Values{}
	form.Set("password", password)
	form.Set("confirmPassword", confirm)

	var resp models.PasswordChangeResponse
	endpoint := fmt.Sprintf(config.PASSWORD_CHANGE_PATH_FORMAT, url.PathEscape(token))
	if err := c.PostForm(ctx, endpoint, form, &resp); err != nil {
		return models.Result[models.Empty]{}, err
	}
	if resp.Error != nil {
		return models.Err[models.Empty](describeFormError(resp.Error)), nil
	}
	return models.Ok(models.Empty{}, "Tu contraseña ha sido cambiada correctamente"), nil
}

// SearchPageURL is the backend page where a citizen can follow up on a complaint.
func (c *PqrApiClient) SearchPageURL() string {
	return c.BaseURL + config.PQR_SEARCH_PAGE_PATH
}

func (c *PqrApiClient) postEnvelope(ctx context.Context, endpoint string, form url.Values) (models.Result[models.Empty], error) {
	var env models.Envelope
	if err := c.PostForm(ctx, endpoint, form, &env); err != nil {
		return models.Result[models.Empty]{}, err
	}
	return models.DecodeResult[models.Empty](env)
}

// describeFormError flattens Django form errors ({"field": ["msg", ...]}) or a plain
// string into one message.
func describeFormError(v interface{}) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]interface{}:
		var buf bytes.Buffer
		for _, msgs := range e {
			list, ok := msgs.([]interface{})
			if !ok {
				continue
			}
			for _, m := range list {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(fmt.Sprint(m))
			}
		}
		if buf.Len() > 0 {
			return buf.String()
		}
	}
	b, _ := json.Marshal(v)
	return string(b)
}
