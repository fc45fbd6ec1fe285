package pqr

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pqr-portal/config"
	"pqr-portal/models"
)

// Same search radius as the backend's distance_lte lookup, in degrees.
const nodesInAreaDistanceDegrees = 0.0010

// PqrApiClientMock is an in-memory stand-in for the PQR backend used by the dev
// environment and by tests.
type PqrApiClientMock struct {
	mu          sync.Mutex
	nodes       []models.Node
	options     models.DamageOptions
	users       map[string]string
	tokens      map[string]string
	reported    map[int64]bool
	pqrs        []models.PqrListItem
	nextFileNum int64
}

// NewPqrApiClientMock creates a new instance of PqrApiClientMock
func NewPqrApiClientMock(nodes []models.Node, options models.DamageOptions) *PqrApiClientMock {
	return &PqrApiClientMock{
		nodes:       nodes,
		options:     options,
		users:       map[string]string{"ciudadano": "ciudadano@example.org"},
		tokens:      make(map[string]string),
		reported:    make(map[int64]bool),
		nextFileNum: 2024000001,
	}
}

// AddRecoveryToken registers a valid change-password token.
func (m *PqrApiClientMock) AddRecoveryToken(token, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = username
}

func (m *PqrApiClientMock) GetDamageOptions(ctx context.Context) (models.Result[models.DamageOptions], error) {
	return models.Ok(m.options, ""), nil
}

func (m *PqrApiClientMock) SearchNodesByPaintingCode(ctx context.Context, code string) (models.Result[[]models.Node], error) {
	want, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return models.Err[[]models.Node](fmt.Sprintf("invalid literal for int() with base 10: '%s'", code)), nil
	}
	var found []models.Node
	for _, n := range m.nodes {
		if n.PaintingCode == want {
			found = append(found, n)
		}
	}
	if len(found) == 0 {
		return models.Err[[]models.Node]("No se encontraron nodos con el codigo de pintado suministrado"), nil
	}
	return models.Ok(found, ""), nil
}

func (m *PqrApiClientMock) SearchNodesInArea(ctx context.Context, lat, lng float64) ([]models.Node, error) {
	found := []models.Node{}
	for _, n := range m.nodes {
		if math.Hypot(n.Lat-lat, n.Lng-lng) <= nodesInAreaDistanceDegrees {
			found = append(found, n)
		}
	}
	return found, nil
}

func (m *PqrApiClientMock) ValidateNode(ctx context.Context, nodeID string) (models.Result[models.Empty], error) {
	id, err := strconv.ParseInt(nodeID, 10, 64)
	if err != nil || m.findNode(id) == nil {
		return models.Err[models.Empty]("El poste seleccionado no existe"), nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reported[id] {
		return models.Err[models.Empty]("El poste seleccionado ya tiene una PQR activa"), nil
	}
	return models.Ok(models.Empty{}, "Poste válido"), nil
}

func (m *PqrApiClientMock) CreatePqr(ctx context.Context, form url.Values) (models.Result[models.Empty], error) {
	id, err := strconv.ParseInt(form.Get("idNode"), 10, 64)
	if err != nil {
		return models.Err[models.Empty]("No se seleccionó un poste válido"), nil
	}
	node := m.findNode(id)
	if node == nil {
		return models.Err[models.Empty]("El poste seleccionado no existe"), nil
	}
	for _, field := range []string{"name", "observation", "typeDamage"} {
		if strings.TrimSpace(form.Get(field)) == "" {
			return models.Err[models.Empty](fmt.Sprintf("El campo %s es obligatorio", field)), nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reported[id] {
		return models.Err[models.Empty]("El poste seleccionado ya tiene una PQR activa"), nil
	}
	m.reported[id] = true
	fileNumber := m.nextFileNum
	m.nextFileNum++
	m.pqrs = append(m.pqrs, models.PqrListItem{
		ID:               int64(len(m.pqrs) + 1),
		DateCreation:     time.Now().Format("2006-01-02 15:04:05"),
		FileNumber:       fileNumber,
		TypeDamageName:   optionName(m.options.TypeDamage, form.Get("typeDamage")),
		NodeReported:     node.PK,
		NodePaintingCode: node.PaintingCode,
		ComunaName:       node.Comuna,
		DistrictName:     node.District,
		OriginName:       optionName(m.options.Origin, form.Get("origin")),
		Name:             form.Get("name"),
	})
	return models.Ok(models.Empty{}, fmt.Sprintf("Se ha creado la PQR con número de radicado %d", fileNumber)), nil
}

func (m *PqrApiClientMock) ListPqrs(ctx context.Context, query models.PqrListQuery) (models.Result[models.PqrListPage], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filter := strings.ToLower(strings.TrimSpace(query.Filter))
	var matched []models.PqrListItem
	for _, p := range m.pqrs {
		if query.Status != "recibidas" {
			continue
		}
		if filter == "" || strings.Contains(strings.ToLower(p.Name), filter) ||
			strings.Contains(strconv.FormatInt(p.FileNumber, 10), filter) ||
			strings.Contains(strings.ToLower(p.TypeDamageName), filter) ||
			strings.Contains(strings.ToLower(p.DistrictName), filter) {
			matched = append(matched, p)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if query.OrderDir == "desc" {
			return lessBy(query.OrderBy, matched[j], matched[i])
		}
		return lessBy(query.OrderBy, matched[i], matched[j])
	})

	start := query.Start
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	page := make([]models.PqrListItem, end-start)
	copy(page, matched[start:end])
	return models.Ok(models.PqrListPage{Total: len(matched), Objects: page}, ""), nil
}

func (m *PqrApiClientMock) RecoverPassword(ctx context.Context, username string) (models.Result[models.Empty], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email, ok := m.users[username]
	if !ok {
		return models.Err[models.Empty](fmt.Sprintf("El usuario con nombre de usuario '%s' no existe o se encuentra inactivo", username)), nil
	}
	return models.Ok(models.Empty{}, fmt.Sprintf("Se ha enviado un correo a %s para recuperar tu contraseña", email)), nil
}

func (m *PqrApiClientMock) ChangePassword(ctx context.Context, token, password, confirm string) (models.Result[models.Empty], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return models.Err[models.Empty]("El enlace para cambiar la contraseña ha expirado"), nil
	}
	if password != confirm {
		return models.Err[models.Empty]("Las contraseñas deben ser iguales"), nil
	}
	delete(m.tokens, token)
	return models.Ok(models.Empty{}, "Tu contraseña ha sido cambiada correctamente"), nil
}

func (m *PqrApiClientMock) SearchPageURL() string {
	return config.PQR_SEARCH_PAGE_PATH
}

func (m *PqrApiClientMock) findNode(id int64) *models.Node {
	for i := range m.nodes {
		if m.nodes[i].PK == id {
			return &m.nodes[i]
		}
	}
	return nil
}

func optionName(options []models.Option, id string) string {
	for _, o := range options {
		if strconv.FormatInt(o.ID, 10) == id {
			return o.Name
		}
	}
	return ""
}

func lessBy(column string, a, b models.PqrListItem) bool {
	switch column {
	case "file_number":
		return a.FileNumber < b.FileNumber
	case "name":
		return a.Name < b.Name
	case "date_creation":
		return a.DateCreation < b.DateCreation
	case "fk_type_damage__name":
		return a.TypeDamageName < b.TypeDamageName
	default:
		return a.ID < b.ID
	}
}
