package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pqr-portal/api/pqr"
	"pqr-portal/logging"
	"pqr-portal/models"
	"pqr-portal/wizard"
)

const (
	PQR_STATUS_RECEIVED = "recibidas"
	PQR_STATUS_REVIEW   = "revision"
	PQR_STATUS_ATTENDED = "atendidas"

	DEFAULT_PAGE_SIZE    = 10
	MAX_VISIBLE_PAGES    = 5
	DEFAULT_ORDER_COLUMN = "id"
	ORDER_DIRECTION_ASC  = "asc"
	ORDER_DIRECTION_DESC = "desc"
)

var (
	ErrUnknownStatus   = errors.New("unknown pqr status")
	ErrInvalidPageSize = errors.New("page size must be one of 10, 25, 50, 100")
)

var pageSizes = map[int]bool{10: true, 25: true, 50: true, 100: true}

// Columns the list endpoints can order by.
var orderColumns = map[string]bool{
	"id":                                  true,
	"date_creation":                       true,
	"file_number":                         true,
	"fk_type_damage__name":                true,
	"fk_node_reported":                    true,
	"fk_node_reported__painting_code":     true,
	"fk_node_reported__fk_district__name": true,
	"fk_origin__name":                     true,
	"name":                                true,

	"fk_node_reported__fk_district__fk_comuna__name": true,
}

// TableState is everything needed to reproduce a page of a complaints table.
type TableState struct {
	Status     string `json:"status"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	OrderBy    string `json:"order_by"`
	OrderDir   string `json:"order_dir"`
	Search     string `json:"search"`
	Total      int    `json:"total"`
	WithOrders bool   `json:"with_orders,omitempty"`
	Canceled   bool   `json:"canceled,omitempty"`
}

// Pagination is the page strip under the table.
type Pagination struct {
	TotalPages  int    `json:"total_pages"`
	Current     int    `json:"current"`
	Pages       []int  `json:"pages"`
	ShowFirst   bool   `json:"show_first"`
	LeadingGap  bool   `json:"leading_gap"`
	ShowLast    bool   `json:"show_last"`
	TrailingGap bool   `json:"trailing_gap"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
	Info        string `json:"info"`
}

// PqrTable is a server-side paged, sorted and filtered complaints table.
type PqrTable struct {
	state TableState
	rows  []models.PqrListItem
	api   pqr.PqrAPI
	log   zerolog.Logger
}

// PqrListService hands out complaint tables.
type PqrListService struct {
	pqrAPI pqr.PqrAPI
	log    zerolog.Logger
}

func NewPqrListService(pqrAPI pqr.PqrAPI) *PqrListService {
	return &PqrListService{pqrAPI: pqrAPI, log: logging.Component("PqrListService")}
}

// NewTable starts a table on the first page with default ordering.
func (s *PqrListService) NewTable(status string) (*PqrTable, error) {
	return s.RestoreTable(TableState{Status: status})
}

// RestoreTable rebuilds a table from a state a client sent back. Missing or invalid
// values fall back to the defaults.
func (s *PqrListService) RestoreTable(state TableState) (*PqrTable, error) {
	switch state.Status {
	case PQR_STATUS_RECEIVED, PQR_STATUS_REVIEW, PQR_STATUS_ATTENDED:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, state.Status)
	}
	if !pageSizes[state.PageSize] {
		state.PageSize = DEFAULT_PAGE_SIZE
	}
	if state.Page < 0 {
		state.Page = 0
	}
	if !orderColumns[state.OrderBy] {
		state.OrderBy = DEFAULT_ORDER_COLUMN
	}
	if state.OrderDir != ORDER_DIRECTION_DESC {
		state.OrderDir = ORDER_DIRECTION_ASC
	}
	if state.Status != PQR_STATUS_REVIEW {
		state.WithOrders = false
	}
	if state.Status != PQR_STATUS_ATTENDED {
		state.Canceled = false
	}
	return &PqrTable{state: state, api: s.pqrAPI, log: s.log}, nil
}

func (t *PqrTable) State() TableState          { return t.state }
func (t *PqrTable) Rows() []models.PqrListItem { return t.rows }

func (t *PqrTable) totalPages() int {
	return (t.state.Total + t.state.PageSize - 1) / t.state.PageSize
}

// Load fetches the current page. On failure the previous rows are kept.
func (t *PqrTable) Load(ctx context.Context) error {
	query := models.PqrListQuery{
		Status:     t.state.Status,
		Start:      t.state.Page * t.state.PageSize,
		Limit:      t.state.PageSize,
		Filter:     t.state.Search,
		OrderBy:    t.state.OrderBy,
		OrderDir:   t.state.OrderDir,
		WithOrders: t.state.WithOrders,
		Canceled:   t.state.Canceled,
	}
	res, err := t.api.ListPqrs(ctx, query)
	if err != nil {
		t.log.Error().Err(err).Str("status", t.state.Status).Msg("Failed to load pqrs")
		return &wizard.TransportError{Op: "listPqrs", Err: err}
	}
	if !res.IsOk() {
		msg := res.Message()
		if msg == "" {
			msg = "Error al cargar los datos"
		}
		return &wizard.BackendError{Op: "listPqrs", Severity: wizard.SeverityError, Title: "Error", Message: msg}
	}
	page := res.Value()
	t.state.Total = page.Total
	t.rows = page.Objects
	return nil
}

// ChangePage moves to page p. Pages outside the known range are ignored.
func (t *PqrTable) ChangePage(p int) bool {
	if p < 0 || p >= t.totalPages() {
		return false
	}
	t.state.Page = p
	return true
}

func (t *PqrTable) ChangePageSize(n int) error {
	if !pageSizes[n] {
		return ErrInvalidPageSize
	}
	t.state.PageSize = n
	t.state.Page = 0
	return nil
}

func (t *PqrTable) Search(term string) {
	t.state.Search = strings.TrimSpace(term)
	t.state.Page = 0
}

// SortBy orders by column, toggling the direction when it already is the order column.
func (t *PqrTable) SortBy(column string) {
	if !orderColumns[column] {
		column = DEFAULT_ORDER_COLUMN
	}
	if t.state.OrderBy == column {
		if t.state.OrderDir == ORDER_DIRECTION_ASC {
			t.state.OrderDir = ORDER_DIRECTION_DESC
		} else {
			t.state.OrderDir = ORDER_DIRECTION_ASC
		}
		return
	}
	t.state.OrderBy = column
	t.state.OrderDir = ORDER_DIRECTION_ASC
}

func (t *PqrTable) Pagination() Pagination {
	totalPages := t.totalPages()
	current := t.state.Page
	p := Pagination{
		TotalPages: totalPages,
		Current:    current,
		Info:       t.info(),
	}
	if totalPages <= 1 {
		return p
	}

	start := max(0, current-MAX_VISIBLE_PAGES/2)
	end := min(totalPages-1, start+MAX_VISIBLE_PAGES-1)
	if end-start < MAX_VISIBLE_PAGES-1 {
		start = max(0, end-MAX_VISIBLE_PAGES+1)
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, i)
	}
	p.ShowFirst = start > 0
	p.LeadingGap = start > 1
	p.ShowLast = end < totalPages-1
	p.TrailingGap = end < totalPages-2
	p.HasPrevious = current > 0
	p.HasNext = current < totalPages-1
	return p
}

func (t *PqrTable) info() string {
	if t.state.Total == 0 {
		return "No hay registros para mostrar"
	}
	start := t.state.Page*t.state.PageSize + 1
	end := min((t.state.Page+1)*t.state.PageSize, t.state.Total)
	return fmt.Sprintf("Mostrando %d a %d de %d registros", start, end, t.state.Total)
}
