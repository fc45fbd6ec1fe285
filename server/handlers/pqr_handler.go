package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"pqr-portal/logging"
	"pqr-portal/models"
	services "pqr-portal/service"
)

// Table operations accepted by the list endpoint.
const (
	LIST_OP_LOAD      = "load"
	LIST_OP_PAGE      = "page"
	LIST_OP_PAGE_SIZE = "page_size"
	LIST_OP_SEARCH    = "search"
	LIST_OP_SORT      = "sort"
)

// listRequest carries the table state the client got last time plus one operation.
type listRequest struct {
	State services.TableState `json:"state"`
	Op    string              `json:"op"`
	Value json.RawMessage     `json:"value"`
}

type listResponse struct {
	Type       string               `json:"type"`
	State      services.TableState  `json:"state"`
	Rows       []models.PqrListItem `json:"rows"`
	Pagination services.Pagination  `json:"pagination"`
}

type PqrHandler struct {
	listService *services.PqrListService
	log         zerolog.Logger
}

func NewPqrHandler(listService *services.PqrListService) *PqrHandler {
	return &PqrHandler{listService: listService, log: logging.Component("PqrHandler")}
}

// List handles POST /v1/pqrs/{status}
func (h *PqrHandler) List(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	req.State.Status = mux.Vars(r)["status"]

	table, err := h.listService.RestoreTable(req.State)
	if errors.Is(err, services.ErrUnknownStatus) {
		writeJSON(w, http.StatusNotFound, messageResponse{Type: models.ResultTypeError, Msg: err.Error()}, h.log)
		return
	}
	if err != nil {
		writeError(w, err, h.log)
		return
	}

	if err := h.apply(table, req.Op, req.Value); err != nil {
		badRequest(w, err.Error(), h.log)
		return
	}

	if err := table.Load(r.Context()); err != nil {
		writeError(w, err, h.log)
		return
	}
	rows := table.Rows()
	if rows == nil {
		rows = []models.PqrListItem{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Type:       models.ResultTypeSuccess,
		State:      table.State(),
		Rows:       rows,
		Pagination: table.Pagination(),
	}, h.log)
}

func (h *PqrHandler) apply(table *services.PqrTable, op string, value json.RawMessage) error {
	switch op {
	case "", LIST_OP_LOAD:
		return nil
	case LIST_OP_PAGE:
		var page int
		if err := json.Unmarshal(value, &page); err != nil {
			return errors.New("Invalid argument page")
		}
		table.ChangePage(page)
		return nil
	case LIST_OP_PAGE_SIZE:
		var size int
		if err := json.Unmarshal(value, &size); err != nil {
			return errors.New("Invalid argument page_size")
		}
		return table.ChangePageSize(size)
	case LIST_OP_SEARCH:
		var term string
		if err := json.Unmarshal(value, &term); err != nil {
			return errors.New("Invalid argument search")
		}
		table.Search(term)
		return nil
	case LIST_OP_SORT:
		var column string
		if err := json.Unmarshal(value, &column); err != nil {
			return errors.New("Invalid argument sort")
		}
		table.SortBy(column)
		return nil
	default:
		return errors.New("Invalid argument op")
	}
}
