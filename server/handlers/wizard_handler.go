package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"pqr-portal/config"
	"pqr-portal/logging"
	"pqr-portal/models"
	services "pqr-portal/service"
	"pqr-portal/util"
	"pqr-portal/wizard"
)

type searchCodeRequest struct {
	Code string `json:"code"`
}

type searchAddressRequest struct {
	Address string `json:"address"`
}

type searchModeRequest struct {
	Mode string `json:"mode"`
}

// selectRequest names either a marker of the current search or a pole id directly.
type selectRequest struct {
	MarkerID int    `json:"marker_id"`
	PoleID   string `json:"pole_id"`
}

type zoomRequest struct {
	Zoom int `json:"zoom"`
}

type infoWindowRequest struct {
	MarkerID int `json:"marker_id"`
}

type stateResponse struct {
	Type  string       `json:"type"`
	State wizard.State `json:"state"`
}

type searchResponse struct {
	Type    string                `json:"type"`
	Outcome *wizard.SearchOutcome `json:"outcome"`
	State   wizard.State          `json:"state"`
}

type submitResponse struct {
	Type      string `json:"type"`
	Msg       string `json:"msg"`
	SearchURL string `json:"search_url"`
}

type markerResponse struct {
	Type   string        `json:"type"`
	Marker models.Marker `json:"marker"`
}

type WizardHandler struct {
	sessions *services.WizardSessionService
	coverage models.BoundingBox
	log      zerolog.Logger
}

func NewWizardHandler(sessions *services.WizardSessionService, coverage models.BoundingBox) *WizardHandler {
	return &WizardHandler{sessions: sessions, coverage: coverage, log: logging.Component("WizardHandler")}
}

// Open handles POST /v1/wizard, the equivalent of loading the complaint page.
func (h *WizardHandler) Open(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if c, err := r.Cookie(config.PORTAL_SESSION_COOKIE); err == nil {
		sessionID = c.Value
	}
	wz, err := h.sessions.Open(sessionID)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     config.PORTAL_SESSION_COOKIE,
		Value:    wz.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.writeState(w, wz)
}

// State handles GET /v1/wizard
func (h *WizardHandler) State(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	h.writeState(w, wz)
}

// SetSearchMode handles POST /v1/wizard/mode
func (h *WizardHandler) SetSearchMode(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req searchModeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	switch req.Mode {
	case wizard.ByPaintingCode.String():
		wz.SetSearchMode(wizard.ByPaintingCode)
	case wizard.ByAddress.String():
		wz.SetSearchMode(wizard.ByAddress)
	default:
		badRequest(w, "Invalid argument mode", h.log)
		return
	}
	h.writeState(w, wz)
}

// SearchByCode handles POST /v1/wizard/search/code
func (h *WizardHandler) SearchByCode(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req searchCodeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	outcome, err := wz.SearchByPaintingCode(r.Context(), req.Code)
	h.writeSearch(w, wz, outcome, err)
}

// SearchByAddress handles POST /v1/wizard/search/address
func (h *WizardHandler) SearchByAddress(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req searchAddressRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	outcome, err := wz.SearchByAddress(r.Context(), req.Address)
	h.writeSearch(w, wz, outcome, err)
}

// Select handles POST /v1/wizard/select. A successful selection also advances the step.
func (h *WizardHandler) Select(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	var err error
	switch {
	case req.PoleID != "":
		err = wz.Select(r.Context(), req.PoleID)
	case req.MarkerID > 0:
		err = wz.SelectMarker(r.Context(), req.MarkerID)
	default:
		badRequest(w, "Invalid argument marker_id", h.log)
		return
	}
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	h.writeState(w, wz)
}

// Next handles POST /v1/wizard/next
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	if err := wz.Next(r.Context()); err != nil {
		writeError(w, err, h.log)
		return
	}
	h.writeState(w, wz)
}

// Prev handles POST /v1/wizard/prev
func (h *WizardHandler) Prev(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	wz.Prev()
	h.writeState(w, wz)
}

// Zoom handles POST /v1/wizard/zoom
func (h *WizardHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req zoomRequest
	if err := decodeBody(r, &req); err != nil || req.Zoom < 0 {
		badRequest(w, "Invalid argument zoom", h.log)
		return
	}
	wz.ApplyZoom(req.Zoom)
	h.writeState(w, wz)
}

// InfoWindow handles POST /v1/wizard/infowindow
func (h *WizardHandler) InfoWindow(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req infoWindowRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	m, err := wz.OpenInfoWindow(req.MarkerID)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, markerResponse{Type: models.ResultTypeSuccess, Marker: m}, h.log)
}

// Submit handles POST /v1/wizard/submit
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var report models.PqrReport
	if err := decodeBody(r, &report); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	sub, err := wz.Submit(r.Context(), report)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Type: models.ResultTypeSuccess, Msg: sub.Message, SearchURL: sub.SearchURL}, h.log)
}

// Options handles GET /v1/wizard/options
func (h *WizardHandler) Options(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	state, err := wz.State()
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, state.Details.Options, h.log)
}

// Map handles GET /v1/wizard/map and renders the current map as HTML.
func (h *WizardHandler) Map(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	state, err := wz.State()
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotMap(w, state.Map.Markers, state.Map.CenterCircle, h.coverage); err != nil {
		h.log.Error().Err(err).Msg("Failed to render map")
	}
}

func (h *WizardHandler) wizardFor(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	c, err := r.Cookie(config.PORTAL_SESSION_COOKIE)
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Type: models.ResultTypeError, Msg: "Sesión no encontrada"}, h.log)
		return nil, false
	}
	wz, ok := h.sessions.Get(c.Value)
	if !ok {
		writeJSON(w, http.StatusNotFound, messageResponse{Type: models.ResultTypeError, Msg: "Sesión no encontrada"}, h.log)
		return nil, false
	}
	return wz, true
}

func (h *WizardHandler) writeState(w http.ResponseWriter, wz *wizard.Wizard) {
	state, err := wz.State()
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Type: models.ResultTypeSuccess, State: state}, h.log)
}

func (h *WizardHandler) writeSearch(w http.ResponseWriter, wz *wizard.Wizard, outcome *wizard.SearchOutcome, err error) {
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	state, err := wz.State()
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Type: models.ResultTypeSuccess, Outcome: outcome, State: state}, h.log)
}
