package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"pqr-portal/models"
	"pqr-portal/wizard"
)

const transportFailureMessage = "No se pudo contactar el servidor, intente nuevamente"

// messageResponse is the {type, title, msg} body the page turns into an alert.
type messageResponse struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Msg   string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError maps the error taxonomy to a status code and body.
func writeError(w http.ResponseWriter, err error, log zerolog.Logger) {
	var verr *wizard.ValidationError
	var berr *wizard.BackendError
	var terr *wizard.TransportError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Type: string(verr.Severity), Title: verr.Title, Msg: verr.Message}, log)
	case errors.As(err, &berr):
		typ := string(berr.Severity)
		if typ == "" {
			typ = models.ResultTypeError
		}
		writeJSON(w, http.StatusOK, messageResponse{Type: typ, Title: berr.Title, Msg: berr.Message}, log)
	case errors.As(err, &terr):
		log.Error().Err(terr.Err).Str("op", terr.Op).Msg("Upstream call failed")
		writeJSON(w, http.StatusBadGateway, messageResponse{Type: models.ResultTypeError, Title: "Error", Msg: transportFailureMessage}, log)
	case errors.Is(err, wizard.ErrStaleResult):
		writeJSON(w, http.StatusConflict, messageResponse{Type: "stale", Msg: err.Error()}, log)
	default:
		log.Error().Err(err).Msg("Internal error")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Type: models.ResultTypeError, Msg: "Internal server error"}, log)
	}
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func badRequest(w http.ResponseWriter, msg string, log zerolog.Logger) {
	writeJSON(w, http.StatusBadRequest, messageResponse{Type: models.ResultTypeError, Msg: msg}, log)
}
