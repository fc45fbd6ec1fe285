package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqr-portal/wizard"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
		msg    string
	}{
		{
			name:   "validation",
			err:    &wizard.ValidationError{Severity: wizard.SeverityWarning, Title: "¡Advertencia!", Message: "Campo vacío"},
			status: http.StatusBadRequest,
			typ:    "warning",
			msg:    "Campo vacío",
		},
		{
			name:   "wrapped validation",
			err:    fmt.Errorf("select: %w", &wizard.ValidationError{Severity: wizard.SeverityError, Message: "x"}),
			status: http.StatusBadRequest,
			typ:    "error",
			msg:    "x",
		},
		{
			name:   "backend",
			err:    &wizard.BackendError{Op: "createPqr", Message: "El poste ya tiene una PQR activa"},
			status: http.StatusOK,
			typ:    "error",
			msg:    "El poste ya tiene una PQR activa",
		},
		{
			name:   "backend rejection of selected pole",
			err:    &wizard.BackendError{Op: "validateNode", Severity: wizard.SeverityWarning, Title: "¡Advertencia!", Message: "El poste ya tiene una PQR activa"},
			status: http.StatusOK,
			typ:    "warning",
			msg:    "El poste ya tiene una PQR activa",
		},
		{
			name:   "search without results",
			err:    &wizard.BackendError{Op: "searchNodesByPaintingCode", Severity: wizard.SeverityQuestion, Title: "Sin resultados", Message: "No se encontraron nodos"},
			status: http.StatusOK,
			typ:    "question",
			msg:    "No se encontraron nodos",
		},
		{
			name:   "transport",
			err:    &wizard.TransportError{Op: "createPqr", Err: errors.New("connection refused")},
			status: http.StatusBadGateway,
			typ:    "error",
			msg:    transportFailureMessage,
		},
		{
			name:   "stale",
			err:    wizard.ErrStaleResult,
			status: http.StatusConflict,
			typ:    "stale",
			msg:    wizard.ErrStaleResult.Error(),
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			typ:    "error",
			msg:    "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err, zerolog.Nop())

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body messageResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.typ, body.Type)
			assert.Equal(t, tt.msg, body.Msg)
		})
	}
}
