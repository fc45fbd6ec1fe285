package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"pqr-portal/logging"
	"pqr-portal/models"
	services "pqr-portal/service"
)

type recoverRequest struct {
	Username string `json:"username"`
}

type changeRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type PasswordHandler struct {
	passwordService *services.PasswordService
	log             zerolog.Logger
}

func NewPasswordHandler(passwordService *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwordService: passwordService, log: logging.Component("PasswordHandler")}
}

// Recover handles POST /v1/password/recover
func (h *PasswordHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	msg, err := h.passwordService.Recover(r.Context(), req.Username)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Type: models.ResultTypeSuccess, Msg: msg}, h.log)
}

// Change handles POST /v1/password/change/{token}
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "Invalid request body", h.log)
		return
	}
	token := mux.Vars(r)["token"]
	msg, err := h.passwordService.Change(r.Context(), token, req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Type: models.ResultTypeSuccess, Msg: msg}, h.log)
}
