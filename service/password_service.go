package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"pqr-portal/api/pqr"
	"pqr-portal/logging"
	"pqr-portal/wizard"
)

var (
	ErrMissingUsername  = errors.New("Por favor ingrese su nombre de usuario")
	ErrMissingPassword  = errors.New("Por favor ingrese y confirme la nueva contraseña")
	ErrPasswordMismatch = errors.New("Las contraseñas deben ser iguales")
)

// PasswordService drives the recovery and change-password forms.
type PasswordService struct {
	pqrAPI pqr.PqrAPI
	log    zerolog.Logger
}

func NewPasswordService(pqrAPI pqr.PqrAPI) *PasswordService {
	return &PasswordService{pqrAPI: pqrAPI, log: logging.Component("PasswordService")}
}

// Recover asks the backend to mail a reset link. It returns the backend message.
func (s *PasswordService) Recover(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", &wizard.ValidationError{Severity: wizard.SeverityWarning, Title: "¡Advertencia!", Message: ErrMissingUsername.Error(), Err: ErrMissingUsername}
	}
	res, err := s.pqrAPI.RecoverPassword(ctx, username)
	if err != nil {
		s.log.Error().Err(err).Msg("Password recovery request failed")
		return "", &wizard.TransportError{Op: "recoverPassword", Err: err}
	}
	if !res.IsOk() {
		return "", &wizard.BackendError{Op: "recoverPassword", Severity: wizard.SeverityError, Title: "¡Error!", Message: res.Message()}
	}
	return res.Message(), nil
}

// Change sets a new password through a recovery token.
func (s *PasswordService) Change(ctx context.Context, token, password, confirm string) (string, error) {
	if password == "" || confirm == "" {
		return "", &wizard.ValidationError{Severity: wizard.SeverityWarning, Title: "¡Advertencia!", Message: ErrMissingPassword.Error(), Err: ErrMissingPassword}
	}
	if password != confirm {
		return "", &wizard.ValidationError{Severity: wizard.SeverityError, Title: "¡Error!", Message: ErrPasswordMismatch.Error(), Err: ErrPasswordMismatch}
	}
	res, err := s.pqrAPI.ChangePassword(ctx, token, password, confirm)
	if err != nil {
		s.log.Error().Err(err).Msg("Password change request failed")
		return "", &wizard.TransportError{Op: "changePassword", Err: err}
	}
	if !res.IsOk() {
		return "", &wizard.BackendError{Op: "changePassword", Severity: wizard.SeverityError, Title: "¡Error!", Message: res.Message()}
	}
	msg := res.Message()
	if msg == "" {
		msg = "Tu contraseña ha sido cambiada correctamente"
	}
	return msg, nil
}
