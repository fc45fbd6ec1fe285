package wizard

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"pqr-portal/api/pqr"
	"pqr-portal/models"
)

var (
	ErrMissingName        = errors.New("El nombre es obligatorio")
	ErrMissingObservation = errors.New("La observación es obligatoria")
	ErrMissingTypeDamage  = errors.New("Debe seleccionar el tipo de daño")
	ErrInvalidEmail       = errors.New("El correo electrónico no es válido")
	ErrInvalidNumber      = errors.New("La cédula y el teléfono deben ser numéricos")
)

// Submission is an accepted complaint.
type Submission struct {
	Message   string `json:"msg"`
	SearchURL string `json:"search_url"`
}

// SubmissionGateway sends the details form together with the selected pole.
type SubmissionGateway struct {
	api       pqr.PqrAPI
	selection *SelectionState
	log       zerolog.Logger
}

func NewSubmissionGateway(api pqr.PqrAPI, selection *SelectionState, log zerolog.Logger) *SubmissionGateway {
	return &SubmissionGateway{api: api, selection: selection, log: log}
}

// ValidateReport runs the form checks done before anything is sent.
func ValidateReport(report models.PqrReport) error {
	if strings.TrimSpace(report.Name) == "" {
		return invalid(SeverityWarning, "¡Advertencia!", ErrMissingName)
	}
	if strings.TrimSpace(report.Observation) == "" {
		return invalid(SeverityWarning, "¡Advertencia!", ErrMissingObservation)
	}
	if strings.TrimSpace(report.TypeDamage) == "" {
		return invalid(SeverityWarning, "¡Advertencia!", ErrMissingTypeDamage)
	}
	if report.Email != "" {
		if _, err := mail.ParseAddress(report.Email); err != nil {
			return invalid(SeverityWarning, "¡Advertencia!", ErrInvalidEmail)
		}
	}
	if !digitsOnly(report.Dni) || !digitsOnly(report.PhoneNumber) {
		return invalid(SeverityWarning, "¡Advertencia!", ErrInvalidNumber)
	}
	return nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Submit posts the report. The backend message is returned verbatim on success and on
// backend rejection.
func (g *SubmissionGateway) Submit(ctx context.Context, report models.PqrReport) (*Submission, error) {
	if err := ValidateReport(report); err != nil {
		return nil, err
	}
	poleID, ok, err := g.selection.Read()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid(SeverityWarning, "¡Advertencia!", ErrNoSelection)
	}

	res, err := g.api.CreatePqr(ctx, report.Form(poleID))
	if err != nil {
		return nil, &TransportError{Op: "createPqr", Err: err}
	}
	if !res.IsOk() {
		return nil, &BackendError{Op: "createPqr", Severity: SeverityError, Title: "¡Error!", Message: res.Message()}
	}

	g.log.Info().Str("pole", poleID).Msg("PQR created")
	return &Submission{Message: res.Message(), SearchURL: g.api.SearchPageURL()}, nil
}
