package wizard

import (
	"errors"
	"fmt"
)

// Severity mirrors the icon the page shows with a message.
type Severity string

const (
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityQuestion Severity = "question"
	SeveritySuccess  Severity = "success"
)

var (
	ErrNoSelection         = errors.New("No se seleccionó ningún poste para reportar.")
	ErrEmptyQuery          = errors.New("Por favor, ingrese un valor en el campo de búsqueda.")
	ErrEmptyAddress        = errors.New("Por favor ingrese una dirección para continuar con la búsqueda")
	ErrInvalidPaintingCode = errors.New("El código de pintado debe ser de 7 dígitos numéricos")
	ErrOutOfCoverage       = errors.New("La dirección está fuera del área de cobertura")
	ErrStaleResult         = errors.New("search result superseded by a newer request")
	ErrWrongStep           = errors.New("operation not available in the current step")
	ErrTransitionPending   = errors.New("a step transition is already in progress")
	ErrUnknownMarker       = errors.New("marker not found")
)

// ValidationError is a client-side rejection: nothing was sent to the backend.
type ValidationError struct {
	Severity Severity
	Title    string
	Message  string
	Err      error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(severity Severity, title string, err error) *ValidationError {
	return &ValidationError{Severity: severity, Title: title, Message: err.Error(), Err: err}
}

// BackendError is an operation the backend accepted at transport level but reported
// as failed through its discriminator. Message is shown verbatim.
type BackendError struct {
	Op       string
	Severity Severity
	Title    string
	Message  string
}

func (e *BackendError) Error() string { return e.Message }

// TransportError is a network or parse failure talking to the backend or geocoder.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
