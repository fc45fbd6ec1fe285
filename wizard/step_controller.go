package wizard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"pqr-portal/api/pqr"
	"pqr-portal/models"
)

// Step is a wizard panel.
type Step int

const (
	LocatingPole    Step = 1
	EnteringDetails Step = 2
)

func (s Step) String() string {
	switch s {
	case LocatingPole:
		return "1. Ubicar poste"
	case EnteringDetails:
		return "2. Tipo de daño e Información personal"
	default:
		return "unknown"
	}
}

// DetailsForm is the state of the step 2 panel.
type DetailsForm struct {
	Report  models.PqrReport     `json:"report"`
	Options models.DamageOptions `json:"options"`
}

// StepController owns the current step and the transitions between the two panels.
type StepController struct {
	mu        sync.Mutex
	step      Step
	advancing bool
	details   DetailsForm
	onAdvance func()

	api       pqr.PqrAPI
	selection *SelectionState
	registry  *MarkerRegistry
	log       zerolog.Logger
}

func NewStepController(api pqr.PqrAPI, selection *SelectionState, registry *MarkerRegistry, log zerolog.Logger) *StepController {
	return &StepController{
		step:      LocatingPole,
		api:       api,
		selection: selection,
		registry:  registry,
		log:       log,
	}
}

// OnAdvance registers fn to run when a transition to EnteringDetails commits, before the
// map is cleared. fn runs with the controller locked and must not call back into it.
func (c *StepController) OnAdvance(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAdvance = fn
}

func (c *StepController) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *StepController) Details() DetailsForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Next moves from LocatingPole to EnteringDetails. It requires a selected pole that the
// backend accepts as reportable. On acceptance the detail fields are reset, the dropdown
// options are fetched, and the map is cleared. Any rejection leaves the step unchanged.
// No lock is held while talking to the backend.
func (c *StepController) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.step != LocatingPole {
		c.mu.Unlock()
		return invalid(SeverityWarning, "¡Advertencia!", ErrWrongStep)
	}
	if c.advancing {
		c.mu.Unlock()
		return invalid(SeverityWarning, "¡Advertencia!", ErrTransitionPending)
	}
	c.advancing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.advancing = false
		c.mu.Unlock()
	}()

	poleID, ok, err := c.selection.Read()
	if err != nil {
		return err
	}
	if !ok {
		return invalid(SeverityWarning, "¡Advertencia!", ErrNoSelection)
	}

	res, err := c.api.ValidateNode(ctx, poleID)
	if err != nil {
		return &TransportError{Op: "validateNode", Err: err}
	}
	if !res.IsOk() {
		return &BackendError{Op: "validateNode", Severity: SeverityWarning, Title: "¡Advertencia!", Message: res.Message()}
	}

	options := c.fetchOptions(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.onAdvance != nil {
		c.onAdvance()
	}
	c.details = DetailsForm{Options: options}
	c.registry.Clear()
	c.step = EnteringDetails
	c.log.Debug().Str("pole", poleID).Msg("Advanced to details step")
	return nil
}

// fetchOptions loads the dropdowns. A failure leaves them empty without blocking the
// transition.
func (c *StepController) fetchOptions(ctx context.Context) models.DamageOptions {
	res, err := c.api.GetDamageOptions(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to fetch damage options")
		return models.DamageOptions{}
	}
	if !res.IsOk() {
		c.log.Warn().Str("msg", res.Message()).Msg("Backend rejected damage options request")
		return models.DamageOptions{}
	}
	opts := res.Value()
	return models.DamageOptions{
		TypeDamage: models.SortOptionsByName(opts.TypeDamage),
		Origin:     models.SortOptionsByName(opts.Origin),
	}
}

// Prev goes back one step without validation. It is a no-op on the first step.
func (c *StepController) Prev() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > LocatingPole {
		c.step--
	}
	return c.step
}

// Reset returns to the first step with an empty details form.
func (c *StepController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = LocatingPole
	c.details = DetailsForm{}
}
