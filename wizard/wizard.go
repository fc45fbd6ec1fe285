package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/models"
)

// State is the page as a client should render it.
type State struct {
	SessionID  string      `json:"session_id"`
	Step       Step        `json:"step"`
	StepName   string      `json:"step_name"`
	SearchMode SearchMode  `json:"search_mode"`
	Selection  string      `json:"selection,omitempty"`
	Map        MapSnapshot `json:"map"`
	Details    DetailsForm `json:"details"`
}

// Wizard is the two-step complaint flow of one portal session. It owns its components;
// nothing is shared between sessions.
type Wizard struct {
	id         string
	registry   *MarkerRegistry
	selection  *SelectionState
	steps      *StepController
	dispatcher *SearchDispatcher
	gateway    *SubmissionGateway
	log        zerolog.Logger

	mu         sync.Mutex
	mode       SearchMode
	lastActive time.Time
	now        func() time.Time
}

// New builds a wizard for a freshly loaded page. Any selection left in storage by a
// previous page of the same session is cleared.
func New(id string, api pqr.PqrAPI, geocoder geocoding.Geocoder, storage SessionStorage, bounds models.BoundingBox, log zerolog.Logger) (*Wizard, error) {
	log = log.With().Str("session", id).Logger()
	registry := NewMarkerRegistry()
	selection := NewSelectionState(storage)
	if err := selection.Clear(); err != nil {
		return nil, err
	}
	w := &Wizard{
		id:         id,
		registry:   registry,
		selection:  selection,
		steps:      NewStepController(api, selection, registry, log),
		dispatcher: NewSearchDispatcher(api, geocoder, registry, bounds, log),
		gateway:    NewSubmissionGateway(api, selection, log),
		log:        log,
		mode:       ByPaintingCode,
		now:        time.Now,
	}
	w.steps.OnAdvance(w.dispatcher.Invalidate)
	w.lastActive = w.now()
	return w, nil
}

func (w *Wizard) ID() string { return w.id }

// LastActive is the time of the last operation on the wizard.
func (w *Wizard) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// touch records activity. The stored selection lives as long as the wizard is used.
func (w *Wizard) touch() {
	w.mu.Lock()
	w.lastActive = w.now()
	w.mu.Unlock()
	if err := w.selection.Keep(); err != nil {
		w.log.Warn().Err(err).Msg("Failed to refresh selected pole")
	}
}

func (w *Wizard) State() (State, error) {
	w.touch()
	selection, _, err := w.selection.Read()
	if err != nil {
		return State{}, err
	}
	step := w.steps.Current()
	w.mu.Lock()
	mode := w.mode
	w.mu.Unlock()
	return State{
		SessionID:  w.id,
		Step:       step,
		StepName:   step.String(),
		SearchMode: mode,
		Selection:  selection,
		Map:        w.registry.Snapshot(),
		Details:    w.steps.Details(),
	}, nil
}

// SetSearchMode switches between code and address search. The map is cleared and any
// pending search is dropped.
func (w *Wizard) SetSearchMode(mode SearchMode) {
	w.touch()
	w.mu.Lock()
	w.mode = mode
	w.mu.Unlock()
	w.dispatcher.Invalidate()
	w.registry.Clear()
}

func (w *Wizard) requireStep(step Step) error {
	if w.steps.Current() != step {
		return invalid(SeverityWarning, "¡Advertencia!", ErrWrongStep)
	}
	return nil
}

func (w *Wizard) SearchByPaintingCode(ctx context.Context, code string) (*SearchOutcome, error) {
	w.touch()
	if err := w.requireStep(LocatingPole); err != nil {
		return nil, err
	}
	return w.dispatcher.ByPaintingCode(ctx, code)
}

func (w *Wizard) SearchByAddress(ctx context.Context, address string) (*SearchOutcome, error) {
	w.touch()
	if err := w.requireStep(LocatingPole); err != nil {
		return nil, err
	}
	return w.dispatcher.ByAddress(ctx, address)
}

// Select records the pole to report and immediately tries to advance to the details
// step. The selection is kept even when the advance is rejected.
func (w *Wizard) Select(ctx context.Context, poleID string) error {
	w.touch()
	if err := w.requireStep(LocatingPole); err != nil {
		return err
	}
	if err := w.selection.Select(poleID); err != nil {
		return err
	}
	w.log.Debug().Str("pole", poleID).Msg("Pole selected")
	return w.next(ctx)
}

// SelectMarker selects the pole behind a marker of the current search.
func (w *Wizard) SelectMarker(ctx context.Context, markerID int) error {
	m, ok := w.registry.Marker(markerID)
	if !ok {
		return invalid(SeverityWarning, "¡Advertencia!", ErrUnknownMarker)
	}
	return w.Select(ctx, formatPoleID(m.NodeID))
}

func (w *Wizard) Next(ctx context.Context) error {
	w.touch()
	return w.next(ctx)
}

func (w *Wizard) next(ctx context.Context) error {
	return w.steps.Next(ctx)
}

func (w *Wizard) Prev() Step {
	w.touch()
	return w.steps.Prev()
}

func (w *Wizard) ApplyZoom(zoom int) {
	w.touch()
	w.registry.ApplyZoom(zoom)
}

func (w *Wizard) OpenInfoWindow(markerID int) (models.Marker, error) {
	w.touch()
	m, err := w.registry.OpenInfoWindow(markerID)
	if err != nil {
		return models.Marker{}, invalid(SeverityWarning, "¡Advertencia!", err)
	}
	return m, nil
}

// Submit sends the complaint. On success the wizard starts over, as a page reload would.
func (w *Wizard) Submit(ctx context.Context, report models.PqrReport) (*Submission, error) {
	w.touch()
	if err := w.requireStep(EnteringDetails); err != nil {
		return nil, err
	}
	sub, err := w.gateway.Submit(ctx, report)
	if err != nil {
		return nil, err
	}
	if err := w.Reset(); err != nil {
		w.log.Error().Err(err).Msg("Failed to reset wizard after submission")
	}
	return sub, nil
}

// Reset returns to an empty first step.
func (w *Wizard) Reset() error {
	w.dispatcher.Invalidate()
	w.registry.Clear()
	w.steps.Reset()
	w.mu.Lock()
	w.mode = ByPaintingCode
	w.mu.Unlock()
	return w.selection.Clear()
}
