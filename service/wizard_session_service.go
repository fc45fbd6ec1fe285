package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/dao/redis"
	"pqr-portal/logging"
	"pqr-portal/models"
	"pqr-portal/wizard"
)

// WizardSessionService keeps one wizard per portal session.
type WizardSessionService struct {
	mu         sync.Mutex
	wizards    map[string]*wizard.Wizard
	sessionDao *redis.RedisSessionDAO
	pqrAPI     pqr.PqrAPI
	geocoder   geocoding.Geocoder
	bounds     models.BoundingBox
	log        zerolog.Logger
}

func NewWizardSessionService(
	sessionDao *redis.RedisSessionDAO,
	pqrAPI pqr.PqrAPI,
	geocoder geocoding.Geocoder,
	bounds models.BoundingBox,
) *WizardSessionService {
	return &WizardSessionService{
		wizards:    make(map[string]*wizard.Wizard),
		sessionDao: sessionDao,
		pqrAPI:     pqrAPI,
		geocoder:   geocoder,
		bounds:     bounds,
		log:        logging.Component("WizardSessionService"),
	}
}

// Open starts a fresh wizard, as loading the complaint page does. An empty or unparsable
// session id gets a new one; an existing wizard of the same session is replaced.
func (s *WizardSessionService) Open(sessionID string) (*wizard.Wizard, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	}
	w, err := wizard.New(sessionID, s.pqrAPI, s.geocoder, s.sessionDao.Scope(sessionID), s.bounds, s.log)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.wizards[sessionID] = w
	s.mu.Unlock()
	s.log.Debug().Str("session", sessionID).Msg("Wizard opened")
	return w, nil
}

func (s *WizardSessionService) Get(sessionID string) (*wizard.Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[sessionID]
	return w, ok
}

// Close forgets the wizard and its stored items.
func (s *WizardSessionService) Close(sessionID string) error {
	s.mu.Lock()
	delete(s.wizards, sessionID)
	s.mu.Unlock()
	return s.sessionDao.DeleteSession(sessionID)
}

func (s *WizardSessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wizards)
}

// snapshot copies the live wizards so callers can iterate without the lock.
func (s *WizardSessionService) snapshot() map[string]*wizard.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*wizard.Wizard, len(s.wizards))
	for id, w := range s.wizards {
		out[id] = w
	}
	return out
}
