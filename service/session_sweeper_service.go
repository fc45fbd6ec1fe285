package services

import (
	"time"

	"github.com/rs/zerolog"

	"pqr-portal/dao/redis"
	"pqr-portal/logging"
)

// SessionSweeperService periodically drops wizards that have been idle for too long,
// together with their stored items, and stored items whose wizard no longer exists.
type SessionSweeperService struct {
	sessions   *WizardSessionService
	sessionDao *redis.RedisSessionDAO
	idleTTL    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewSessionSweeperService constructs a new sweeper with dependencies.
func NewSessionSweeperService(
	sessions *WizardSessionService,
	sessionDao *redis.RedisSessionDAO,
	idleTTL time.Duration,
) *SessionSweeperService {
	return &SessionSweeperService{
		sessions:   sessions,
		sessionDao: sessionDao,
		idleTTL:    idleTTL,
		now:        time.Now,
		log:        logging.Component("SessionSweeperService"),
	}
}

// StartPeriodicJob launches the background loop at the given interval.
func (ss *SessionSweeperService) StartPeriodicJob(interval time.Duration) {
	go ss.startPeriodicJob(interval)
}

func (ss *SessionSweeperService) startPeriodicJob(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ss.log.Debug().Msg("Running periodic session sweep")
		evicted, err := ss.Sweep()
		if err != nil {
			ss.log.Error().Err(err).Msg("Session sweep returned error")
			continue
		}
		ss.log.Info().Int("evicted", evicted).Int("active", ss.sessions.Count()).Msg("Session sweep completed")
	}
}

// Sweep evicts idle wizards and orphaned stored sessions. It returns how many sessions
// were removed.
func (ss *SessionSweeperService) Sweep() (int, error) {
	cutoff := ss.now().Add(-ss.idleTTL)
	evicted := 0

	for id, w := range ss.sessions.snapshot() {
		if w.LastActive().After(cutoff) {
			continue
		}
		ss.log.Debug().Str("session", id).Msg("Evicting idle wizard")
		if err := ss.sessions.Close(id); err != nil {
			ss.log.Error().Err(err).Str("session", id).Msg("Failed to delete session items")
			continue
		}
		evicted++
	}

	ids, err := ss.sessionDao.ListSessionIDs()
	if err != nil {
		return evicted, err
	}
	for _, id := range ids {
		if _, live := ss.sessions.Get(id); live {
			continue
		}
		ss.log.Debug().Str("session", id).Msg("Deleting orphaned session items")
		if err := ss.sessionDao.DeleteSession(id); err != nil {
			ss.log.Error().Err(err).Str("session", id).Msg("Failed to delete orphaned session")
			continue
		}
		evicted++
	}
	return evicted, nil
}
