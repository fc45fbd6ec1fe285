package redis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pqr-portal/db"
)

// SESSION_ITEM_KEY_FORMAT namespaces session storage items: session id, item key.
const SESSION_ITEM_KEY_FORMAT = "pqr_session_v1:%s:%s"

const sessionKeyPrefix = "pqr_session_v1:"

// RedisSessionDAO stores per-portal-session items, the server-side equivalent of the
// browser's sessionStorage.
type RedisSessionDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisSessionDAO initializes a RedisSessionDAO. Items expire after ttl of inactivity:
// every read or Touch pushes the expiration back.
func NewRedisSessionDAO(client db.RedisClient, ttl time.Duration) *RedisSessionDAO {
	return &RedisSessionDAO{client: client, ttl: ttl}
}

// Scope returns the storage of one session.
func (dao *RedisSessionDAO) Scope(sessionID string) *SessionStorage {
	return &SessionStorage{dao: dao, sessionID: sessionID}
}

// ListSessionIDs returns the ids of every session that still has stored items.
func (dao *RedisSessionDAO) ListSessionIDs() ([]string, error) {
	keys, err := dao.client.Keys(sessionKeyPrefix + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, sessionKeyPrefix)
		id, _, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteSession drops every item of a session.
func (dao *RedisSessionDAO) DeleteSession(sessionID string) error {
	keys, err := dao.client.Keys(fmt.Sprintf(SESSION_ITEM_KEY_FORMAT, sessionID, "*"))
	if err != nil {
		return fmt.Errorf("failed to list keys of session %s: %w", sessionID, err)
	}
	for _, k := range keys {
		if err := dao.client.Del(k); err != nil {
			return fmt.Errorf("failed to delete session key %s: %w", k, err)
		}
	}
	return nil
}

// SessionStorage is the item store of a single session.
type SessionStorage struct {
	dao       *RedisSessionDAO
	sessionID string
}

func (s *SessionStorage) key(item string) string {
	return fmt.Sprintf(SESSION_ITEM_KEY_FORMAT, s.sessionID, item)
}

// SetItem overwrites the item.
func (s *SessionStorage) SetItem(item, value string) error {
	if err := s.dao.client.Set(s.key(item), value, s.dao.ttl); err != nil {
		return fmt.Errorf("failed to set session item %s: %w", item, err)
	}
	return nil
}

// GetItem returns the item and whether it exists. A hit refreshes the item's ttl.
func (s *SessionStorage) GetItem(item string) (string, bool, error) {
	val, err := s.dao.client.Get(s.key(item))
	if errors.Is(err, db.ErrNil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session item %s: %w", item, err)
	}
	if err := s.Touch(item); err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Touch restarts the ttl of an item. A missing item is left missing.
func (s *SessionStorage) Touch(item string) error {
	if s.dao.ttl <= 0 {
		return nil
	}
	if err := s.dao.client.Expire(s.key(item), s.dao.ttl); err != nil {
		return fmt.Errorf("failed to refresh session item %s: %w", item, err)
	}
	return nil
}

// RemoveItem deletes the item; a missing item is not an error.
func (s *SessionStorage) RemoveItem(item string) error {
	if err := s.dao.client.Del(s.key(item)); err != nil {
		return fmt.Errorf("failed to remove session item %s: %w", item, err)
	}
	return nil
}
