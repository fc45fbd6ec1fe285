package wizard

import (
	"fmt"
	"strconv"

	"pqr-portal/config"
)

// SessionStorage is the per-session key/value store the selection lives in.
type SessionStorage interface {
	SetItem(key, value string) error
	GetItem(key string) (string, bool, error)
	RemoveItem(key string) error
	// Touch restarts the expiration of a stored key.
	Touch(key string) error
}

// SelectionState holds the id of the pole chosen for reporting. At most one pole is
// selected at a time; selecting again overwrites.
type SelectionState struct {
	storage SessionStorage
}

func NewSelectionState(storage SessionStorage) *SelectionState {
	return &SelectionState{storage: storage}
}

func (s *SelectionState) Select(poleID string) error {
	if err := s.storage.SetItem(config.SESSION_NODE_TO_REPORT_KEY, poleID); err != nil {
		return fmt.Errorf("failed to store selected pole: %w", err)
	}
	return nil
}

// Read returns the selected pole id. ok is false when nothing is selected.
func (s *SelectionState) Read() (poleID string, ok bool, err error) {
	poleID, ok, err = s.storage.GetItem(config.SESSION_NODE_TO_REPORT_KEY)
	if err != nil {
		return "", false, fmt.Errorf("failed to read selected pole: %w", err)
	}
	if poleID == "" {
		return "", false, nil
	}
	return poleID, ok, nil
}

// Keep extends the lifetime of the stored selection while the wizard is in use.
func (s *SelectionState) Keep() error {
	if err := s.storage.Touch(config.SESSION_NODE_TO_REPORT_KEY); err != nil {
		return fmt.Errorf("failed to keep selected pole: %w", err)
	}
	return nil
}

func (s *SelectionState) Clear() error {
	if err := s.storage.RemoveItem(config.SESSION_NODE_TO_REPORT_KEY); err != nil {
		return fmt.Errorf("failed to clear selected pole: %w", err)
	}
	return nil
}

func formatPoleID(pk int64) string {
	return strconv.FormatInt(pk, 10)
}
