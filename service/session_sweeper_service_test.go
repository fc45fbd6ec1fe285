package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqr-portal/api/pqr"
)

func TestSessionSweeperService_EvictsIdleWizards(t *testing.T) {
	sessions, dao := newSessions(pqr.NewPqrApiClientMock(testNodes(1), testOptions))
	idle, err := sessions.Open("")
	require.NoError(t, err)
	require.NoError(t, idle.Select(context.Background(), "1"))

	sweeper := NewSessionSweeperService(sessions, dao, time.Hour)
	sweeper.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	evicted, err := sweeper.Sweep()
	require.NoError(t, err)

	assert.Equal(t, 1, evicted)
	assert.Zero(t, sessions.Count())
	ids, err := dao.ListSessionIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionSweeperService_KeepsActiveWizards(t *testing.T) {
	sessions, dao := newSessions(seededAPI(1))
	_, err := sessions.Open("")
	require.NoError(t, err)

	sweeper := NewSessionSweeperService(sessions, dao, time.Hour)

	evicted, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Zero(t, evicted)
	assert.Equal(t, 1, sessions.Count())
}

func TestSessionSweeperService_DeletesOrphanedItems(t *testing.T) {
	sessions, dao := newSessions(seededAPI(1))
	require.NoError(t, dao.Scope("left-over").SetItem("nodeToReport", "1"))

	sweeper := NewSessionSweeperService(sessions, dao, time.Hour)
	evicted, err := sweeper.Sweep()
	require.NoError(t, err)

	assert.Equal(t, 1, evicted)
	_, ok, err := dao.Scope("left-over").GetItem("nodeToReport")
	require.NoError(t, err)
	assert.False(t, ok)
}
