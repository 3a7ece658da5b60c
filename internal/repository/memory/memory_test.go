package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/models"
)

func TestStoreRules(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, err := s.Users().Create(ctx, models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, models.User{Username: "alice2", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	e, err := s.Events().Create(ctx, models.Event{Title: "t", OrganizerID: u.ID, Date: models.NewDate(time.Now())})
	require.NoError(t, err)
	require.NotNil(t, e.Organizer)
	assert.Equal(t, "alice", e.Organizer.Username)

	_, err = s.Registrations().Create(ctx, u.ID, e.ID)
	require.NoError(t, err)
	_, err = s.Registrations().Create(ctx, u.ID, e.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)
	_, err = s.Registrations().Create(ctx, "no-such-user", e.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mine, _ := s.Events().ListForUser(ctx, u.ID)
	assert.Len(t, mine, 1)

	require.NoError(t, s.Events().Delete(ctx, e.ID))
	regs, _ := s.Registrations().ListByEvent(ctx, e.ID)
	assert.Empty(t, regs)
	assert.ErrorIs(t, s.Events().Delete(ctx, e.ID), apperr.ErrNotFound)
}
