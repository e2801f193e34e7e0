package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/stretchr/testify/require"
)

func TestNotesService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	clock := newTestClock()
	svc := &service.NotesService{Store: s, Now: clock.Now}

	owner := seedUser(t, s, "owner", clock.Now())
	other := seedUser(t, s, "other", clock.Now())

	t.Run("create requires title and content", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.ID, service.NoteInput{Title: "t"})
		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, service.MsgNoteFieldsRequired, verr.Message)
	})

	n, err := svc.Create(ctx, owner.ID, service.NoteInput{Title: "groceries", Content: "milk"})
	require.NoError(t, err)
	require.Equal(t, owner.ID, n.OwnerID)

	t.Run("get and list", func(t *testing.T) {
		got, err := svc.Get(ctx, owner.ID, n.ID)
		require.NoError(t, err)
		require.Equal(t, "milk", got.Content)

		list, err := svc.List(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("other users see not found", func(t *testing.T) {
		_, err := svc.Get(ctx, other.ID, n.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
		_, err = svc.Update(ctx, other.ID, n.ID, service.NoteInput{Title: "x", Content: "y"})
		require.ErrorIs(t, err, service.ErrNotFound)
		require.ErrorIs(t, svc.Delete(ctx, other.ID, n.ID), service.ErrNotFound)
	})

	t.Run("malformed ids are not found", func(t *testing.T) {
		_, err := svc.Get(ctx, owner.ID, "../etc/passwd")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("update bumps last edited", func(t *testing.T) {
		clock.Advance(time.Hour)
		got, err := svc.Update(ctx, owner.ID, n.ID, service.NoteInput{Title: "groceries", Content: "milk, eggs"})
		require.NoError(t, err)
		require.Equal(t, "milk, eggs", got.Content)
		require.True(t, clock.Now().Equal(got.LastEdited))
		require.True(t, n.CreatedAt.Equal(got.CreatedAt))

		_, err = svc.Update(ctx, owner.ID, n.ID, service.NoteInput{Title: "", Content: "x"})
		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner.ID, n.ID))
		require.ErrorIs(t, svc.Delete(ctx, owner.ID, n.ID), service.ErrNotFound)
	})
}
