package remote

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/task"
)

func testRemote(t *testing.T) *SQLite {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testTask(t *testing.T, title, start, end string) *task.Task {
	t.Helper()
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)
	tk, err := task.New(title, day, start, end, task.EnergyHigh, task.UrgencyLow)
	require.NoError(t, err)
	return tk
}

func TestInsertAssignsAuthoritativeID(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	tk := testTask(t, "persisted", "09:00", "10:00")
	require.True(t, tk.IsTemp())

	confirmed, err := s.Insert(ctx, tk)
	require.NoError(t, err)
	assert.False(t, confirmed.IsTemp(), "insert must replace the temp id")
	assert.NotEqual(t, tk.ID, confirmed.ID)

	got, err := s.GetTask(ctx, confirmed.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "persisted", got.Title)
	assert.Equal(t, "09:00", got.Start())
	assert.Equal(t, "10:00", got.End())
	assert.Equal(t, task.EnergyHigh, got.Energy)
}

func TestInsertKeepsEstablishedID(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	tk := testTask(t, "reborn", "09:00", "10:00")
	tk.ID = "established-id"

	confirmed, err := s.Insert(ctx, tk)
	require.NoError(t, err)
	assert.Equal(t, "established-id", confirmed.ID,
		"undo re-inserts must keep the original identity")
}

func TestUpdateRoundTrip(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	confirmed, err := s.Insert(ctx, testTask(t, "before", "09:00", "10:00"))
	require.NoError(t, err)

	confirmed.Title = "after"
	end := "11:30"
	confirmed.EndTime = &end
	require.NoError(t, s.Update(ctx, confirmed.ID, confirmed))

	got, err := s.GetTask(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "11:30", got.End())
}

func TestUpdateMissingRow(t *testing.T) {
	s := testRemote(t)
	err := s.Update(context.Background(), "nope", testTask(t, "x", "09:00", "10:00"))
	assert.True(t, errors.Is(err, task.ErrTaskNotFound))
}

func TestDelete(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	confirmed, err := s.Insert(ctx, testTask(t, "gone", "09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, confirmed.ID))
	got, err := s.GetTask(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "deleted task must be gone")

	err = s.Delete(ctx, confirmed.ID)
	assert.True(t, errors.Is(err, task.ErrTaskNotFound))
}

func TestListTasksOrder(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	later := testTask(t, "later", "14:00", "15:00")
	early := testTask(t, "early", "08:00", "09:00")
	untimed := testTask(t, "untimed", "", "")
	inbox, err := task.New("inbox", time.Time{}, "", "", "", "")
	require.NoError(t, err)

	for _, tk := range []*task.Task{later, early, untimed, inbox} {
		_, err := s.Insert(ctx, tk)
		require.NoError(t, err)
	}

	got, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Scheduled timed first by start, then the day's untimed, inbox last.
	assert.Equal(t, "early", got[0].Title)
	assert.Equal(t, "later", got[1].Title)
	assert.Equal(t, "untimed", got[2].Title)
	assert.Equal(t, "inbox", got[3].Title)
}

func TestNullableFieldsSurviveRoundTrip(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()

	inbox, err := task.New("bare", time.Time{}, "", "", "", "")
	require.NoError(t, err)

	confirmed, err := s.Insert(ctx, inbox)
	require.NoError(t, err)

	got, err := s.GetTask(ctx, confirmed.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.StartTime)
	assert.Nil(t, got.EndTime)
	assert.False(t, got.Timed())
	assert.False(t, got.Scheduled())
}

func TestChangeFeed(t *testing.T) {
	s := testRemote(t)
	ctx := context.Background()
	feed := s.Subscribe()

	confirmed, err := s.Insert(ctx, testTask(t, "watched", "09:00", "10:00"))
	require.NoError(t, err)

	ev := <-feed
	assert.Equal(t, store.ChangeInsert, ev.Type)
	assert.Equal(t, confirmed.ID, ev.ID)
	require.NotNil(t, ev.Row)
	assert.Equal(t, "watched", ev.Row.Title)

	confirmed.Title = "renamed"
	require.NoError(t, s.Update(ctx, confirmed.ID, confirmed))
	ev = <-feed
	assert.Equal(t, store.ChangeUpdate, ev.Type)
	assert.Equal(t, "renamed", ev.Row.Title)

	require.NoError(t, s.Delete(ctx, confirmed.ID))
	ev = <-feed
	assert.Equal(t, store.ChangeDelete, ev.Type)
	assert.Equal(t, confirmed.ID, ev.ID)
	assert.Nil(t, ev.Row)
}

func TestCloseEndsFeeds(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)

	feed := s.Subscribe()
	require.NoError(t, s.Close())

	_, open := <-feed
	assert.False(t, open, "feed must close with the remote")
}
