package activity

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, kind := range []string{"net_salary", "retirement_pay", "net_salary"} {
		_, err := s.Record(ctx, kind)
		require.NoError(t, err)
	}

	events, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "net_salary", events[0].Kind)
	assert.Equal(t, "retirement_pay", events[1].Kind)
	assert.True(t, base.Add(3*time.Minute).Equal(events[0].CreatedAt), "got %s", events[0].CreatedAt)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestRecentDefaultsAndEmpty(t *testing.T) {
	s := openStore(t)

	events, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestCounts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, kind := range []string{"net_salary", "percentile", "net_salary"} {
		_, err := s.Record(ctx, kind)
		require.NoError(t, err)
	}

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"net_salary": 2, "percentile": 1}, counts)
}

func TestRecordRequiresKind(t *testing.T) {
	_, err := openStore(t).Record(context.Background(), "")
	require.Error(t, err)
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), "net_salary")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
