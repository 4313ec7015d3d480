package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/storage/images"
)

type fakeBills struct {
	inUse map[string]bool
	err   error
}

func (f fakeBills) ImageInUse(_ context.Context, name string) (bool, error) {
	return f.inUse[name], f.err
}

func putAged(t *testing.T, dir string, store *images.Store, age time.Duration) string {
	t.Helper()
	name, err := store.Put(context.Background(), "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	ts := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(filepath.Join(dir, name), ts, ts))
	return name
}

func TestJanitor_Sweep(t *testing.T) {
	dir := t.TempDir()
	store, err := images.New(dir, "http://localhost:8080")
	require.NoError(t, err)

	fresh := putAged(t, dir, store, time.Minute)
	orphan := putAged(t, dir, store, 48*time.Hour)
	kept := putAged(t, dir, store, 48*time.Hour)

	j := NewJanitor(store, fakeBills{inUse: map[string]bool{kept: true}}, 24*time.Hour)

	n, err := j.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := store.List()
	require.NoError(t, err)
	var names []string
	for _, info := range list {
		names = append(names, info.Name)
	}
	assert.ElementsMatch(t, []string{fresh, kept}, names)
	assert.NotContains(t, names, orphan)
}

func TestJanitor_SweepStopsOnLookupError(t *testing.T) {
	dir := t.TempDir()
	store, err := images.New(dir, "")
	require.NoError(t, err)
	putAged(t, dir, store, 48*time.Hour)

	boom := errors.New("db down")
	j := NewJanitor(store, fakeBills{err: boom}, time.Hour)

	n, err := j.Sweep(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)

	list, err := store.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("@hourly"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("every hour"))
	assert.Error(t, ValidateSchedule(""))
}

func TestJanitor_RunStopsWithContext(t *testing.T) {
	store, err := images.New(t.TempDir(), "")
	require.NoError(t, err)
	j := NewJanitor(store, fakeBills{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx, "@every 10ms") }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestJanitor_RunRejectsBadSchedule(t *testing.T) {
	store, err := images.New(t.TempDir(), "")
	require.NoError(t, err)
	j := NewJanitor(store, fakeBills{}, time.Hour)

	assert.Error(t, j.Run(context.Background(), "not a schedule"))
}
