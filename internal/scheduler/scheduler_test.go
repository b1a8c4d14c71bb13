package scheduler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bom-sourcing/internal/catalog"
)

type fakeCounter struct {
	c   catalog.Counts
	err error
}

func (f fakeCounter) Counts(context.Context) (catalog.Counts, error) { return f.c, f.err }

func TestMetaStore(t *testing.T) {
	m := NewMetaStore(filepath.Join(t.TempDir(), "data", "metadata.json"))
	assert.True(t, m.LastUpdate().IsZero())
	_, ok := m.Progress("x")
	assert.False(t, ok)

	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, m.SetLastUpdate(ts))
	require.NoError(t, m.WriteProgress("x", Progress{Pct: 50, Done: 3, Status: "running"}))

	assert.True(t, ts.Equal(m.LastUpdate()))
	p, ok := m.Progress("x")
	require.True(t, ok)
	assert.Equal(t, Progress{Pct: 50, Done: 3, Status: "running"}, p)

	reopened := NewMetaStore(m.path)
	assert.True(t, ts.Equal(reopened.LastUpdate()))
}

func TestRefresh(t *testing.T) {
	m := NewMetaStore(filepath.Join(t.TempDir(), "metadata.json"))
	s := New(m, fakeCounter{c: catalog.Counts{Suppliers: 3, Parts: 42}}, zerolog.Nop())
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return ts }

	require.NoError(t, s.Refresh(context.Background()))
	assert.True(t, ts.Equal(m.LastUpdate()))
	p, _ := m.Progress(RefreshKey)
	assert.Equal(t, Progress{Pct: 100, Done: 42, Status: "done"}, p)
}

func TestRefreshFailure(t *testing.T) {
	m := NewMetaStore(filepath.Join(t.TempDir(), "metadata.json"))
	s := New(m, fakeCounter{err: errors.New("db down")}, zerolog.Nop())

	assert.Error(t, s.Refresh(context.Background()))
	assert.True(t, m.LastUpdate().IsZero())
	p, _ := m.Progress(RefreshKey)
	assert.Equal(t, "failed", p.Status)
}

func TestTriggerAndStop(t *testing.T) {
	m := NewMetaStore(filepath.Join(t.TempDir(), "metadata.json"))
	s := New(m, fakeCounter{c: catalog.Counts{Parts: 1}}, zerolog.Nop())
	require.NoError(t, s.Start("@every 1h"))
	s.Trigger()
	s.Stop()
	assert.False(t, m.LastUpdate().IsZero())

	assert.Error(t, New(m, fakeCounter{}, zerolog.Nop()).Start("not a spec"))
}

type blockingCounter struct {
	entered chan struct{}
	release chan struct{}
}

func (b blockingCounter) Counts(context.Context) (catalog.Counts, error) {
	b.entered <- struct{}{}
	<-b.release
	return catalog.Counts{Parts: 2}, nil
}

func TestTriggerWhileRunning(t *testing.T) {
	m := NewMetaStore(filepath.Join(t.TempDir(), "metadata.json"))
	bc := blockingCounter{entered: make(chan struct{}), release: make(chan struct{})}
	s := New(m, bc, zerolog.Nop())

	require.True(t, s.Trigger())
	<-bc.entered
	assert.False(t, s.Trigger())
	assert.NoError(t, s.Refresh(context.Background()))

	close(bc.release)
	s.Stop()
	p, _ := m.Progress(RefreshKey)
	assert.Equal(t, Progress{Pct: 100, Done: 2, Status: "done"}, p)

	// the flag is released once the job finishes
	bc.entered = make(chan struct{}, 1)
	s.catalog = bc
	require.True(t, s.Trigger())
	s.Stop()
}

func TestRefreshLogsProgressWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	m := NewMetaStore(filepath.Join(blocker, "metadata.json"))

	var buf bytes.Buffer
	s := New(m, fakeCounter{err: errors.New("db down")}, zerolog.New(&buf))
	assert.Error(t, s.Refresh(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "write refresh progress")
	assert.Contains(t, out, `"status":"running"`)
	assert.Contains(t, out, `"status":"failed"`)
}
