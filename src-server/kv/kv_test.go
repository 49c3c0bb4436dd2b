package kv_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"remind/src-server/kv"
	"remind/src-server/model"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type countingObserver struct {
	mu     sync.Mutex
	reads  int
	writes int
}

func (o *countingObserver) ObserveRead(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reads++
}

func (o *countingObserver) ObserveWrite(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes++
}

func newSQLite(t *testing.T, observer kv.LatencyObserver) *kv.SQLite {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// one connection, otherwise every conn gets its own in-memory database
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })
	require.NoError(t, model.CreateSchema(context.Background(), bundb))
	return kv.NewSQLite(bundb, observer)
}

func newFile(t *testing.T, observer kv.LatencyObserver) *kv.File {
	t.Helper()
	f, err := kv.NewFile(afero.NewMemMapFs(), "/data", observer)
	require.NoError(t, err)
	return f
}

func TestBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.KV{
		"memory": func(t *testing.T) kv.KV { return kv.NewMemory() },
		"sqlite": func(t *testing.T) kv.KV { return newSQLite(t, nil) },
		"file":   func(t *testing.T) kv.KV { return newFile(t, nil) },
	}
	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newKV(t)

			_, ok, err := store.Get(ctx, "events")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "events", `[{"id":"1"}]`))
			v, ok, err := store.Get(ctx, "events")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, v)

			// overwrite
			require.NoError(t, store.Set(ctx, "events", `[]`))
			v, _, err = store.Get(ctx, "events")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)

			require.NoError(t, store.Remove(ctx, "events"))
			_, ok, err = store.Get(ctx, "events")
			require.NoError(t, err)
			assert.False(t, ok)

			// removing twice is fine
			require.NoError(t, store.Remove(ctx, "events"))
		})
	}
}

func TestObserverCalled(t *testing.T) {
	ctx := context.Background()
	for name, newKV := range map[string]func(t *testing.T, o kv.LatencyObserver) kv.KV{
		"sqlite": func(t *testing.T, o kv.LatencyObserver) kv.KV { return newSQLite(t, o) },
		"file":   func(t *testing.T, o kv.LatencyObserver) kv.KV { return newFile(t, o) },
	} {
		t.Run(name, func(t *testing.T) {
			o := &countingObserver{}
			store := newKV(t, o)
			require.NoError(t, store.Set(ctx, "k", "v"))
			_, _, err := store.Get(ctx, "k")
			require.NoError(t, err)
			require.NoError(t, store.Remove(ctx, "k"))
			assert.Equal(t, 1, o.reads)
			assert.Equal(t, 2, o.writes)
		})
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	f := newFile(t, nil)
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, f.Set(context.Background(), key, "x"), key)
	}
}

func TestFileLayout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	f, err := kv.NewFile(fsys, "/var/remind", nil)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), "events", "[]"))

	data, err := afero.ReadFile(fsys, "/var/remind/events.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	exists, err := afero.Exists(fsys, "/var/remind/events.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}
