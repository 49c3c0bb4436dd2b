package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"remind/src-server/model"

	"github.com/uptrace/bun"
)

// SQLite keeps entries in the kv_entries table. The table must exist, see
// model.CreateSchema.
type SQLite struct {
	db       bun.IDB
	observer LatencyObserver
}

func NewSQLite(db bun.IDB, observer LatencyObserver) *SQLite {
	if observer == nil {
		observer = nopObserver{}
	}
	return &SQLite{db: db, observer: observer}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	startTimer := time.Now()
	entry := new(model.KVEntry)
	err := s.db.NewSelect().
		Model(entry).
		Where("key = ?", key).
		Scan(ctx)
	s.observer.ObserveRead(time.Since(startTimer))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("(*SQLite).Get: %w", err)
	}
	return entry.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	startTimer := time.Now()
	entry := &model.KVEntry{
		Key:              key,
		Value:            value,
		UpdatedAtUnixUTC: time.Now().UTC().Unix(),
	}
	if _, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*SQLite).Set: %w", err)
	}
	s.observer.ObserveWrite(time.Since(startTimer))
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	startTimer := time.Now()
	if _, err := s.db.NewDelete().
		Model((*model.KVEntry)(nil)).
		Where("key = ?", key).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*SQLite).Remove: %w", err)
	}
	s.observer.ObserveWrite(time.Since(startTimer))
	return nil
}
