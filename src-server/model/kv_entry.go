package model

import (
	"github.com/uptrace/bun"
)

// KVEntry is one row of the key-value table backing persisted snapshots.
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key              string `bun:"key,pk"`
	Value            string `bun:"value,notnull"`
	UpdatedAtUnixUTC int64  `bun:"updated_at,notnull"`
}
