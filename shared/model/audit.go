package model

import "time"

// Audit is embedded in append-only rows: who wrote the row and when.
type Audit struct {
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}
