package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Prediction records one inference run served by the demo.
type Prediction struct {
	bun.BaseModel `bun:"table:predictions"`

	ID         uuid.UUID    `bun:",pk"`
	Dataset    string       `bun:",notnull"`
	Model      string       `bun:",notnull"`
	Sample     string       `bun:",notnull"`
	ResultUrl  string       `bun:",notnull"`
	DurationMs int64        `bun:",notnull"`
	CreatedAt  bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
}
