package model

import (
	"encoding/json"
	"time"
)

type ChangeOp string

const (
	OpCreate  ChangeOp = "create"
	OpReplace ChangeOp = "replace"
	OpDelete  ChangeOp = "delete"
)

func (o ChangeOp) String() string { return string(o) }

// ChangeEvent is the payload published to Kafka after a successful store mutation.
type ChangeEvent struct {
	ID        string          `json:"id" db:"id"` // ULID
	EntitySet string          `json:"entity_set" db:"entity_set"`
	Op        ChangeOp        `json:"op" db:"op"`
	Key       int64           `json:"key" db:"entity_key"`
	At        time.Time       `json:"at" db:"at"`
	Payload   json.RawMessage `json:"payload,omitempty" db:"payload"` // empty on delete
}
