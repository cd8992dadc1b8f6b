package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// AuditRepository stores change events in the audit sink (MySQL or ClickHouse).
type AuditRepository interface {
	InsertBatch(ctx context.Context, events []model.ChangeEvent) error
}

type auditRepository struct {
	db    *sqlx.DB
	table string
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func NewAuditRepository(db *sqlx.DB, table string) (AuditRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid audit table name %q", table)
	}
	return &auditRepository{db: db, table: table}, nil
}

// InsertBatch writes all events in one transaction. ClickHouse turns the
// prepared statement into a single block insert and its ReplacingMergeTree
// collapses duplicates; MySQL skips them by primary key.
func (r *auditRepository) InsertBatch(ctx context.Context, events []model.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	verb := "INSERT INTO "
	if r.db.DriverName() == "mysql" {
		// redelivered events carry the same id
		verb = "INSERT IGNORE INTO "
	}
	q := verb + r.table + ` (id, entity_set, op, entity_key, at, payload) VALUES (?, ?, ?, ?, ?, ?)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare audit insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.ID, e.EntitySet, e.Op.String(), e.Key, e.At.UTC(), r.payload(e)); err != nil {
			return fmt.Errorf("insert audit %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// payload is NULL for deletes on MySQL (JSON column) and "" on ClickHouse.
func (r *auditRepository) payload(e model.ChangeEvent) any {
	if len(e.Payload) == 0 && r.db.DriverName() == "mysql" {
		return nil
	}
	return string(e.Payload)
}
