package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL      = "mysql"
	DriverClickHouse = "clickhouse"
)

type AuditOpts struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// NewAuditConnection opens the audit sink with the configured driver.
func NewAuditConnection(opts AuditOpts) (*sqlx.DB, error) {
	switch opts.Driver {
	case DriverMySQL:
		return NewMySQLConnection(opts.DSN, MySQLOpts{
			MaxOpenConns:    opts.MaxOpenConns,
			MaxIdleConns:    opts.MaxIdleConns,
			ConnMaxLifetime: opts.ConnMaxLifetime,
			ConnMaxIdleTime: opts.ConnMaxIdleTime,
			PingTimeout:     opts.PingTimeout,
		})
	case DriverClickHouse:
		return NewClickHouseConnection(ClickHouseOpts{
			DSN:             opts.DSN,
			MaxOpenConns:    opts.MaxOpenConns,
			MaxIdleConns:    opts.MaxIdleConns,
			ConnMaxLifetime: opts.ConnMaxLifetime,
			ConnMaxIdleTime: opts.ConnMaxIdleTime,
			PingTimeout:     opts.PingTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported audit driver %q", opts.Driver)
	}
}
