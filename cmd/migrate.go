package cmd

import (
	"fmt"
	"strings"

	"github.com/jmehdipour/odata-gateway/internal/config"
	"github.com/jmehdipour/odata-gateway/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the audit table in the configured audit sink",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ddl, err := db.Migration(cfg.Audit.Driver)
		if err != nil {
			return err
		}
		if cfg.Audit.Table != "" && cfg.Audit.Table != "change_events" {
			ddl = strings.Replace(ddl, "change_events", cfg.Audit.Table, 1)
		}

		sqlDB, err := db.NewAuditConnection(auditOpts(cfg))
		if err != nil {
			return fmt.Errorf("open audit sink: %w", err)
		}
		defer sqlDB.Close()

		if _, err := sqlDB.ExecContext(cmd.Context(), ddl); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}

		fmt.Printf(">> Migration complete (%s, table %s)\n", cfg.Audit.Driver, cfg.Audit.Table)
		return nil
	},
}

func auditOpts(cfg config.Config) db.AuditOpts {
	return db.AuditOpts{
		Driver:          cfg.Audit.Driver,
		DSN:             cfg.Audit.DSN,
		MaxOpenConns:    cfg.Audit.MaxOpenConns,
		MaxIdleConns:    cfg.Audit.MaxIdleConns,
		ConnMaxLifetime: cfg.Audit.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Audit.ConnMaxIdleTime,
		PingTimeout:     cfg.Audit.PingTimeout,
	}
}
