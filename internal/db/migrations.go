package db

import (
	"embed"
	"fmt"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migration returns the DDL of the audit table for the given driver.
func Migration(driver string) (string, error) {
	b, err := migrations.ReadFile("migrations/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no migration for driver %q: %w", driver, err)
	}
	return string(b), nil
}
