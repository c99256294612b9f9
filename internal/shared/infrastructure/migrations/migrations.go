// Package migrations applies the embedded database schema at startup.
// Every statement is idempotent, so running the full set on every boot is
// safe for both fresh and existing databases.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

// Run executes all migrations for the connection's driver in order.
func Run(ctx context.Context, conn database.Connection) error {
	dir := conn.Driver().String()

	entries, err := migrationFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, file := range upFiles {
		migration, err := migrationFS.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		for _, stmt := range splitStatements(string(migration)) {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", file, err)
			}
		}
	}

	return nil
}

// splitStatements breaks a migration file into individual statements.
// pgx's simple Exec runs one statement at a time.
func splitStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			stmts = append(stmts, p)
		}
	}
	return stmts
}
