// Package migrate wraps goose for schema management. Migrations live as SQL
// files under DefaultDir and run against Postgres; the sqlite dev flavor
// bypasses goose entirely (see MaybeRunDev).
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the SQL migration files live relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

var knownCommands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"status":    true,
	"version":   true,
}

// Run executes a goose command against the given connection.
func Run(ctx context.Context, conn *sql.DB, dir string, command string, args ...string) error {
	switch {
	case conn == nil:
		return fmt.Errorf("db is required")
	case dir == "":
		return fmt.Errorf("dir is required")
	case !knownCommands[command]:
		return fmt.Errorf("unsupported migrate command %q", command)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
