// database/migrate.go - Schema Migration Runner
package database

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// RunMigrations applies the schema for the connected dialect. Every statement
// is idempotent, so it runs on each start.
func RunMigrations(db *gorm.DB, log *slog.Logger) error {
	dialect := db.Dialector.Name()
	log.Debug("running database migrations", slog.String("dialect", dialect))

	raw, err := schemaFS.ReadFile("schema/" + dialect + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}

	for _, stmt := range splitStatements(string(raw)) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply migration %q: %w", firstLine(stmt), err)
		}
	}

	log.Debug("database migrations finished")
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(stmt, "\n")
	return strings.TrimSpace(line)
}
