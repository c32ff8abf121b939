package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SplitStatements splits a SQL script on ';', dropping "--" comment lines and empty statements.
// Semicolons inside string literals or function bodies are not supported.
func SplitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ApplyScript runs every statement of script inside one transaction
func ApplyScript(ctx context.Context, db *sql.DB, script string) (int, error) {
	stmts := SplitStatements(script)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return i, fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return len(stmts), nil
}
