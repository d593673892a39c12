// ABOUTME: Applies pending schema migrations in order, one transaction each.
// ABOUTME: The applied version is tracked in SQLite's PRAGMA user_version.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// migrate brings the schema up to date and returns the version the store
// was at before any migration ran. Zero means the store is new.
func (d *DB) migrate(ctx context.Context) (int, error) {
	current, err := d.userVersion(ctx)
	if err != nil {
		return 0, err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := d.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.script); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
			}
			// PRAGMA does not accept bound parameters
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
		d.log.Debug("applied migration", "version", m.version, "name", m.name)
	}

	return current, nil
}

// userVersion reads the schema version recorded in the database header.
func (d *DB) userVersion(ctx context.Context) (int, error) {
	var v int
	if err := d.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
