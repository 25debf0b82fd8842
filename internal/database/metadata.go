package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const lastWarmRunKey = "last_warm_run"

// GetMetadata retrieves a metadata value by key.
// Returns sql.ErrNoRows if the key doesn't exist.
func (d *Database) GetMetadata(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var value string
	err := d.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata sets a metadata key-value pair.
func (d *Database) SetMetadata(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetLastWarmRun returns when the warm command last completed.
// Returns zero time if never run.
func (d *Database) GetLastWarmRun(ctx context.Context) (time.Time, error) {
	value, err := d.GetMetadata(ctx, lastWarmRunKey)
	if errors.Is(err, sql.ErrNoRows) {
		// Key doesn't exist, never run
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return timestamp, nil
}

// SetLastWarmRun stores when the warm command last completed.
func (d *Database) SetLastWarmRun(ctx context.Context, t time.Time) error {
	if t.IsZero() {
		// Clear the value
		return d.SetMetadata(ctx, lastWarmRunKey, "")
	}
	return d.SetMetadata(ctx, lastWarmRunKey, t.Format(time.RFC3339))
}
