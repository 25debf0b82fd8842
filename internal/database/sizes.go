package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"image-resizer/internal/media"
)

// SizeMetadata returns the recorded sizes of an attachment. It returns
// media.ErrNoMetadata when the attachment is unknown or has no metadata
// record.
func (d *Database) SizeMetadata(ctx context.Context, id int64) (media.SizeMetadata, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_size_metadata", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var hasMetadata bool
	err = d.db.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT has_metadata FROM attachments WHERE id = ?), 0)
	`, id).Scan(&hasMetadata)
	if err != nil {
		return nil, err
	}
	if !hasMetadata {
		return nil, fmt.Errorf("attachment %d: %w", id, media.ErrNoMetadata)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT size_name, file, width, height, COALESCE(mime_type, ''), generated
		FROM attachment_sizes WHERE attachment_id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sizes := media.SizeMetadata{}
	for rows.Next() {
		var name string
		var entry media.SizeMetadataEntry
		if err = rows.Scan(&name, &entry.File, &entry.Width, &entry.Height, &entry.MimeType, &entry.Generated); err != nil {
			return nil, err
		}
		sizes[name] = entry
	}
	err = rows.Err()
	return sizes, err
}

// PutSizeMetadata replaces the recorded sizes of an attachment with sizes
// in a single transaction. It returns media.ErrNotFound when the attachment
// is unknown.
func (d *Database) PutSizeMetadata(ctx context.Context, id int64, sizes media.SizeMetadata) (err error) {
	start := time.Now()
	defer func() { recordQuery("put_size_metadata", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.BeginBatch()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { err = d.EndBatch(tx, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := tx.ExecContext(ctx, "UPDATE attachments SET has_metadata = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("attachment %d: %w", id, media.ErrNotFound)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM attachment_sizes WHERE attachment_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attachment_sizes (attachment_id, size_name, file, width, height, mime_type, generated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	// Stable insert order keeps the table readable when inspected by hand
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := sizes[name]
		if _, err = stmt.ExecContext(ctx, id, name, e.File, e.Width, e.Height, e.MimeType, e.Generated); err != nil {
			return fmt.Errorf("failed to save size %q: %w", name, err)
		}
	}
	return nil
}
