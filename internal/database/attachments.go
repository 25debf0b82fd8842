package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"image-resizer/internal/media"
)

// Attachment is an uploaded original image.
type Attachment struct {
	ID       int64
	FilePath string
	URL      string
	Width    int
	Height   int
	// HasMetadata is false for attachments imported without a size
	// metadata record; the resolver will not record sizes for them until
	// one is written.
	HasMetadata bool
	CreatedAt   time.Time
}

// RegisterAttachment records an uploaded file, or updates the record that
// already exists for the same path, and returns its id.
func (d *Database) RegisterAttachment(ctx context.Context, a Attachment) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("insert_attachment", start, err) }()

	if a.FilePath == "" || a.URL == "" {
		err = fmt.Errorf("attachment needs a file path and URL")
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id int64
	err = d.db.QueryRowContext(ctx, `
		INSERT INTO attachments (file_path, url, width, height, has_metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			url = excluded.url,
			width = excluded.width,
			height = excluded.height,
			has_metadata = excluded.has_metadata
		RETURNING id
	`, a.FilePath, a.URL, a.Width, a.Height, a.HasMetadata).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to register %s: %w", a.FilePath, err)
	}
	return id, nil
}

// GetAttachment retrieves an attachment by id. It returns media.ErrNotFound
// when there is none.
func (d *Database) GetAttachment(ctx context.Context, id int64) (*Attachment, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_attachment", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a Attachment
	var createdAt int64
	err = d.db.QueryRowContext(ctx, `
		SELECT id, file_path, url, width, height, has_metadata, created_at
		FROM attachments WHERE id = ?
	`, id).Scan(&a.ID, &a.FilePath, &a.URL, &a.Width, &a.Height, &a.HasMetadata, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, fmt.Errorf("attachment %d: %w", id, media.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// ListAttachmentIDs returns the ids of all attachments in ascending order.
func (d *Database) ListAttachmentIDs(ctx context.Context) ([]int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_attachments", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, "SELECT id FROM attachments ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	return ids, err
}

// Original returns the URL and dimensions of the uploaded image.
func (d *Database) Original(ctx context.Context, id int64) (media.Image, error) {
	a, err := d.GetAttachment(ctx, id)
	if err != nil {
		return media.Image{}, err
	}
	return media.Image{URL: a.URL, Width: a.Width, Height: a.Height}, nil
}

// SourcePath returns the absolute path of the uploaded file.
func (d *Database) SourcePath(ctx context.Context, id int64) (string, error) {
	a, err := d.GetAttachment(ctx, id)
	if err != nil {
		return "", err
	}
	return a.FilePath, nil
}
