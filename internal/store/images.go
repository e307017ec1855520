package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PutImage stores an image blob under id.
func (s *SQLite) PutImage(ctx context.Context, id string, data []byte, mime string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO images (id, data, mime, created_at) VALUES (?, ?, ?, ?)`,
		id, data, mime, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing image: %w", err)
	}
	return nil
}

// GetImage returns an image's data and MIME type.
func (s *SQLite) GetImage(ctx context.Context, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.DB.QueryRowContext(ctx,
		`SELECT data, mime FROM images WHERE id = ?`, id,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}
