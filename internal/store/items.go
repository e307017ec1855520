package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/izgubljeno/internal/model"
)

// SQLite is the durable item store. Both partitions live in the items table,
// selected by the type column.
type SQLite struct {
	DB *sql.DB
}

var (
	_ Items  = (*SQLite)(nil)
	_ Images = (*SQLite)(nil)
)

const itemColumns = `id, name, category, location, date, description, image_url, contact_info,
	user_id, user_name, type, status, created_at`

// Create creates a new item.
func (s *SQLite) Create(ctx context.Context, in model.ItemInput, userID, userName string) (*model.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO items (id, name, category, location, date, description, image_url, contact_info,
		                    user_id, user_name, type, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+itemColumns,
		uuid.NewString(), in.Name, string(in.Category), in.Location, in.Date.UTC(), in.Description, in.ImageURL,
		in.ContactInfo, userID, userName, string(in.Type), string(model.StatusSearching), time.Now().UTC(),
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// GetByID returns an item by ID.
func (s *SQLite) GetByID(ctx context.Context, id string) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListByType returns one partition in creation order.
func (s *SQLite) ListByType(ctx context.Context, t model.Type) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE type = ? ORDER BY rowid`, string(t),
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", t, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByUser returns the user's lost items followed by their found items.
func (s *SQLite) ListByUser(ctx context.Context, userID string) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE user_id = ?
		 ORDER BY CASE type WHEN 'lost' THEN 0 ELSE 1 END, rowid`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateStatus replaces an item's status.
func (s *SQLite) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	row := s.DB.QueryRowContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? RETURNING `+itemColumns, string(status), id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating item status: %w", err)
	}
	return item, nil
}

// UpdateOwnStatus changes the status of an item owned by userID. Ownership
// and the allowed source statuses are part of the UPDATE predicate.
func (s *SQLite) UpdateOwnStatus(ctx context.Context, id, userID string, status model.Status) (*model.Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	from := model.PredecessorsOf(status)

	args := []any{string(status), id, userID}
	for _, f := range from {
		args = append(args, string(f))
	}

	row := s.DB.QueryRowContext(ctx,
		`UPDATE items SET status = ?
		 WHERE id = ? AND user_id = ? AND status IN (`+placeholders(len(from))+`)
		 RETURNING `+itemColumns,
		args...,
	)
	item, err := scanItem(row)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating item status: %w", err)
	}

	// Nothing changed; tell a missing or foreign item apart from a refused transition.
	var current string
	err = s.DB.QueryRowContext(ctx,
		`SELECT status FROM items WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking item status: %w", err)
	}
	return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, status)
}

// Claim marks a searching item as claimed by someone other than its creator.
func (s *SQLite) Claim(ctx context.Context, id, claimantID string) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`UPDATE items SET status = ?
		 WHERE id = ? AND user_id <> ? AND status = ?
		 RETURNING `+itemColumns,
		string(model.StatusClaimed), id, claimantID, string(model.StatusSearching),
	)
	item, err := scanItem(row)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("claiming item: %w", err)
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrNotClaimable
}

// Delete removes an item owned by userID.
func (s *SQLite) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return n > 0, nil
}

// Ping checks the database connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// IsTransient reports whether err is a SQLite busy or locked condition
// that is worth retrying.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var category, itemType, status string
	var date, createdAt sqlTime
	err := row.Scan(&item.ID, &item.Name, &category, &item.Location, &date, &item.Description,
		&item.ImageURL, &item.ContactInfo, &item.UserID, &item.UserName, &itemType, &status, &createdAt)
	if err != nil {
		return nil, err
	}
	item.Date = time.Time(date)
	item.CreatedAt = time.Time(createdAt)
	item.Category = model.Category(category)
	item.Type = model.Type(itemType)
	item.Status = model.Status(status)
	return item, nil
}

// sqlTime scans a timestamp column. The driver converts columns declared
// DATE or DATETIME to time.Time, but RETURNING results come back as text.
type sqlTime time.Time

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *sqlTime) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case time.Time:
		*t = sqlTime(v)
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			*t = sqlTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized time %q", text)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
