package store

import (
	"context"
	"database/sql"
	"fmt"

	"quotebot/internal/models"
)

const quoteColumns = "quoteid, message, image_name, safety, author, timestamp"

// CreateQuote inserts a quote and returns its newly allocated id. Ids start
// at 1 on an empty store and increase monotonically; the AUTOINCREMENT
// sequence persists across restarts and never reuses a deleted id. The
// insert commits before the id is returned.
func (s *Store) CreateQuote(ctx context.Context, quote *models.Quote) (int64, error) {
	if err := quote.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (message, image_name, safety, author, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		nullIfEmpty(quote.Text),
		nullIfEmpty(quote.ImageName),
		int(quote.Safety),
		quote.Author,
		quote.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	quote.ID = id
	return id, nil
}

// ImportQuote inserts a quote under its existing id, preserving metadata.
// Used by the import command; the AUTOINCREMENT sequence advances past the
// imported id so later creations stay monotonic.
func (s *Store) ImportQuote(ctx context.Context, quote *models.Quote) error {
	if quote.ID <= 0 {
		return fmt.Errorf("import requires a positive id")
	}
	if err := quote.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (quoteid, message, image_name, safety, author, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		quote.ID,
		nullIfEmpty(quote.Text),
		nullIfEmpty(quote.ImageName),
		int(quote.Safety),
		quote.Author,
		quote.CreatedAt,
	)
	return err
}

// GetQuote returns a quote by id, or ErrNotFound.
func (s *Store) GetQuote(ctx context.Context, id int64) (*models.Quote, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE quoteid = ?`, id)
	quote, err := scanQuote(row)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrNotFound
	}
	return quote, nil
}

// QuoteExists checks whether a quote exists by id.
func (s *Store) QuoteExists(ctx context.Context, id int64) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM quotes WHERE quoteid = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteQuote removes a quote and returns the image name it referenced, if
// any, so the caller can remove the backing file. Returns ErrNotFound when
// the id is not in the store.
func (s *Store) DeleteQuote(ctx context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var imageName sql.NullString
	err = tx.QueryRowContext(ctx, "SELECT image_name FROM quotes WHERE quoteid = ?", id).Scan(&imageName)
	if err == sql.ErrNoRows {
		err = ErrNotFound
		return "", err
	}
	if err != nil {
		return "", err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM quotes WHERE quoteid = ?", id); err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return imageName.String, nil
}

// FindByText returns ids of quotes whose text contains the needle,
// case-insensitively, in ascending id order. Image-only quotes never match.
// An empty needle matches every quote that has text.
func (s *Store) FindByText(ctx context.Context, needle string) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT quoteid FROM quotes
		WHERE message IS NOT NULL AND message LIKE ?
		ORDER BY quoteid ASC
	`, "%"+needle+"%")
}

// FindByAuthor returns ids of quotes whose author matches the name exactly,
// case-insensitively, in ascending id order.
func (s *Store) FindByAuthor(ctx context.Context, author string) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT quoteid FROM quotes
		WHERE author = ? COLLATE NOCASE
		ORDER BY quoteid ASC
	`, author)
}

// CountQuotes returns the total number of quotes regardless of safety.
func (s *Store) CountQuotes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&count)
	return count, err
}

// MostRecentID returns the highest id among quotes at or below the safety
// ceiling, or ErrNotFound when none qualify.
func (s *Store) MostRecentID(ctx context.Context, max models.SafetyLevel) (int64, error) {
	var id sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(quoteid) FROM quotes WHERE safety <= ?", int(max)).Scan(&id)
	if err != nil {
		return 0, err
	}
	if !id.Valid {
		return 0, ErrNotFound
	}
	return id.Int64, nil
}

// RandomID selects a uniformly random quote at or below the safety ceiling,
// optionally restricted to quotes with an image. The second return is false
// when nothing qualifies; that is a routine outcome, not an error.
func (s *Store) RandomID(ctx context.Context, requireImage bool, max models.SafetyLevel) (int64, bool, error) {
	query := "SELECT quoteid FROM quotes WHERE safety <= ? ORDER BY RANDOM() LIMIT 1"
	if requireImage {
		query = "SELECT quoteid FROM quotes WHERE safety <= ? AND image_name IS NOT NULL ORDER BY RANDOM() LIMIT 1"
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query, int(max)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// SetSafety updates the safety level of a quote in place.
func (s *Store) SetSafety(ctx context.Context, id int64, level models.SafetyLevel) error {
	if !models.IsValidSafety(level) {
		return fmt.Errorf("invalid safety level: %d", level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE quotes SET safety = ? WHERE quoteid = ?", int(level), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AllQuotes returns every quote in ascending id order. Used by export.
func (s *Store) AllQuotes(ctx context.Context) ([]models.Quote, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY quoteid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, rows.Err()
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanQuote(scanner interface {
	Scan(dest ...any) error
}) (*models.Quote, error) {
	var quote models.Quote
	var message, imageName sql.NullString
	var safety int
	var timestamp sql.NullFloat64

	if err := scanner.Scan(
		&quote.ID,
		&message,
		&imageName,
		&safety,
		&quote.Author,
		&timestamp,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	quote.Text = message.String
	quote.ImageName = imageName.String
	quote.Safety = models.SafetyLevel(safety)
	quote.CreatedAt = timestamp.Float64

	return &quote, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
