package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// InsertTitle stores a title produced by the import pipeline. The caller
// assigns the identity.
func (s *Store) InsertTitle(ctx context.Context, title Title) error {
	if title.ID <= 0 {
		return errors.New("insert title: id must be positive")
	}
	if strings.TrimSpace(title.Title) == "" {
		return fmt.Errorf("insert title %d: title is required", title.ID)
	}
	if !title.Category.Valid() {
		return fmt.Errorf("insert title %d: unknown category %q", title.ID, title.Category)
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO titles (title_id, title, year, authors, category, isbn, pages, alt_titles, cover_image, note, inconsistent, is_virtual)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		title.ID,
		title.Title,
		nullableInt(title.Year),
		title.Authors,
		string(title.Category),
		nullableString(title.ISBN),
		nullableInt(title.Pages),
		nullableString(title.AltTitles),
		nullableString(title.CoverImage),
		nullableString(title.Note),
		boolToInt(title.Inconsistent),
		boolToInt(title.Virtual),
	)
	if err != nil {
		return fmt.Errorf("insert title %d: %w", title.ID, err)
	}
	return nil
}

// AddIdentifier maps an identifier to a title. Duplicate (isbn, title) pairs
// are ignored; the return value reports whether a row was inserted.
func (s *Store) AddIdentifier(ctx context.Context, mapping Mapping) (bool, error) {
	if strings.TrimSpace(mapping.ISBN) == "" {
		return false, errors.New("add identifier: isbn is required")
	}
	if !mapping.Category.Valid() {
		return false, fmt.Errorf("add identifier %s: unknown category %q", mapping.ISBN, mapping.Category)
	}
	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO isbns (isbn, title_id, category, foreign_lang) VALUES (?, ?, ?, ?)`,
		mapping.ISBN, mapping.TitleID, string(mapping.Category), boolToInt(mapping.Foreign),
	)
	if err != nil {
		return false, fmt.Errorf("add identifier %s: %w", mapping.ISBN, err)
	}
	return rowsAffected(res) > 0, nil
}

// AddContent records that book contains content.
func (s *Store) AddContent(ctx context.Context, bookTitleID, contentTitleID int64) error {
	if bookTitleID == contentTitleID {
		return fmt.Errorf("add content: title %d cannot contain itself", bookTitleID)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO contents (book_title_id, content_title_id) VALUES (?, ?)`,
		bookTitleID, contentTitleID,
	); err != nil {
		return fmt.Errorf("add content %d->%d: %w", bookTitleID, contentTitleID, err)
	}
	return nil
}

// AddTranslation links a translated work to its canonical title.
func (s *Store) AddTranslation(ctx context.Context, translation Translation) error {
	if strings.TrimSpace(translation.Title) == "" {
		return fmt.Errorf("add translation %d: title is required", translation.TitleID)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO translations (title_id, canonical_title_id, title, year, note) VALUES (?, ?, ?, ?, ?)`,
		translation.TitleID,
		translation.CanonicalTitleID,
		translation.Title,
		nullableInt(translation.Year),
		nullableString(translation.Note),
	); err != nil {
		return fmt.Errorf("add translation %d: %w", translation.TitleID, err)
	}
	return nil
}

// AddExtraImage attaches a supplementary cover image to a title.
func (s *Store) AddExtraImage(ctx context.Context, titleID int64, image string) error {
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("add extra image %d: image is required", titleID)
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO extra_images (title_id, image) VALUES (?, ?)`,
		titleID, image,
	); err != nil {
		return fmt.Errorf("add extra image %d: %w", titleID, err)
	}
	return nil
}

// GetTitle returns the title with id, or nil when it does not exist.
func (s *Store) GetTitle(ctx context.Context, id int64) (*Title, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+titleColumns+` FROM titles t WHERE t.title_id = ?`, id)
	title, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}
	return title, nil
}

// EnsurePlaceholder inserts the placeholder title when it is absent. An
// existing real title at that identity is an error: identifiers rerouted to
// it would be attributed to an unrelated work.
func (s *Store) EnsurePlaceholder(ctx context.Context, placeholder Title) error {
	placeholder.Virtual = true
	if _, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO titles (title_id, title, category, authors, note, is_virtual) VALUES (?, ?, ?, '', ?, 1)`,
		placeholder.ID, placeholder.Title, string(placeholder.Category), nullableString(placeholder.Note),
	); err != nil {
		return fmt.Errorf("ensure placeholder %d: %w", placeholder.ID, err)
	}
	existing, err := s.GetTitle(ctx, placeholder.ID)
	if err != nil {
		return fmt.Errorf("ensure placeholder %d: %w", placeholder.ID, err)
	}
	if existing == nil {
		return fmt.Errorf("ensure placeholder %d: row missing after insert", placeholder.ID)
	}
	if !existing.Virtual {
		return fmt.Errorf("ensure placeholder %d: identity is held by real title %q", placeholder.ID, existing.Title)
	}
	return nil
}

// Identifiers returns every identifier mapped to titleID, ordered by value.
func (s *Store) Identifiers(ctx context.Context, titleID int64) ([]Mapping, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT isbn, title_id, category, foreign_lang FROM isbns WHERE title_id = ? ORDER BY isbn`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list identifiers: %w", err)
	}
	defer rows.Close()
	return scanMappings(rows)
}

// IdentifierOwners returns the title ids mapped to isbn in ascending order.
func (s *Store) IdentifierOwners(ctx context.Context, isbn string) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT title_id FROM isbns WHERE isbn = ? ORDER BY title_id`, isbn)
}

// TitlesWithCanonicalISBN returns the ids of titles whose canonical
// identifier equals isbn.
func (s *Store) TitlesWithCanonicalISBN(ctx context.Context, isbn string) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT title_id FROM titles WHERE isbn = ? ORDER BY title_id`, isbn)
}

// Contents returns the content titles of book in ascending order.
func (s *Store) Contents(ctx context.Context, bookTitleID int64) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT content_title_id FROM contents WHERE book_title_id = ? ORDER BY content_title_id`, bookTitleID)
}

// Containers returns the books that contain content, in ascending order.
func (s *Store) Containers(ctx context.Context, contentTitleID int64) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT book_title_id FROM contents WHERE content_title_id = ? ORDER BY book_title_id`, contentTitleID)
}

// TranslationsOf returns the translated work ids whose canonical title is id.
func (s *Store) TranslationsOf(ctx context.Context, canonicalTitleID int64) ([]int64, error) {
	return s.queryIDs(ctx, `SELECT title_id FROM translations WHERE canonical_title_id = ? ORDER BY title_id`, canonicalTitleID)
}

// ExtraImages returns the supplementary images of a title, ordered by value.
func (s *Store) ExtraImages(ctx context.Context, titleID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT image FROM extra_images WHERE title_id = ? ORDER BY image`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list extra images: %w", err)
	}
	defer rows.Close()
	var images []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, fmt.Errorf("scan extra image: %w", err)
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanMappings(rows *sql.Rows) ([]Mapping, error) {
	var mappings []Mapping
	for rows.Next() {
		var (
			m        Mapping
			category string
			foreign  sql.NullInt64
		)
		if err := rows.Scan(&m.ISBN, &m.TitleID, &category, &foreign); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		m.Category = Category(category)
		m.Foreign = foreign.Int64 != 0
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
