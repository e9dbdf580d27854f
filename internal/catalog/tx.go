package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TxOptions controls how WithTx finishes a transaction.
type TxOptions struct {
	// DryRun rolls back instead of committing.
	DryRun bool
}

// Tx is one catalog transaction. Connections are opened with BEGIN
// IMMEDIATE, so a Tx holds the database write lock from its first statement
// until it commits or rolls back.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. A busy database retries the whole
// transaction with backoff; any other error rolls back and is returned as is.
// fn may run more than once and must not keep state across attempts.
func (s *Store) WithTx(ctx context.Context, opts TxOptions, fn func(*Tx) error) error {
	if fn == nil {
		return errors.New("with tx: fn is nil")
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = sqlTx.Rollback() }()

		if err := fn(&Tx{tx: sqlTx}); err != nil {
			return err
		}
		if opts.DryRun {
			return nil
		}
		if err := sqlTx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func (t *Tx) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res), nil
}

// Claimants loads every title mapped to isbn with the edition details of the
// mapping, ordered by title id.
func (t *Tx) Claimants(ctx context.Context, isbn string) ([]Claimant, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+claimantColumns+`
		 FROM isbns i
		 JOIN titles t ON t.title_id = i.title_id
		 WHERE i.isbn = ?
		 ORDER BY t.title_id`, isbn)
	if err != nil {
		return nil, fmt.Errorf("load claimants: %w", err)
	}
	defer rows.Close()

	var claimants []Claimant
	for rows.Next() {
		claimant, err := scanClaimant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimant: %w", err)
		}
		claimants = append(claimants, claimant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claimants: %w", err)
	}
	return claimants, nil
}

// Mappings loads every identifier mapping in the catalog.
func (t *Tx) Mappings(ctx context.Context) ([]Mapping, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT isbn, title_id, category, foreign_lang FROM isbns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	defer rows.Close()
	return scanMappings(rows)
}

// InsertMapping adds mapping unless the (isbn, title) pair already exists.
func (t *Tx) InsertMapping(ctx context.Context, mapping Mapping) (bool, error) {
	n, err := t.exec(ctx,
		`INSERT OR IGNORE INTO isbns (isbn, title_id, category, foreign_lang) VALUES (?, ?, ?, ?)`,
		mapping.ISBN, mapping.TitleID, string(mapping.Category), boolToInt(mapping.Foreign))
	if err != nil {
		return false, fmt.Errorf("insert mapping %s->%d: %w", mapping.ISBN, mapping.TitleID, err)
	}
	return n > 0, nil
}

// DeleteMappingsExcept removes every mapping of isbn except the one to keepTitleID.
func (t *Tx) DeleteMappingsExcept(ctx context.Context, isbn string, keepTitleID int64) (int64, error) {
	n, err := t.exec(ctx, `DELETE FROM isbns WHERE isbn = ? AND title_id <> ?`, isbn, keepTitleID)
	if err != nil {
		return 0, fmt.Errorf("delete mappings of %s: %w", isbn, err)
	}
	return n, nil
}

// ClearCanonicalISBN empties the canonical identifier of every title that uses isbn.
func (t *Tx) ClearCanonicalISBN(ctx context.Context, isbn string) (int64, error) {
	n, err := t.exec(ctx, `UPDATE titles SET isbn = NULL WHERE isbn = ?`, isbn)
	if err != nil {
		return 0, fmt.Errorf("clear canonical isbn %s: %w", isbn, err)
	}
	return n, nil
}

// RepointContents copies the loser's containment edges in both directions
// onto the winner. Edges that would become self-loops are skipped.
func (t *Tx) RepointContents(ctx context.Context, winnerID, loserID int64) (int64, error) {
	asBook, err := t.exec(ctx,
		`INSERT OR IGNORE INTO contents (book_title_id, content_title_id)
		 SELECT ?, content_title_id FROM contents
		 WHERE book_title_id = ? AND content_title_id <> ?`,
		winnerID, loserID, winnerID)
	if err != nil {
		return 0, fmt.Errorf("repoint contents of %d: %w", loserID, err)
	}
	asContent, err := t.exec(ctx,
		`INSERT OR IGNORE INTO contents (book_title_id, content_title_id)
		 SELECT book_title_id, ? FROM contents
		 WHERE content_title_id = ? AND book_title_id <> ?`,
		winnerID, loserID, winnerID)
	if err != nil {
		return 0, fmt.Errorf("repoint containers of %d: %w", loserID, err)
	}
	return asBook + asContent, nil
}

// CopyIdentifiers copies every mapping owned by the loser onto the winner.
func (t *Tx) CopyIdentifiers(ctx context.Context, winnerID, loserID int64) (int64, error) {
	n, err := t.exec(ctx,
		`INSERT OR IGNORE INTO isbns (isbn, title_id, category, foreign_lang)
		 SELECT isbn, ?, category, foreign_lang FROM isbns WHERE title_id = ?`,
		winnerID, loserID)
	if err != nil {
		return 0, fmt.Errorf("copy identifiers of %d: %w", loserID, err)
	}
	return n, nil
}

// RepointTranslations moves translation edges from the loser to the winner.
// Edges the winner already has stay on the loser and cascade with it.
func (t *Tx) RepointTranslations(ctx context.Context, winnerID, loserID int64) (int64, error) {
	n, err := t.exec(ctx,
		`UPDATE OR IGNORE translations SET canonical_title_id = ? WHERE canonical_title_id = ?`,
		winnerID, loserID)
	if err != nil {
		return 0, fmt.Errorf("repoint translations of %d: %w", loserID, err)
	}
	return n, nil
}

// CopyExtraImages copies the loser's supplementary images onto the winner.
func (t *Tx) CopyExtraImages(ctx context.Context, winnerID, loserID int64) (int64, error) {
	n, err := t.exec(ctx,
		`INSERT OR IGNORE INTO extra_images (title_id, image)
		 SELECT ?, image FROM extra_images WHERE title_id = ?`,
		winnerID, loserID)
	if err != nil {
		return 0, fmt.Errorf("copy extra images of %d: %w", loserID, err)
	}
	return n, nil
}

// AddExtraImage attaches image to titleID unless it is already attached.
func (t *Tx) AddExtraImage(ctx context.Context, titleID int64, image string) (bool, error) {
	n, err := t.exec(ctx, `INSERT OR IGNORE INTO extra_images (title_id, image) VALUES (?, ?)`, titleID, image)
	if err != nil {
		return false, fmt.Errorf("add extra image to %d: %w", titleID, err)
	}
	return n > 0, nil
}

// SetAltTitles replaces the alternate-title list of a title.
func (t *Tx) SetAltTitles(ctx context.Context, titleID int64, altTitles string) error {
	if _, err := t.exec(ctx, `UPDATE titles SET alt_titles = ? WHERE title_id = ?`, nullableString(altTitles), titleID); err != nil {
		return fmt.Errorf("set alt titles of %d: %w", titleID, err)
	}
	return nil
}

// DeleteTitle removes a title; dependent rows cascade.
func (t *Tx) DeleteTitle(ctx context.Context, titleID int64) (bool, error) {
	n, err := t.exec(ctx, `DELETE FROM titles WHERE title_id = ?`, titleID)
	if err != nil {
		return false, fmt.Errorf("delete title %d: %w", titleID, err)
	}
	return n > 0, nil
}

// MarkInconsistent flags a title as the product of an automated merge.
func (t *Tx) MarkInconsistent(ctx context.Context, titleID int64) error {
	if _, err := t.exec(ctx, `UPDATE titles SET inconsistent = 1 WHERE title_id = ?`, titleID); err != nil {
		return fmt.Errorf("mark %d inconsistent: %w", titleID, err)
	}
	return nil
}
