package catalog

import (
	"context"
	"fmt"
	"iter"
)

// DuplicateIdentifiers streams identifier values mapped to more than one
// title. The query runs when iteration starts and reads a WAL snapshot, so
// concurrent group transactions do not disturb the cursor. limit <= 0 means
// no limit.
func (s *Store) DuplicateIdentifiers(ctx context.Context, limit int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx := ensureContext(ctx)
		query := `SELECT isbn FROM isbns GROUP BY isbn HAVING COUNT(*) > 1 ORDER BY isbn`
		args := []any{}
		if limit > 0 {
			query += ` LIMIT ?`
			args = append(args, limit)
		}
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield("", fmt.Errorf("select duplicate identifiers: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var isbn string
			if err := rows.Scan(&isbn); err != nil {
				yield("", fmt.Errorf("scan duplicate identifier: %w", err))
				return
			}
			if !yield(isbn, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", fmt.Errorf("iterate duplicate identifiers: %w", err))
		}
	}
}

// CountDuplicateIdentifiers returns how many identifiers are still claimed
// by more than one title.
func (s *Store) CountDuplicateIdentifiers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(*) FROM (SELECT isbn FROM isbns GROUP BY isbn HAVING COUNT(*) > 1)`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count duplicate identifiers: %w", err)
	}
	return count, nil
}

// DuplicateReport lists every conflicting identifier with its claimants,
// largest groups first. Claimants within a group are ordered by title id.
func (s *Store) DuplicateReport(ctx context.Context) ([]DuplicateGroup, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.isbn, `+claimantColumns+`
		 FROM isbns i
		 JOIN titles t ON t.title_id = i.title_id
		 JOIN (SELECT isbn, COUNT(*) AS n FROM isbns GROUP BY isbn HAVING COUNT(*) > 1) d ON d.isbn = i.isbn
		 ORDER BY d.n DESC, i.isbn, t.title_id`)
	if err != nil {
		return nil, fmt.Errorf("duplicate report: %w", err)
	}
	defer rows.Close()

	var (
		groups  []DuplicateGroup
		current *DuplicateGroup
	)
	for rows.Next() {
		var isbn string
		claimant, err := scanClaimant(rows, &isbn)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if current == nil || current.ISBN != isbn {
			groups = append(groups, DuplicateGroup{ISBN: isbn})
			current = &groups[len(groups)-1]
		}
		current.Claimants = append(current.Claimants, claimant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return groups, nil
}
