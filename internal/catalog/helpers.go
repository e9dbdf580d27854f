package catalog

import "database/sql"

const titleColumns = "t.title_id, t.title, t.year, t.authors, t.category, t.isbn, t.pages, t.alt_titles, t.cover_image, t.note, t.inconsistent, t.is_virtual"

const claimantColumns = titleColumns + ", i.category, i.foreign_lang"

type rowScanner interface{ Scan(dest ...any) error }

type titleFields struct {
	id           int64
	title        string
	year         sql.NullInt64
	authors      sql.NullString
	category     string
	isbn         sql.NullString
	pages        sql.NullInt64
	altTitles    sql.NullString
	coverImage   sql.NullString
	note         sql.NullString
	inconsistent sql.NullInt64
	virtual      sql.NullInt64
}

func (f *titleFields) targets() []any {
	return []any{
		&f.id,
		&f.title,
		&f.year,
		&f.authors,
		&f.category,
		&f.isbn,
		&f.pages,
		&f.altTitles,
		&f.coverImage,
		&f.note,
		&f.inconsistent,
		&f.virtual,
	}
}

func (f *titleFields) toTitle() Title {
	return Title{
		ID:           f.id,
		Title:        f.title,
		Year:         int(f.year.Int64),
		Authors:      f.authors.String,
		Category:     Category(f.category),
		ISBN:         f.isbn.String,
		Pages:        int(f.pages.Int64),
		AltTitles:    f.altTitles.String,
		CoverImage:   f.coverImage.String,
		Note:         f.note.String,
		Inconsistent: f.inconsistent.Int64 != 0,
		Virtual:      f.virtual.Int64 != 0,
	}
}

func scanTitle(scanner rowScanner) (*Title, error) {
	var fields titleFields
	if err := scanner.Scan(fields.targets()...); err != nil {
		return nil, err
	}
	title := fields.toTitle()
	return &title, nil
}

// scanClaimant reads claimantColumns, preceded by any leading columns the
// query selects into lead.
func scanClaimant(scanner rowScanner, lead ...any) (Claimant, error) {
	var (
		fields   titleFields
		category string
		foreign  sql.NullInt64
	)
	targets := append(append([]any{}, lead...), fields.targets()...)
	targets = append(targets, &category, &foreign)
	if err := scanner.Scan(targets...); err != nil {
		return Claimant{}, err
	}
	return Claimant{
		Title:           fields.toTitle(),
		EditionCategory: Category(category),
		Foreign:         foreign.Int64 != 0,
	}, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
