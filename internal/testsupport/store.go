package testsupport

import (
	"context"
	"testing"

	"folio/internal/catalog"
	"folio/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// Book describes a seeded title together with the identifier mapping the
// import pipeline would have created for its canonical edition.
type Book struct {
	ID       int64
	Title    string
	Authors  string
	Year     int
	Pages    int
	Category catalog.Category
	ISBN     string
	Cover    string
	Foreign  bool
}

// MustSeedBook inserts a title and, when ISBN is set, its identifier mapping.
func MustSeedBook(t testing.TB, store *catalog.Store, book Book) {
	t.Helper()

	category := book.Category
	if category == "" {
		category = catalog.CategoryNovel
	}
	ctx := context.Background()
	if err := store.InsertTitle(ctx, catalog.Title{
		ID:         book.ID,
		Title:      book.Title,
		Authors:    book.Authors,
		Year:       book.Year,
		Pages:      book.Pages,
		Category:   category,
		ISBN:       book.ISBN,
		CoverImage: book.Cover,
	}); err != nil {
		t.Fatalf("seed title %d: %v", book.ID, err)
	}
	if book.ISBN != "" {
		MustMapISBN(t, store, book.ISBN, book.ID, category, book.Foreign)
	}
}

// MustMapISBN adds an identifier mapping.
func MustMapISBN(t testing.TB, store *catalog.Store, isbn string, titleID int64, category catalog.Category, foreign bool) {
	t.Helper()

	if _, err := store.AddIdentifier(context.Background(), catalog.Mapping{
		ISBN:     isbn,
		TitleID:  titleID,
		Category: category,
		Foreign:  foreign,
	}); err != nil {
		t.Fatalf("map %s to %d: %v", isbn, titleID, err)
	}
}

// MustAddContent records a containment edge.
func MustAddContent(t testing.TB, store *catalog.Store, bookID, contentID int64) {
	t.Helper()

	if err := store.AddContent(context.Background(), bookID, contentID); err != nil {
		t.Fatalf("add content %d->%d: %v", bookID, contentID, err)
	}
}

// MustAddTranslation links a translated work to its canonical title.
func MustAddTranslation(t testing.TB, store *catalog.Store, titleID, canonicalID int64, title string) {
	t.Helper()

	if err := store.AddTranslation(context.Background(), catalog.Translation{
		TitleID:          titleID,
		CanonicalTitleID: canonicalID,
		Title:            title,
	}); err != nil {
		t.Fatalf("add translation %d->%d: %v", titleID, canonicalID, err)
	}
}

// MustAddExtraImage attaches a supplementary image.
func MustAddExtraImage(t testing.TB, store *catalog.Store, titleID int64, image string) {
	t.Helper()

	if err := store.AddExtraImage(context.Background(), titleID, image); err != nil {
		t.Fatalf("add extra image to %d: %v", titleID, err)
	}
}

// MustGetTitle loads a title that is expected to exist.
func MustGetTitle(t testing.TB, store *catalog.Store, id int64) *catalog.Title {
	t.Helper()

	title, err := store.GetTitle(context.Background(), id)
	if err != nil {
		t.Fatalf("get title %d: %v", id, err)
	}
	if title == nil {
		t.Fatalf("title %d not found", id)
	}
	return title
}
