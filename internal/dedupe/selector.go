package dedupe

import (
	"context"
	"iter"
	"sync/atomic"

	"folio/internal/catalog"
)

// placeholderNote is shown to readers who land on the placeholder title.
const placeholderNote = "You have arrived at this page because the ISBN you entered is " +
	"associated with two or more books with significantly different contents. " +
	"The book you are looking for is probably included on this site. Search by title instead."

// Placeholder returns the reserved title that absorbs disowned identifiers.
func Placeholder(id int64) catalog.Title {
	return catalog.Title{
		ID:       id,
		Title:    "Ambiguous ISBN",
		Category: catalog.CategoryNovel,
		Note:     placeholderNote,
		Virtual:  true,
	}
}

// Selector enumerates identifiers claimed by more than one title. It is
// single use: the sequence reflects the catalog when iteration starts.
type Selector struct {
	store       *catalog.Store
	limit       int
	placeholder catalog.Title
	prepared    atomic.Bool
	consumed    atomic.Bool
}

// NewSelector builds a selector over store. limit <= 0 selects every group.
func NewSelector(store *catalog.Store, placeholderID int64, limit int) *Selector {
	return &Selector{store: store, limit: limit, placeholder: Placeholder(placeholderID)}
}

// Prepare ensures the placeholder title exists.
func (s *Selector) Prepare(ctx context.Context) error {
	if err := s.store.EnsurePlaceholder(ctx, s.placeholder); err != nil {
		return wrap(ErrPreflight, "select", "ensure placeholder", "", err)
	}
	s.prepared.Store(true)
	return nil
}

// Groups returns the lazy sequence of conflicting identifiers. Calling it a
// second time yields ErrSelectorConsumed.
func (s *Selector) Groups(ctx context.Context) iter.Seq2[string, error] {
	if !s.consumed.CompareAndSwap(false, true) {
		return func(yield func(string, error) bool) {
			yield("", ErrSelectorConsumed)
		}
	}
	return func(yield func(string, error) bool) {
		if !s.prepared.Load() {
			if err := s.Prepare(ctx); err != nil {
				yield("", err)
				return
			}
		}
		for isbn, err := range s.store.DuplicateIdentifiers(ctx, s.limit) {
			if err != nil {
				yield("", wrap(ErrStore, "select", "duplicate identifiers", "", err))
				return
			}
			if !yield(isbn, nil) {
				return
			}
		}
	}
}
