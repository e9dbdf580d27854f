package catalog_test

import (
	"context"
	"testing"

	"folio/internal/catalog"
	"folio/internal/testsupport"
)

func TestClaimantsCarryEditionDetails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "Tales", Category: catalog.CategoryCollection, Year: 1990, Pages: 300})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 2, Title: "Tale", Category: catalog.CategoryNovel})
	testsupport.MustMapISBN(t, store, "4444444444", 2, catalog.CategoryNovel, true)
	testsupport.MustMapISBN(t, store, "4444444444", 1, catalog.CategoryOmnibus, false)

	var claimants []catalog.Claimant
	err := store.WithTx(ctx, catalog.TxOptions{}, func(tx *catalog.Tx) error {
		var err error
		claimants, err = tx.Claimants(ctx, "4444444444")
		return err
	})
	if err != nil {
		t.Fatalf("Claimants: %v", err)
	}
	if len(claimants) != 2 {
		t.Fatalf("expected 2 claimants, got %d", len(claimants))
	}
	first := claimants[0]
	if first.ID != 1 || first.Category != catalog.CategoryCollection || first.EditionCategory != catalog.CategoryOmnibus {
		t.Fatalf("unexpected first claimant: %#v", first)
	}
	if first.Year != 1990 || first.Pages != 300 || first.Foreign {
		t.Fatalf("unexpected first claimant details: %#v", first)
	}
	if !claimants[1].Foreign {
		t.Fatalf("expected second claimant to be foreign: %#v", claimants[1])
	}
}

func TestRepointContentsSkipsSelfLoops(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		testsupport.MustSeedBook(t, store, testsupport.Book{ID: id, Title: "T"})
	}
	// Loser 2 contains the winner 1 and title 3; title 4 contains the loser.
	testsupport.MustAddContent(t, store, 2, 1)
	testsupport.MustAddContent(t, store, 2, 3)
	testsupport.MustAddContent(t, store, 4, 2)
	testsupport.MustAddContent(t, store, 1, 3)

	var touched int64
	err := store.WithTx(ctx, catalog.TxOptions{}, func(tx *catalog.Tx) error {
		var err error
		touched, err = tx.RepointContents(ctx, 1, 2)
		return err
	})
	if err != nil {
		t.Fatalf("RepointContents: %v", err)
	}
	if touched != 1 {
		t.Fatalf("expected only the container edge to be new, got %d", touched)
	}
	contents, _ := store.Contents(ctx, 1)
	if len(contents) != 1 || contents[0] != 3 {
		t.Fatalf("unexpected winner contents: %v", contents)
	}
	containers, _ := store.Containers(ctx, 1)
	if len(containers) != 2 || containers[0] != 2 || containers[1] != 4 {
		t.Fatalf("unexpected winner containers: %v", containers)
	}
}

func TestRepointTranslationsIgnoresConflicts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "W"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 2, Title: "L"})
	testsupport.MustAddTranslation(t, store, 100, 2, "L (de)")
	testsupport.MustAddTranslation(t, store, 101, 2, "L (fr)")

	var moved int64
	err := store.WithTx(ctx, catalog.TxOptions{}, func(tx *catalog.Tx) error {
		var err error
		moved, err = tx.RepointTranslations(ctx, 1, 2)
		return err
	})
	if err != nil {
		t.Fatalf("RepointTranslations: %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected 2 translations moved, got %d", moved)
	}
	if ids, _ := store.TranslationsOf(ctx, 1); len(ids) != 2 {
		t.Fatalf("expected translations on winner, got %v", ids)
	}
}

func TestCopyIdentifiersAndImages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 1, Title: "W", ISBN: "5555555555"})
	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 2, Title: "L", ISBN: "5555555555"})
	testsupport.MustMapISBN(t, store, "6666666666", 2, catalog.CategoryNovel, true)
	testsupport.MustAddExtraImage(t, store, 1, "a.jpg")
	testsupport.MustAddExtraImage(t, store, 2, "a.jpg")
	testsupport.MustAddExtraImage(t, store, 2, "b.jpg")

	var copied, images int64
	err := store.WithTx(ctx, catalog.TxOptions{}, func(tx *catalog.Tx) error {
		var err error
		if copied, err = tx.CopyIdentifiers(ctx, 1, 2); err != nil {
			return err
		}
		images, err = tx.CopyExtraImages(ctx, 1, 2)
		return err
	})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied != 1 || images != 1 {
		t.Fatalf("expected one new mapping and one new image, got %d and %d", copied, images)
	}
	mappings, _ := store.Identifiers(ctx, 1)
	if len(mappings) != 2 || mappings[1].ISBN != "6666666666" || !mappings[1].Foreign {
		t.Fatalf("unexpected winner mappings: %#v", mappings)
	}
}
