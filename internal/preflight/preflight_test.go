package preflight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/catalog"
	"folio/internal/preflight"
	"folio/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPlaceholder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if result := preflight.CheckPlaceholder(ctx, store, 73); !result.Passed {
		t.Fatalf("expected free id to pass, got: %s", result.Detail)
	}

	if err := store.EnsurePlaceholder(ctx, catalog.Title{ID: 73, Title: "Ambiguous ISBN", Category: catalog.CategoryNovel, Virtual: true}); err != nil {
		t.Fatalf("EnsurePlaceholder: %v", err)
	}
	if result := preflight.CheckPlaceholder(ctx, store, 73); !result.Passed {
		t.Fatalf("expected reserved id to pass, got: %s", result.Detail)
	}

	testsupport.MustSeedBook(t, store, testsupport.Book{ID: 74, Title: "Roadside Picnic"})
	if result := preflight.CheckPlaceholder(ctx, store, 74); result.Passed {
		t.Fatal("expected a real title to fail the placeholder check")
	}
}

func TestCheckCatalogFailsOnCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if result := preflight.CheckCatalog(context.Background(), store); !result.Passed {
		t.Fatalf("expected open catalog to pass, got: %s", result.Detail)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if result := preflight.CheckCatalog(ctx, store); result.Passed {
		t.Fatal("expected cancelled ping to fail")
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMetricsTextfile("folio.prom"))
	store := testsupport.MustOpenStore(t, cfg)

	results := preflight.RunAll(context.Background(), cfg, store)
	names := make(map[string]bool, len(results))
	for _, result := range results {
		names[result.Name] = true
	}
	for _, want := range []string{"Catalog directory", "Log directory", "Metrics directory", "Catalog", "Placeholder title"} {
		if !names[want] {
			t.Fatalf("expected %q check, got %+v", want, results)
		}
	}
	if failed, ok := preflight.FirstFailure(results); ok {
		t.Fatalf("unexpected failure: %+v", failed)
	}
}
