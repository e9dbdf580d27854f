package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"folio/internal/catalog"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog verifies the catalog answers queries. It uses a 5-second timeout.
func CheckCatalog(ctx context.Context, store *catalog.Store) Result {
	const name = "Catalog"

	if store == nil {
		return Result{Name: name, Detail: "not open"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := store.Ping(checkCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: timed out; another process may hold a write lock)", store.Path())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// CheckPlaceholder verifies id is either free or already the placeholder
// title. A real title at id would absorb every disowned ISBN.
func CheckPlaceholder(ctx context.Context, store *catalog.Store, id int64) Result {
	const name = "Placeholder title"

	if store == nil {
		return Result{Name: name, Detail: "catalog not open"}
	}
	title, err := store.GetTitle(ctx, id)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("title %d (error: %v)", id, err)}
	}
	switch {
	case title == nil:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("title %d free (created on first run)", id)}
	case title.Virtual:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("title %d reserved", id)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("title %d is a real title (%q); set dedupe.placeholder_title_id", id, title.Title)}
	}
}
