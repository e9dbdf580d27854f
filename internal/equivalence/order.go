package equivalence

import (
	"cmp"
	"slices"

	"folio/internal/catalog"
)

var categoryPriority = map[catalog.Category]int{
	catalog.CategoryNovel:      1,
	catalog.CategoryNovella:    2,
	catalog.CategoryOmnibus:    3,
	catalog.CategoryAnthology:  4,
	catalog.CategoryCollection: 5,
}

// Priority ranks an edition category; lower is more book-like. Unknown
// categories rank last.
func Priority(c catalog.Category) int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return len(categoryPriority) + 1
}

// CompareClaimants orders claimants by edition category priority, then year,
// pages, and id, each descending. Unknown (zero) years and page counts rank
// ahead of known ones, as NULL does in a descending SQL sort.
func CompareClaimants(a, b catalog.Claimant) int {
	if c := cmp.Compare(Priority(a.EditionCategory), Priority(b.EditionCategory)); c != 0 {
		return c
	}
	if c := descendingKnown(a.Year, b.Year); c != 0 {
		return c
	}
	if c := descendingKnown(a.Pages, b.Pages); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func descendingKnown(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return -1
	case b == 0:
		return 1
	default:
		return cmp.Compare(b, a)
	}
}

// SortClaimants returns a sorted copy; the first element wins a merge.
func SortClaimants(claimants []catalog.Claimant) []catalog.Claimant {
	sorted := slices.Clone(claimants)
	slices.SortFunc(sorted, CompareClaimants)
	return sorted
}
