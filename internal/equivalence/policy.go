package equivalence

import (
	"fmt"
	"strings"

	"folio/internal/catalog"
)

// Pair is an ordered category transition between the top two claimants,
// First being the higher-priority one.
type Pair struct {
	First  catalog.Category
	Second catalog.Category
}

func (p Pair) String() string {
	return p.First.String() + ":" + p.Second.String()
}

func newPair(a, b catalog.Category) Pair {
	if Priority(b) < Priority(a) {
		a, b = b, a
	}
	return Pair{First: a, Second: b}
}

// Policy holds the category transitions that are never merged and those that
// merge only on an exact title match. All other transitions, equal categories
// included, use the fuzzy title comparison.
type Policy struct {
	disown     map[Pair]struct{}
	exactTitle map[Pair]struct{}
}

// DefaultPolicy returns the transitions tuned against the ISFDB catalog.
func DefaultPolicy() Policy {
	return Policy{
		disown: pairSet(
			newPair(catalog.CategoryNovella, catalog.CategoryOmnibus),
			newPair(catalog.CategoryNovel, catalog.CategoryNovella),
		),
		exactTitle: pairSet(
			newPair(catalog.CategoryNovel, catalog.CategoryAnthology),
			newPair(catalog.CategoryNovel, catalog.CategoryCollection),
			newPair(catalog.CategoryNovel, catalog.CategoryOmnibus),
			newPair(catalog.CategoryNovella, catalog.CategoryAnthology),
			newPair(catalog.CategoryNovella, catalog.CategoryCollection),
		),
	}
}

// ParsePolicy builds a Policy from "first:second" category pairs such as
// "novella:omnibus". Pair order does not matter.
func ParsePolicy(disownPairs, exactTitlePairs []string) (Policy, error) {
	disown, err := parsePairs(disownPairs)
	if err != nil {
		return Policy{}, fmt.Errorf("disown pairs: %w", err)
	}
	exact, err := parsePairs(exactTitlePairs)
	if err != nil {
		return Policy{}, fmt.Errorf("exact title pairs: %w", err)
	}
	return Policy{disown: disown, exactTitle: exact}, nil
}

func parsePairs(values []string) (map[Pair]struct{}, error) {
	set := make(map[Pair]struct{}, len(values))
	for _, value := range values {
		first, second, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("pair %q must be written as first:second", value)
		}
		a, err := catalog.ParseCategory(first)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", value, err)
		}
		b, err := catalog.ParseCategory(second)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", value, err)
		}
		set[newPair(a, b)] = struct{}{}
	}
	return set, nil
}

func pairSet(pairs ...Pair) map[Pair]struct{} {
	set := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		set[p] = struct{}{}
	}
	return set
}

// Disowns reports whether the transition between a and b is never merged.
func (p Policy) Disowns(a, b catalog.Category) bool {
	_, ok := p.disown[newPair(a, b)]
	return ok
}

// RequiresExactTitle reports whether the transition merges only when display
// titles are equal ignoring case.
func (p Policy) RequiresExactTitle(a, b catalog.Category) bool {
	_, ok := p.exactTitle[newPair(a, b)]
	return ok
}
