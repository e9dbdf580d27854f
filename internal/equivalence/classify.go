package equivalence

import (
	"errors"
	"strings"

	"folio/internal/catalog"
)

// ErrTooFewClaimants is returned when a group has fewer than two claimants.
var ErrTooFewClaimants = errors.New("classification needs at least two claimants")

// Action is the resolution chosen for a group.
type Action int

const (
	// ActionDisown severs the identifier from every real title.
	ActionDisown Action = iota
	// ActionMerge folds the losers into the winner.
	ActionMerge
)

func (a Action) String() string {
	if a == ActionMerge {
		return "merge"
	}
	return "disown"
}

// Reason names the rule that produced a Decision.
type Reason string

const (
	ReasonPlaceholderClaimant    Reason = "placeholder_claimant"
	ReasonTooManyClaimants       Reason = "too_many_claimants"
	ReasonForeignLanguage        Reason = "foreign_language"
	ReasonIncompatibleCategories Reason = "incompatible_categories"
	ReasonTitlesDiffer           Reason = "titles_differ"
	ReasonNoCommonAuthor         Reason = "no_common_author"
	ReasonEquivalent             Reason = "equivalent"
)

// Decision is the outcome for one group. Claimants holds the group in
// comparator order; Winner and Losers are set only for merges.
type Decision struct {
	Action    Action
	Reason    Reason
	Claimants []catalog.Claimant
	Winner    catalog.Claimant
	Losers    []catalog.Claimant
}

// Classify decides whether the claimants describe one work. The first
// matching rule wins:
//
//  1. a placeholder among the claimants, more than two claimants, a foreign
//     edition among the top two, or a disowning category transition: disown
//  2. titles that do not match (exactly or fuzzily depending on the
//     transition): disown
//  3. no author in common: disown
//
// Otherwise the group merges into the first claimant in comparator order.
func Classify(policy Policy, claimants []catalog.Claimant) (Decision, error) {
	if len(claimants) < 2 {
		return Decision{}, ErrTooFewClaimants
	}
	sorted := SortClaimants(claimants)
	disown := func(reason Reason) Decision {
		return Decision{Action: ActionDisown, Reason: reason, Claimants: sorted}
	}

	for _, c := range sorted {
		if c.Virtual {
			return disown(ReasonPlaceholderClaimant), nil
		}
	}
	if len(sorted) > 2 {
		return disown(ReasonTooManyClaimants), nil
	}

	a, b := sorted[0], sorted[1]
	if a.Foreign || b.Foreign {
		return disown(ReasonForeignLanguage), nil
	}
	if policy.Disowns(a.EditionCategory, b.EditionCategory) {
		return disown(ReasonIncompatibleCategories), nil
	}

	var titlesMatch bool
	if policy.RequiresExactTitle(a.EditionCategory, b.EditionCategory) {
		titlesMatch = strings.EqualFold(a.Title.Title, b.Title.Title)
	} else {
		titlesMatch = titlesOverlap(a.Title.Title, b.Title.Title)
	}
	if !titlesMatch {
		return disown(ReasonTitlesDiffer), nil
	}

	if !shareAuthor(a.Authors, b.Authors) {
		return disown(ReasonNoCommonAuthor), nil
	}

	return Decision{
		Action:    ActionMerge,
		Reason:    ReasonEquivalent,
		Claimants: sorted,
		Winner:    a,
		Losers:    sorted[1:],
	}, nil
}
