package equivalence_test

import (
	"testing"

	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/equivalence"
)

func TestParsePolicyMatchesDefault(t *testing.T) {
	cfg := config.Default()
	parsed, err := equivalence.ParsePolicy(cfg.Policy.DisownPairs, cfg.Policy.ExactTitlePairs)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	def := equivalence.DefaultPolicy()

	categories := catalog.Categories()
	for _, a := range categories {
		for _, b := range categories {
			if parsed.Disowns(a, b) != def.Disowns(a, b) {
				t.Fatalf("Disowns(%s, %s) differs from default", a, b)
			}
			if parsed.RequiresExactTitle(a, b) != def.RequiresExactTitle(a, b) {
				t.Fatalf("RequiresExactTitle(%s, %s) differs from default", a, b)
			}
		}
	}
}

func TestParsePolicyIgnoresPairOrder(t *testing.T) {
	policy, err := equivalence.ParsePolicy([]string{"omnibus:novella"}, nil)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if !policy.Disowns(catalog.CategoryNovella, catalog.CategoryOmnibus) {
		t.Fatal("expected reversed pair to match")
	}
	if policy.RequiresExactTitle(catalog.CategoryNovel, catalog.CategoryOmnibus) {
		t.Fatal("empty exact-title list should not match anything")
	}
}

func TestParsePolicyRejectsUnknownCategory(t *testing.T) {
	if _, err := equivalence.ParsePolicy([]string{"novel:poem"}, nil); err == nil {
		t.Fatal("expected unknown category error")
	}
	if _, err := equivalence.ParsePolicy(nil, []string{"novel"}); err == nil {
		t.Fatal("expected malformed pair error")
	}
}

func TestCustomPolicyChangesDecision(t *testing.T) {
	policy, err := equivalence.ParsePolicy(nil, nil)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	claimants := []catalog.Claimant{
		claimant(1, catalog.CategoryNovel, "Same", "A", 2000, 0),
		claimant(2, catalog.CategoryNovella, "Same", "A", 2000, 0),
	}
	decision, err := equivalence.Classify(policy, claimants)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if decision.Action != equivalence.ActionMerge || decision.Winner.ID != 1 {
		t.Fatalf("expected merge into the novel without disown pairs, got %s winner %d", decision.Action, decision.Winner.ID)
	}
}
