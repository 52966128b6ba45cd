package model

import "testing"

func TestCategoryScores_Top(t *testing.T) {
	scores := CategoryScores{
		{Category: "Dining", Score: 0.3},
		{Category: "Groceries", Score: 0.7},
		{Category: "Shopping", Score: 0.5},
	}
	best, ok := scores.Top()
	if !ok {
		t.Fatal("expected a top entry")
	}
	if best.Category != "Groceries" {
		t.Errorf("top %s, want Groceries", best.Category)
	}

	if _, ok := (CategoryScores{}).Top(); ok {
		t.Error("empty scores must report no top entry")
	}
}

func TestCategoryScores_TopN(t *testing.T) {
	scores := CategoryScores{
		{Category: "Dining", Score: 0.3},
		{Category: "Groceries", Score: 0.7},
		{Category: "Shopping", Score: 0.5},
	}

	top2 := scores.TopN(2)
	if len(top2) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top2))
	}
	if top2[0].Category != "Groceries" || top2[1].Category != "Shopping" {
		t.Errorf("unexpected order: %v", top2)
	}

	if got := scores.TopN(10); len(got) != 3 {
		t.Errorf("TopN beyond length must return everything, got %d", len(got))
	}
	if got := scores.TopN(0); len(got) != 0 {
		t.Errorf("TopN(0) must be empty, got %d", len(got))
	}
}

func TestCategoryScores_TieBreaksByName(t *testing.T) {
	scores := CategoryScores{
		{Category: "Shopping", Score: 0.5},
		{Category: "Dining", Score: 0.5},
	}
	scores.Sort()
	if scores[0].Category != "Dining" {
		t.Errorf("equal scores must order alphabetically, got %v", scores)
	}
}

func TestFailedRecord(t *testing.T) {
	rec := FailedRecord("raw input", "boom")
	if rec.Status != StatusFailed {
		t.Errorf("status %s, want failed", rec.Status)
	}
	if rec.Error != "boom" {
		t.Errorf("error %q, want boom", rec.Error)
	}
	if rec.Category != CategoryUncategorized {
		t.Errorf("category %q, want %s", rec.Category, CategoryUncategorized)
	}
	if rec.RawText != "raw input" {
		t.Errorf("raw text %q not preserved", rec.RawText)
	}
}
