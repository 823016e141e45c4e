package model

import "testing"

func TestFilterState_Query_EmptyHasNoParams(t *testing.T) {
	q := FilterState{}.Query()
	if len(q) != 0 {
		t.Fatalf("empty filter must produce zero params, got %v", q)
	}
	if got := q.Encode(); got != "" {
		t.Fatalf("empty filter must encode to empty string, got %q", got)
	}
}

func TestFilterState_Query_OnlyNonEmptyFields(t *testing.T) {
	f := FilterState{Type: "lost", Category: "Electronics"}
	q := f.Query()
	if got := len(q); got != 2 {
		t.Fatalf("expected exactly 2 params, got %d (%v)", got, q)
	}
	if got := q.Get("type"); got != "lost" {
		t.Fatalf("type=%q", got)
	}
	if got := q.Get("category"); got != "Electronics" {
		t.Fatalf("category=%q", got)
	}
	if _, ok := q["location"]; ok {
		t.Fatalf("location key must be absent")
	}
	if _, ok := q["search"]; ok {
		t.Fatalf("search key must be absent")
	}
	if got := q.Encode(); got != "category=Electronics&type=lost" {
		t.Fatalf("encoded=%q", got)
	}
}

func TestFilterState_Query_TrimsWhitespace(t *testing.T) {
	f := FilterState{Search: "   "}
	if q := f.Query(); len(q) != 0 {
		t.Fatalf("whitespace-only search must be treated as absent, got %v", q)
	}
}

func TestEnums(t *testing.T) {
	if len(Categories) != 8 || len(Locations) != 8 {
		t.Fatalf("enum sets must have 8 values: cats=%d locs=%d", len(Categories), len(Locations))
	}
	if !ValidCategory("Electronics") || ValidCategory("electronics") {
		t.Fatalf("category validation is case-sensitive against the closed set")
	}
	if !ValidLocation("Sports Complex") || ValidLocation("Gym") {
		t.Fatalf("location validation failed")
	}
	if ItemLost.Opposite() != ItemFound || ItemFound.Opposite() != ItemLost {
		t.Fatalf("opposite type mapping broken")
	}
	if !ItemLost.Valid() || ItemType("misplaced").Valid() {
		t.Fatalf("type validation failed")
	}
}

func TestItem_ResolvableAndContact(t *testing.T) {
	it := Item{ID: "i1", UserID: "u1", Status: StatusActive, IsAnonymous: true}
	if !it.Resolvable("u1") {
		t.Fatalf("owner of an active item can resolve")
	}
	if it.Resolvable("u2") {
		t.Fatalf("non-owner must not be offered resolve")
	}
	it.Status = StatusResolved
	if it.Resolvable("u1") {
		t.Fatalf("resolved is terminal; no further transition is offered")
	}
	if it.ContactVisible() {
		t.Fatalf("anonymous item must hide contact info even from its owner")
	}
}
