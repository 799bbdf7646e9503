package session

import (
	"testing"

	"github.com/dvloznov/expense-classifier/internal/expense"
	"github.com/dvloznov/expense-classifier/internal/pipeline"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()

	sess := store.Create()
	if sess.ID == "" {
		t.Fatal("expected session ID")
	}
	if !sess.Table.Empty() {
		t.Error("new session should start with an empty table")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("got session %q, want %q", got.ID, sess.ID)
	}

	store.Discard(sess.ID)
	if _, err := store.Get(sess.ID); err == nil {
		t.Error("expected error after discard")
	}
}

func TestStoreSetBudget(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	if err := store.SetBudget(sess.ID, 1500); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	got, _ := store.Get(sess.ID)
	if got.Budget != 1500 {
		t.Errorf("budget = %v, want 1500", got.Budget)
	}

	if err := store.SetBudget(sess.ID, -1); err == nil {
		t.Error("expected error for negative budget")
	}
	if err := store.SetBudget("missing", 10); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestStoreReplaceTableDiscardsResult(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	if err := store.SetResult(sess.ID, &pipeline.Result{Advice: "old"}); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}

	table := expense.FromInputs([]expense.RowInput{
		{Description: "Coffee", Amount: "4.50"},
	})
	if err := store.ReplaceTable(sess.ID, table); err != nil {
		t.Fatalf("ReplaceTable failed: %v", err)
	}

	got, _ := store.Get(sess.ID)
	if got.Table.Len() != 1 {
		t.Errorf("table not replaced: %d rows", got.Table.Len())
	}
	// A new table invalidates the previous categorize run.
	if got.LastRun != nil {
		t.Error("expected prior result to be discarded on table replace")
	}
}
