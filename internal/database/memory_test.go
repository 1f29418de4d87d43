package database

import (
	"context"
	"errors"
	"testing"
)

type row struct {
	Name string
	Tags []string
}

func cloneRow(r row) row {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}

func TestMemoryWithinTxRollsBackOnError(t *testing.T) {
	db := NewMemoryDB()
	table := NewMemTable(db, cloneRow)
	table.Put("a", row{Name: "before"})

	boom := errors.New("boom")
	err := db.WithinTx(context.Background(), func(ctx context.Context) error {
		table.Put("a", row{Name: "after"})
		table.Put("b", row{Name: "new"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := table.Get("a")
	if got.Name != "before" {
		t.Fatalf("expected rollback to restore row, got %q", got.Name)
	}
	if _, ok := table.Get("b"); ok {
		t.Fatalf("row inserted in failed transaction survived")
	}
}

func TestMemoryWithinTxIsReentrant(t *testing.T) {
	db := NewMemoryDB()
	table := NewMemTable(db, cloneRow)

	err := db.WithinTx(context.Background(), func(ctx context.Context) error {
		return db.WithinTx(ctx, func(ctx context.Context) error {
			release := db.Guard(ctx)
			defer release()
			table.Put("x", row{Name: "nested"})
			return nil
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Get("x"); !ok {
		t.Fatalf("nested write was not committed")
	}
}

func TestMemTableReturnsCopies(t *testing.T) {
	db := NewMemoryDB()
	table := NewMemTable(db, cloneRow)
	table.Put("a", row{Name: "a", Tags: []string{"raw"}})

	got, _ := table.Get("a")
	got.Tags[0] = "mutated"

	again, _ := table.Get("a")
	if again.Tags[0] != "raw" {
		t.Fatalf("stored row was mutated through a returned copy")
	}
}
