package store

import (
	"context"
	"testing"
	"time"

	"zakatledger/internal/models"
)

func TestAuditStoreLogAssignsID(t *testing.T) {
	tx := &stubTx{}
	store := NewAuditStore(&stubDB{})

	if err := store.Log(context.Background(), tx, "u", "deposit", "txn-1", `{"transaction_id":"txn-1"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.execs) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(tx.execs))
	}
	args := tx.execs[0].args
	if id, ok := args[0].(string); !ok || id == "" {
		t.Fatalf("audit row must get a generated id, got %v", args[0])
	}
	if args[1] != "u" || args[2] != "deposit" || args[3] != "txn-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestAuditStoreListPassesPagination(t *testing.T) {
	db := &stubDB{}
	db.selectFn = func(dest any, query string, args []any) error {
		if args[0] != 10 || args[1] != 20 {
			t.Fatalf("unexpected pagination args: %v", args)
		}
		*dest.(*[]models.AuditEntry) = []models.AuditEntry{
			{ID: "a1", ActorID: "u", Action: "deposit", CreatedAt: time.Now()},
		}
		return nil
	}
	store := NewAuditStore(db)

	entries, err := store.List(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "deposit" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
