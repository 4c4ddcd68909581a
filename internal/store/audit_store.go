package store

import (
	"context"

	"github.com/google/uuid"

	"zakatledger/internal/models"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log records who did what inside the same transaction as the operation
// itself, so the audit trail cannot drift from the ledger.
func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID, action, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, entity_id, data)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), actorID, action, entityID, data)
	return err
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	var rows []models.AuditEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_id, action, entity_id, data, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
