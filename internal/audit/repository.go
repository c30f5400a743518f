package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends to the audit_events table. The table is INSERT-only;
// retention is handled out of band.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, action, actor_user_id, actor_role, ip_address, target_id, path, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Action, e.ActorUserID, e.ActorRole, e.IPAddress, e.TargetID, e.Path, e.CreatedAt)
	return err
}
