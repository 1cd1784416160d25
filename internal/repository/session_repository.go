package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
)

// SessionRepository persists the best-effort audit copies of issued student
// session tokens. Callers are expected to treat every failure here as
// non-fatal.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts an audit session row.
func (r *SessionRepository) Create(ctx context.Context, session *models.StudentSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO student_sessions (id, student_id, token, expires_at, ip_address, user_agent, created_at)
        VALUES (:id, :student_id, :token, :expires_at, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create student session: %w", err)
	}
	return nil
}

// FindByToken fetches the audit row matching a token.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*models.StudentSession, error) {
	const query = `SELECT id, student_id, token, expires_at, ip_address, user_agent, created_at
        FROM student_sessions WHERE token = $1`
	var session models.StudentSession
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken removes the audit rows matching a token.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM student_sessions WHERE token = $1", token); err != nil {
		return fmt.Errorf("delete student session: %w", err)
	}
	return nil
}

// DeleteExpired sweeps rows whose expiry has passed and reports how many
// were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM student_sessions WHERE expires_at < $1", now)
	if err != nil {
		return 0, fmt.Errorf("delete expired student sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// CountActive returns the number of unexpired audit rows.
func (r *SessionRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM student_sessions WHERE expires_at >= $1", now); err != nil {
		return 0, fmt.Errorf("count active student sessions: %w", err)
	}
	return total, nil
}
