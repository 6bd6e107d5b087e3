package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type pgSessionRepository struct {
	db *sql.DB
}

func NewPgSessionRepository(db *sql.DB) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO session_tokens (id, user_id, token, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.Token, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	query := `SELECT id, user_id, token, expires_at, created_at
	          FROM session_tokens WHERE id = $1`
	session := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.Token, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSessionRepository.FindByID: %w", err)
	}
	return session, nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSessionRepository.Delete: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.DeleteByUserID: %w", err)
	}
	return result.RowsAffected()
}

func (r *pgSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("pgSessionRepository.DeleteExpired: %w", err)
	}
	return result.RowsAffected()
}
