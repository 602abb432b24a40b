package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"promptpilot/internal/models"
	"promptpilot/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const promptColumns = `id, user_id, original_text, improved_text, category, model_used,
		tokens, quality_score, created_at, updated_at`

func (s *StoreImpl) SavePrompt(ctx context.Context, record *models.PromptRecord) error {
	query := `
		INSERT INTO prompts (id, user_id, original_text, improved_text, category,
			model_used, tokens, quality_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING created_at, updated_at`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	err := s.db.QueryRow(ctx, query,
		record.ID, record.UserID, record.OriginalText, record.ImprovedText, record.Category,
		record.ModelUsed, record.Tokens, record.QualityScore, record.CreatedAt,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("prompt %s already exists: %w", record.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetPromptForUser(ctx context.Context, id uuid.UUID, userID string) (*models.PromptRecord, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1 AND user_id = $2`
	p, err := scanPrompt(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prompt %s: %w", id, err)
	}
	return p, nil
}

func (s *StoreImpl) ListPromptsForUser(ctx context.Context, userID string, limit, offset int) ([]*models.PromptRecord, error) {
	query := `SELECT ` + promptColumns + `
		FROM prompts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[*models.PromptRecord](rows, func(row pgx.CollectableRow) (*models.PromptRecord, error) {
		return scanPrompt(row)
	})
}

func scanPrompt(row pgx.Row) (*models.PromptRecord, error) {
	p := &models.PromptRecord{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.OriginalText,
		&p.ImprovedText,
		&p.Category,
		&p.ModelUsed,
		&p.Tokens,
		&p.QualityScore,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
