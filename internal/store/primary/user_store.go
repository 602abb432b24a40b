package primary

import (
	"context"
	"errors"
	"fmt"

	"promptpilot/internal/models"
	"promptpilot/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- User Management ---

func (s *StoreImpl) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (clerk_id, email, name, plan)
		VALUES ($1, $2, $3, $4)
		RETURNING id, usage_count, created_at, updated_at`

	if user.Plan == "" {
		user.Plan = models.PlanFree
	}
	err := s.db.QueryRow(ctx, query, user.ClerkID, user.Email, user.Name, user.Plan).
		Scan(&user.ID, &user.UsageCount, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("user with clerk id '%s' already exists: %w", user.ClerkID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	query := `
		SELECT id, clerk_id, email, name, usage_count, plan, created_at, updated_at
		FROM users WHERE clerk_id = $1`
	u := &models.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID, &u.ClerkID, &u.Email, &u.Name, &u.UsageCount, &u.Plan, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", clerkID, err)
	}
	return u, nil
}

func (s *StoreImpl) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, name = $3, plan = COALESCE(NULLIF($4, ''), plan), updated_at = now()
		WHERE clerk_id = $1
		RETURNING id, usage_count, plan, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, user.ClerkID, user.Email, user.Name, string(user.Plan)).
		Scan(&user.ID, &user.UsageCount, &user.Plan, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update user '%s': %w", user.ClerkID, err)
	}
	return nil
}

func (s *StoreImpl) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user '%s': %w", clerkID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) IncrementUsage(ctx context.Context, clerkID string) error {
	query := `
		INSERT INTO users (clerk_id, usage_count)
		VALUES ($1, 1)
		ON CONFLICT (clerk_id)
		DO UPDATE SET usage_count = users.usage_count + 1, updated_at = now()`
	if _, err := s.db.Exec(ctx, query, clerkID); err != nil {
		return fmt.Errorf("failed to increment usage for '%s': %w", clerkID, err)
	}
	return nil
}
