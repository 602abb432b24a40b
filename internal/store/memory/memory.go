// Package memory is a map-backed store.Store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"promptpilot/internal/models"
	"promptpilot/internal/store"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	prompts map[uuid.UUID]*models.PromptRecord
	users   map[string]*models.User // by clerk id
	usage   []*models.AIUsageLog
	nextID  int64
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		prompts: make(map[uuid.UUID]*models.PromptRecord),
		users:   make(map[string]*models.User),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// Prompt methods

func (s *Store) SavePrompt(ctx context.Context, record *models.PromptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, exists := s.prompts[record.ID]; exists {
		return store.ErrDuplicate
	}
	now := s.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	cp := *record
	s.prompts[record.ID] = &cp
	return nil
}

func (s *Store) GetPromptForUser(ctx context.Context, id uuid.UUID, userID string) (*models.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.prompts[id]
	if !exists || p.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPromptsForUser(ctx context.Context, userID string, limit, offset int) ([]*models.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.PromptRecord
	for _, p := range s.prompts {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, offset), nil
}

// User methods

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ClerkID]; exists {
		return store.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Plan == "" {
		user.Plan = models.PlanFree
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	cp := *user
	s.users[user.ClerkID] = &cp
	return nil
}

func (s *Store) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[clerkID]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.users[user.ClerkID]
	if !exists {
		return store.ErrNotFound
	}
	existing.Email = user.Email
	existing.Name = user.Name
	if user.Plan != "" {
		existing.Plan = user.Plan
	}
	existing.UpdatedAt = s.now()
	*user = *existing
	return nil
}

func (s *Store) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[clerkID]; !exists {
		return store.ErrNotFound
	}
	delete(s.users, clerkID)
	return nil
}

func (s *Store) IncrementUsage(ctx context.Context, clerkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	u, exists := s.users[clerkID]
	if !exists {
		u = &models.User{
			ID:        uuid.New(),
			ClerkID:   clerkID,
			Plan:      models.PlanFree,
			CreatedAt: now,
		}
		s.users[clerkID] = u
	}
	u.UsageCount++
	u.UpdatedAt = now
	return nil
}

// Usage methods

func (s *Store) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	log.ID = s.nextID
	if log.Timestamp.IsZero() {
		log.Timestamp = s.now()
	}
	cp := *log
	s.usage = append(s.usage, &cp)
	return nil
}

func (s *Store) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AIUsageLog, 0, len(s.usage))
	for i := len(s.usage) - 1; i >= 0; i-- {
		cp := *s.usage[i]
		out = append(out, &cp)
	}
	return page(out, limit, offset), nil
}

func (s *Store) GetUsageSummary(ctx context.Context) (float64, int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cost float64
	var in, out int64
	for _, u := range s.usage {
		cost += u.Cost
		in += int64(u.InputTokens)
		out += int64(u.OutputTokens)
	}
	return cost, in, out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
