package services

import (
	"context"
	"errors"
	"testing"

	"promptpilot/internal/models"
	"promptpilot/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) ResendSignupConfirmation(ctx context.Context, email string) error {
	m.sent = append(m.sent, email)
	return m.err
}

func strPtr(s string) *string { return &s }

func TestUserService_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewUserService(st, nil)

	u, err := svc.CreateUser(ctx, IdentityUser{ClerkID: "user_1", Email: "ada@example.com", Name: strPtr("Ada")})
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, u.Plan)

	// Replayed create becomes an update.
	u, err = svc.CreateUser(ctx, IdentityUser{ClerkID: "user_1", Email: "ada@lovelace.dev"})
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", u.Email)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ada", *u.Name)

	// Empty email keeps the stored address.
	u, err = svc.UpdateUser(ctx, IdentityUser{ClerkID: "user_1", Name: strPtr("Ada L.")})
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", u.Email)
	assert.Equal(t, "Ada L.", *u.Name)

	require.NoError(t, svc.DeleteUser(ctx, "user_1"))
	require.NoError(t, svc.DeleteUser(ctx, "user_1"))

	_, err = svc.GetUser(ctx, "user_1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_UpdateCreatesMissing(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewUserService(st, nil)

	_, err := svc.UpdateUser(ctx, IdentityUser{ClerkID: "user_2", Email: "bob@example.com"})
	require.NoError(t, err)

	u, err := svc.GetUser(ctx, "user_2")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
}

func TestUserService_CreateRequiresEmail(t *testing.T) {
	svc := NewUserService(memory.New(), nil)
	_, err := svc.CreateUser(context.Background(), IdentityUser{ClerkID: "user_3"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResendConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("sends", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc := NewUserService(memory.New(), mailer)
		require.NoError(t, svc.ResendConfirmation(ctx, "ada@example.com"))
		assert.Equal(t, []string{"ada@example.com"}, mailer.sent)
	})

	t.Run("invalid address", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc := NewUserService(memory.New(), mailer)
		assert.ErrorIs(t, svc.ResendConfirmation(ctx, "not-an-email"), models.ErrValidation)
		assert.Empty(t, mailer.sent)
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewUserService(memory.New(), nil)
		assert.ErrorIs(t, svc.ResendConfirmation(ctx, "ada@example.com"), models.ErrConfiguration)
	})

	t.Run("backend failure", func(t *testing.T) {
		mailer := &recordingMailer{err: errors.New("boom")}
		svc := NewUserService(memory.New(), mailer)
		assert.Error(t, svc.ResendConfirmation(ctx, "ada@example.com"))
	})
}
