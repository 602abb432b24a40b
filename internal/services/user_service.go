package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"promptpilot/internal/models"
	"promptpilot/internal/store"

	log "github.com/sirupsen/logrus"
)

// ConfirmationSender re-sends signup confirmation mail.
type ConfirmationSender interface {
	ResendSignupConfirmation(ctx context.Context, email string) error
}

// IdentityUser is the identity-provider view of an account.
type IdentityUser struct {
	ClerkID string
	Email   string
	Name    *string
}

// UserService keeps local user rows in step with the identity provider.
type UserService struct {
	users  store.UserStore
	mailer ConfirmationSender
}

// NewUserService wires the service. mailer may be nil when confirmation
// resends are not configured.
func NewUserService(users store.UserStore, mailer ConfirmationSender) *UserService {
	return &UserService{users: users, mailer: mailer}
}

// CreateUser inserts a user. A replayed create for an existing account
// updates it instead.
func (s *UserService) CreateUser(ctx context.Context, in IdentityUser) (*models.User, error) {
	if in.ClerkID == "" {
		return nil, fmt.Errorf("%w: missing user id", models.ErrValidation)
	}
	if in.Email == "" {
		return nil, fmt.Errorf("%w: user %s has no email address", models.ErrValidation, in.ClerkID)
	}

	u := &models.User{ClerkID: in.ClerkID, Email: in.Email, Name: in.Name, Plan: models.PlanFree}
	err := s.users.CreateUser(ctx, u)
	if errors.Is(err, store.ErrDuplicate) {
		log.WithField("clerk_id", in.ClerkID).Info("User already exists; applying as update")
		return s.UpdateUser(ctx, in)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", models.ErrPersistence, err)
	}
	log.WithField("clerk_id", in.ClerkID).Info("User created")
	return u, nil
}

// UpdateUser applies changed fields, creating the user when no row exists.
// An empty email keeps the stored one.
func (s *UserService) UpdateUser(ctx context.Context, in IdentityUser) (*models.User, error) {
	existing, err := s.users.GetUserByClerkID(ctx, in.ClerkID)
	if errors.Is(err, models.ErrNotFound) {
		return s.CreateUser(ctx, in)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get user: %w", models.ErrPersistence, err)
	}

	if in.Email != "" {
		existing.Email = in.Email
	}
	if in.Name != nil {
		existing.Name = in.Name
	}
	if err := s.users.UpdateUser(ctx, existing); err != nil {
		return nil, fmt.Errorf("%w: update user: %w", models.ErrPersistence, err)
	}
	log.WithField("clerk_id", in.ClerkID).Info("User updated")
	return existing, nil
}

// DeleteUser removes the user. Deleting an unknown user is not an error.
func (s *UserService) DeleteUser(ctx context.Context, clerkID string) error {
	err := s.users.DeleteUserByClerkID(ctx, clerkID)
	if errors.Is(err, models.ErrNotFound) {
		log.WithField("clerk_id", clerkID).Warn("Delete for unknown user ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: delete user: %w", models.ErrPersistence, err)
	}
	log.WithField("clerk_id", clerkID).Info("User deleted")
	return nil
}

// GetUser returns the local row for clerkID.
func (s *UserService) GetUser(ctx context.Context, clerkID string) (*models.User, error) {
	u, err := s.users.GetUserByClerkID(ctx, clerkID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: get user: %w", models.ErrPersistence, err)
	}
	return u, err
}

// ResendConfirmation asks the auth backend to re-send the signup mail.
func (s *UserService) ResendConfirmation(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", models.ErrValidation)
	}
	if s.mailer == nil {
		return models.NewConfigurationError("Supabase URL and anon key are required to resend confirmation email")
	}
	if err := s.mailer.ResendSignupConfirmation(ctx, email); err != nil {
		return err
	}
	log.Info("Signup confirmation resent")
	return nil
}
