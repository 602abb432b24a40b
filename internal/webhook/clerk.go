// Package webhook receives Clerk user events delivered through Svix.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"promptpilot/internal/models"
	"promptpilot/internal/services"

	log "github.com/sirupsen/logrus"
	svix "github.com/svix/svix-webhooks/go"
)

// Clerk event types handled by the receiver.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

var svixHeaders = []string{"svix-id", "svix-timestamp", "svix-signature"}

// ErrMissingHeaders is returned when a delivery lacks any svix header.
var ErrMissingHeaders = fmt.Errorf("%w: missing svix headers", models.ErrWebhookVerification)

// UserSyncer applies user events to local storage.
type UserSyncer interface {
	CreateUser(ctx context.Context, in services.IdentityUser) (*models.User, error)
	UpdateUser(ctx context.Context, in services.IdentityUser) (*models.User, error)
	DeleteUser(ctx context.Context, clerkID string) error
}

// Verifier checks a Svix signature.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// Event is the Clerk webhook envelope.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ClerkUser is the subset of the Clerk user object we store.
type ClerkUser struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Identity converts the Clerk payload; the first email address wins and a
// blank full name becomes nil.
func (u ClerkUser) Identity() services.IdentityUser {
	in := services.IdentityUser{ClerkID: u.ID}
	if len(u.EmailAddresses) > 0 {
		in.Email = u.EmailAddresses[0].EmailAddress
	}
	var parts []string
	for _, p := range []*string{u.FirstName, u.LastName} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) > 0 {
		name := strings.Join(parts, " ")
		in.Name = &name
	}
	return in
}

// Receiver verifies and dispatches Clerk events.
type Receiver struct {
	verifier Verifier
	users    UserSyncer
}

// NewReceiver builds a receiver for the Clerk signing secret ("whsec_..."). An
// empty secret yields a receiver that rejects every delivery with a
// configuration error.
func NewReceiver(secret string, users UserSyncer) (*Receiver, error) {
	if secret == "" {
		return &Receiver{users: users}, nil
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, models.NewConfigurationError("invalid Clerk webhook secret: %v", err)
	}
	return &Receiver{verifier: wh, users: users}, nil
}

// NewReceiverWithVerifier is NewReceiver with an explicit verifier.
func NewReceiverWithVerifier(v Verifier, users UserSyncer) *Receiver {
	return &Receiver{verifier: v, users: users}
}

// Verify checks headers and signature and decodes the event.
func (r *Receiver) Verify(payload []byte, headers http.Header) (*Event, error) {
	for _, h := range svixHeaders {
		if headers.Get(h) == "" {
			return nil, ErrMissingHeaders
		}
	}
	if r.verifier == nil {
		return nil, models.NewConfigurationError("Clerk webhook secret is not configured")
	}
	if err := r.verifier.Verify(payload, headers); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrWebhookVerification, err)
	}

	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: decode event: %v", models.ErrWebhookVerification, err)
	}
	return &evt, nil
}

// Dispatch applies a verified event. Unknown types are logged and ignored.
func (r *Receiver) Dispatch(ctx context.Context, evt *Event) error {
	var user ClerkUser
	if len(evt.Data) > 0 {
		if err := json.Unmarshal(evt.Data, &user); err != nil {
			return fmt.Errorf("decode %s data: %w", evt.Type, err)
		}
	}
	logger := log.WithFields(log.Fields{"event": evt.Type, "clerk_id": user.ID})

	switch evt.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		if user.ID == "" {
			return fmt.Errorf("%s: missing required user data", evt.Type)
		}
	default:
		logger.Info("Unhandled webhook event type")
		return nil
	}

	logger.Info("Processing webhook")
	switch evt.Type {
	case EventUserCreated:
		in := user.Identity()
		if in.Email == "" {
			return fmt.Errorf("%s: missing required user data", evt.Type)
		}
		_, err := r.users.CreateUser(ctx, in)
		return err
	case EventUserUpdated:
		_, err := r.users.UpdateUser(ctx, user.Identity())
		return err
	default:
		return r.users.DeleteUser(ctx, user.ID)
	}
}

// Handle verifies and dispatches one delivery.
func (r *Receiver) Handle(ctx context.Context, payload []byte, headers http.Header) error {
	evt, err := r.Verify(payload, headers)
	if err != nil {
		return err
	}
	return r.Dispatch(ctx, evt)
}
