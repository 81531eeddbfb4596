// Package service holds identity reconciliation: registering profiles, re-authenticating wallet
// users and resolving a session back to its identity record.
package service

import (
	"context" // Request-scoped store calls
	"errors"  // Error matching
	"strings" // Input trimming
	"time"    // Timestamps and notification wait

	"eduvault/internal/domain"  // Identity record and error taxonomy
	"eduvault/internal/metrics" // Outcome counters
	"eduvault/internal/notify"  // Welcome email result
	"eduvault/internal/store"   // Store sentinels
	"eduvault/internal/utils"   // Session tokens

	"github.com/sirupsen/logrus" // Logging
)

// notifyTimeout bounds a single welcome email delivery
const notifyTimeout = 30 * time.Second

// Notifier sends the welcome email
type Notifier interface {
	SendWelcome(ctx context.Context, to, name string) notify.Result
}

// RegisterInput is a validated registration request. Optional fields are nil when absent.
type RegisterInput struct {
	FullName      string
	Email         string
	Institution   *string
	Country       *string
	Bio           *string
	WalletAddress *string
}

// RegisterResult is returned by Register. Token is empty in cookie-less mode.
type RegisterResult struct {
	User      *domain.User
	EmailSent bool
	Token     string
}

// LookupResult is returned by LookupByWallet. Token is set only when the user exists and a secret is configured.
type LookupResult struct {
	Exists bool
	User   *domain.User
	Token  string
}

// ProfileService reconciles identities across email and wallet address
type ProfileService struct {
	store      store.IdentityStore
	notifier   Notifier
	secret     string
	notifyWait time.Duration
	now        func() time.Time
}

// NewProfileService creates a ProfileService. An empty secret runs the service cookie-less.
// notifyWait is how long Register waits for the welcome email outcome.
func NewProfileService(st store.IdentityStore, notifier Notifier, secret string, notifyWait time.Duration) *ProfileService {
	return &ProfileService{
		store:      st,
		notifier:   notifier,
		secret:     secret,
		notifyWait: notifyWait,
		now:        time.Now,
	}
}

// Register creates a new identity unless one already exists for the email or wallet address
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	fullName := strings.TrimSpace(in.FullName) // Required
	email := strings.TrimSpace(in.Email)       // Required, compared exactly
	// Check if required fields are present
	if fullName == "" || email == "" {
		metrics.RecordRegistration("invalid")
		return nil, domain.NewValidationError("Missing required fields")
	}

	user := &domain.User{
		FullName:    fullName,
		Email:       email,
		Institution: nilIfBlank(in.Institution),
		Country:     nilIfBlank(in.Country),
		Bio:         nilIfBlank(in.Bio),
		CreatedAt:   s.now().UTC(), // Immutable creation time
	}
	wallet := "" // Kept verbatim; only the normalized copy is lowercased
	if in.WalletAddress != nil && strings.TrimSpace(*in.WalletAddress) != "" {
		wallet = *in.WalletAddress
	}
	user.SetWallet(wallet) // Sets both the raw and lowercase copies

	// Fast path; the unique indexes below are what actually decide
	_, err := s.store.FindByIdentity(ctx, email, wallet)
	switch {
	case err == nil:
		metrics.RecordRegistration("conflict")
		return nil, &domain.ConflictError{Message: "Profile already exists"}
	case !errors.Is(err, store.ErrNotFound):
		metrics.RecordRegistration("error")
		return nil, &domain.UpstreamError{Op: "find identity", Err: err}
	}

	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent registration
			metrics.RecordRegistration("conflict")
			return nil, &domain.ConflictError{Message: "Profile already exists"}
		}
		metrics.RecordRegistration("error")
		return nil, &domain.UpstreamError{Op: "insert identity", Err: err}
	}
	metrics.RecordRegistration("created") // Count successful registration

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"wallet":  wallet != "",
	}).Info("Profile created")

	result := &RegisterResult{User: user, EmailSent: s.sendWelcome(user)} // Bounded wait for the mail outcome
	result.Token = s.issue(user)                                          // Empty in cookie-less mode
	return result, nil
}

// LookupByWallet reports whether an identity exists for the address and, if so, re-authenticates it
func (s *ProfileService) LookupByWallet(ctx context.Context, address string) (*LookupResult, error) {
	// Stored addresses are verbatim, so only blankness is judged on the trimmed form
	if strings.TrimSpace(address) == "" {
		metrics.RecordWalletLookup("invalid")
		return nil, domain.NewValidationError("Missing address")
	}
	user, err := s.store.FindByWallet(ctx, address) // Raw, lowercase or case-insensitive match
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordWalletLookup("missing")
		return &LookupResult{Exists: false}, nil
	}
	if err != nil {
		metrics.RecordWalletLookup("error")
		return nil, &domain.UpstreamError{Op: "find wallet", Err: err}
	}
	metrics.RecordWalletLookup("found")
	// Possession of a known address is enough here; there is no signature check
	return &LookupResult{Exists: true, User: user, Token: s.issue(user)}, nil
}

// ResolveSession verifies a session token and loads the identity it names.
// Returns *domain.InvalidTokenError for bad tokens and store.ErrNotFound for unknown subjects.
func (s *ProfileService) ResolveSession(ctx context.Context, token string) (*domain.User, *utils.Claims, error) {
	if token == "" {
		return nil, nil, &domain.InvalidTokenError{}
	}
	claims, err := utils.ParseJWT(token, s.secret) // Signature, expiry and secret checks
	if err != nil {
		return nil, nil, err // *domain.InvalidTokenError
	}
	user, err := s.store.FindByID(ctx, claims.Subject) // Subject is the identity id
	if err != nil {
		return nil, nil, err // store.ErrNotFound for deleted or unknown users
	}
	return user, claims, nil
}

// issue mints a session token, or returns "" when no secret is configured
func (s *ProfileService) issue(user *domain.User) string {
	if s.secret == "" {
		logrus.WithField("user_id", user.ID).Warn("JWT_SECRET is not set; auth cookie will not be created")
		return ""
	}
	token, err := utils.GenerateJWT(utils.ClaimsForUser(user), s.secret)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to sign session token")
		return ""
	}
	return token
}

// sendWelcome dispatches the welcome email on a context detached from the request and waits
// at most notifyWait for the outcome. A late result is still logged by the sending goroutine.
func (s *ProfileService) sendWelcome(user *domain.User) bool {
	if s.notifier == nil {
		return false
	}
	done := make(chan bool, 1) // Buffered so a late sender never blocks
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		res := s.notifier.SendWelcome(ctx, user.Email, user.FullName)
		metrics.RecordNotification(res.Sent)
		if !res.Sent {
			fields := logrus.Fields{"user_id": user.ID}
			if res.Err != nil {
				fields["error"] = res.Err.Error()
			}
			logrus.WithFields(fields).Warn("Welcome email failed")
		}
		done <- res.Sent
	}()

	timer := time.NewTimer(s.notifyWait) // Upper bound on how long the response waits
	defer timer.Stop()
	select {
	case sent := <-done:
		return sent
	case <-timer.C:
		logrus.WithField("user_id", user.ID).Warn("Welcome email still pending; responding without it")
		return false
	}
}

func nilIfBlank(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
