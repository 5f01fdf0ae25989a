package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mpreston/tripdesk/backend/internal/domain"
	"github.com/mpreston/tripdesk/backend/internal/repo"
)

// codeTTL is how long an issued authorization code stays exchangeable.
const codeTTL = 5 * time.Minute

// AuthService implements account registration, credential sign-in, the
// authorization-code exchange used by the callback endpoint, and session
// resolution for the auth middleware (the session accessor).
type AuthService struct {
	users    repo.UserRepo
	sessions repo.SessionRepo
	ttl      time.Duration
}

// NewAuthService constructs an AuthService. ttl is the lifetime of issued
// sessions.
func NewAuthService(users repo.UserRepo, sessions repo.SessionRepo, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// SignUp registers a new account and opens a session for it.
// Returns domain.ErrValidation for malformed input or an already-registered
// email.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (domain.User, domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.SignUp: hash: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	})
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("service.AuthService.SignUp: %w", err)
	}
	return user, sess, nil
}

// SignIn verifies credentials and opens a session.
// Unknown email and wrong password both return domain.ErrUnauthenticated so
// the response does not reveal which one failed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
		}
		return domain.Session{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.SignIn: %w", err)
	}
	return sess, nil
}

// IssueCode mints a single-use authorization code for the authenticated
// caller. The code can be handed to another surface (e.g. a redirect target)
// and exchanged once for a session within codeTTL.
func (s *AuthService) IssueCode(ctx context.Context) (domain.AuthCode, error) {
	ident, err := requireIdentity(ctx)
	if err != nil {
		return domain.AuthCode{}, fmt.Errorf("service.AuthService.IssueCode: %w", err)
	}

	code, err := s.sessions.CreateAuthCode(ctx, domain.AuthCode{
		Code:      newToken(),
		UserID:    ident.UserID,
		ExpiresAt: time.Now().Add(codeTTL),
	})
	if err != nil {
		return domain.AuthCode{}, fmt.Errorf("service.AuthService.IssueCode: %w", err)
	}
	return code, nil
}

// Exchange spends an authorization code and opens a session for its user.
// Unknown, expired, and already-spent codes all return
// domain.ErrUnauthenticated.
func (s *AuthService) Exchange(ctx context.Context, code string) (domain.Session, error) {
	userID, err := s.sessions.ConsumeAuthCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%w: invalid or expired code", domain.ErrUnauthenticated)
		}
		return domain.Session{}, fmt.Errorf("service.AuthService.Exchange: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Exchange: %w", err)
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.Exchange: %w", err)
	}
	return sess, nil
}

// Logout deletes the session for the given token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// IdentityForToken resolves a session token into an Identity.
// Returns domain.ErrUnauthenticated for unknown or expired tokens; this is
// what the auth middleware calls on every request carrying a token.
func (s *AuthService) IdentityForToken(ctx context.Context, token string) (domain.Identity, error) {
	sess, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, fmt.Errorf("service.AuthService.IdentityForToken: %w", err)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("service.AuthService.IdentityForToken: %w", err)
	}
	return domain.Identity{UserID: user.ID, Email: user.Email}, nil
}

// openSession creates a session row with a fresh random token.
func (s *AuthService) openSession(ctx context.Context, user domain.User) (domain.Session, error) {
	return s.sessions.CreateSession(ctx, domain.Session{
		Token:     newToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	})
}

// newToken returns 32 bytes of cryptographic randomness, hex-encoded.
// Used for both session tokens and authorization codes.
func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform is broken; nothing sane to do.
		panic("service: crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}
