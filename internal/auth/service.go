package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service ties sid cookies to provider sessions. With no provider configured
// it falls back to a single local admin account (bcrypt hash from config) so
// the admin panel stays usable in development.
type Service struct {
	client     *Client // nil in local mode
	sessions   *registry
	adminGroup string

	localEmail string
	localHash  string
}

func NewService(client *Client, adminGroup string) *Service {
	return &Service{client: client, sessions: newRegistry(), adminGroup: adminGroup}
}

// NewLocalService builds the development fallback: one admin identity, no
// external provider.
func NewLocalService(adminGroup, email, passwordHash string) *Service {
	return &Service{
		sessions:   newRegistry(),
		adminGroup: adminGroup,
		localEmail: email,
		localHash:  passwordHash,
	}
}

func (s *Service) AdminGroup() string { return s.adminGroup }

func (s *Service) SignIn(ctx context.Context, sid, email, password string) (*Session, error) {
	if s.client == nil {
		return s.signInLocal(sid, email, password)
	}
	tokens, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	claims, err := DecodeClaims(tokens.IDToken)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:      sid,
		Email:   claims.Email,
		IDToken: tokens.IDToken,
		Groups:  claims.Groups,
		Expires: claims.ExpiresAt(),
	}
	if sess.Email == "" {
		sess.Email = email
	}
	s.sessions.put(sess)
	return sess, nil
}

func (s *Service) signInLocal(sid, email, password string) (*Session, error) {
	if s.localEmail == "" || email != s.localEmail {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(s.localHash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	sess := &Session{
		ID:      sid,
		Email:   email,
		Groups:  []string{s.adminGroup},
		Expires: time.Now().Add(12 * time.Hour),
	}
	s.sessions.put(sess)
	return sess, nil
}

func (s *Service) SignUp(ctx context.Context, email, password string) error {
	if s.client == nil {
		return errors.New("sign-up unavailable without an identity provider")
	}
	return s.client.SignUp(ctx, email, password)
}

func (s *Service) ConfirmSignUp(ctx context.Context, email, code string) error {
	if s.client == nil {
		return errors.New("confirmation unavailable without an identity provider")
	}
	return s.client.ConfirmSignUp(ctx, email, code)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if s.client == nil {
		return errors.New("password reset unavailable without an identity provider")
	}
	return s.client.ForgotPassword(ctx, email)
}

// Current returns the live session for a sid cookie, or nil.
func (s *Service) Current(sid string) *Session {
	if sid == "" {
		return nil
	}
	return s.sessions.get(sid)
}

func (s *Service) IsAdmin(sess *Session) bool {
	return sess.InGroup(s.adminGroup)
}

func (s *Service) SignOut(sid string) {
	s.sessions.drop(sid)
}
