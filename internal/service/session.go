package service

import (
	"context"
	"log/slog"
	"sync"

	"trolley/internal/domain"
)

// SessionService loads and updates the authenticated user's profile and
// keeps the session's region in step with the preferred region.
type SessionService struct {
	account domain.AccountRepository
	session *domain.Session
	logger  *slog.Logger

	mu      sync.Mutex
	profile *domain.Profile
}

// NewSessionService creates a new session service
func NewSessionService(account domain.AccountRepository, session *domain.Session, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		account: account,
		session: session,
		logger:  logger,
	}
}

// Session returns the ambient session.
func (s *SessionService) Session() *domain.Session {
	return s.session
}

// LoadProfile fetches the user's profile from the service.
func (s *SessionService) LoadProfile(ctx context.Context) (*domain.Profile, error) {
	profile, err := s.account.GetProfile(ctx)
	if err != nil {
		s.logger.Error("failed to load profile", "error", err)
		return nil, &domain.FetchError{Op: "load profile", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	if profile.Region != "" {
		s.session.Region = profile.Region
	}
	return profile, nil
}

// UpdateProfile updates the display name and preferred region.
func (s *SessionService) UpdateProfile(ctx context.Context, name, region string) (*domain.Profile, error) {
	profile, err := s.account.UpdateProfile(ctx, name, region)
	if err != nil {
		s.logger.Error("failed to update profile", "error", err)
		return nil, &domain.MutationError{Op: "update profile", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	if profile.Region != "" {
		s.session.Region = profile.Region
	}
	s.logger.Info("updated profile", "name", name, "region", region)
	return profile, nil
}

// Profile returns the cached profile, or nil when it has not loaded yet.
func (s *SessionService) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}
