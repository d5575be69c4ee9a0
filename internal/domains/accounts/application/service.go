package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/streetsource/streetsource-api/internal/domains/accounts/domain"
	"github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	"github.com/streetsource/streetsource-api/internal/platform/auth"
)

// Service exposes account use cases: registration, login, and profile upkeep.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   *auth.Manager
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens *auth.Manager) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// Register creates an account and returns it alongside a fresh access token.
// The phone number is the login identity; duplicates are rejected.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	user, err := domain.NewUser(input.Name, input.Phone, input.Role)
	if err != nil {
		return nil, "", mapError(err)
	}
	if err := domain.ValidatePIN(input.PIN); err != nil {
		return nil, "", mapError(err)
	}
	if existing, err := s.repo.GetByPhone(ctx, user.Phone); err == nil && existing != nil {
		return nil, "", ports.ErrPhoneTaken
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.PIN)), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user.PINHash = string(hash)

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueSession(ctx, saved)
	if err != nil {
		return nil, "", err
	}
	return saved, token, nil
}

// Login verifies the phone/PIN pair and issues a fresh token.
func (s *Service) Login(ctx context.Context, phone, pin string) (*domain.User, string, error) {
	phone = strings.TrimSpace(phone)
	pin = strings.TrimSpace(pin)
	if phone == "" || pin == "" {
		return nil, "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, "", mapError(ports.ErrInvalidCredentials)
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)) != nil {
		return nil, "", mapError(ports.ErrInvalidCredentials)
	}
	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes every live session for the user.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.sessions.DeleteByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the provided optional fields.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		if err := user.SetName(*update.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if update.Phone != nil {
		if err := user.SetPhone(*update.Phone); err != nil {
			return nil, mapError(err)
		}
	}
	return s.repo.Update(ctx, user)
}

// ValidateToken reports whether the token still maps to a live session.
func (s *Service) ValidateToken(ctx context.Context, token string) (bool, error) {
	return s.sessions.Validate(ctx, token)
}

func (s *Service) issueSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return "", err
	}
	if err := s.sessions.Save(ctx, user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}

var _ ports.Service = (*Service)(nil)
