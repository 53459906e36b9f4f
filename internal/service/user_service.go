package service

import (
	"context"
	"errors"
	"strings"

	"meetbook/internal/domain"
	"meetbook/internal/events"
	"meetbook/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo       domain.UserRepository
	eventBus   domain.EventPublisher
	bcryptCost int
	logger     *zerolog.Logger
}

func NewUserService(repo domain.UserRepository, eventBus domain.EventPublisher, bcryptCost int, logger *zerolog.Logger) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = models.DefaultBcryptCost
	}
	return &UserService{
		repo:       repo,
		eventBus:   eventBus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register stores a new user with status forced to pending. The password is
// kept only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, email, password, role string) (*models.User, error) {
	email = strings.TrimSpace(email)
	role = strings.TrimSpace(role)
	switch {
	case email == "":
		return nil, domain.MissingField("email")
	case password == "":
		return nil, domain.MissingField("password")
	case role == "":
		return nil, domain.MissingField("role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusPending,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publishUserEvent(events.EventUserRegistered, user)
	return user, nil
}

// Login verifies credentials and the approval gate. Approver and admin roles
// may log in while still pending.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return nil, domain.MissingField("email")
	case password == "":
		return nil, domain.MissingField("password")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, err
	}

	if !user.IsApprover() && user.Status != models.StatusApproved {
		return nil, domain.ErrPendingApproval
	}

	return user, nil
}

// ApproveUser moves a pending user to approved. Re-approving is a no-op.
func (s *UserService) ApproveUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Status == models.StatusApproved {
		return user, nil
	}

	if err := s.repo.UpdateUserStatus(ctx, id, models.StatusApproved); err != nil {
		return nil, err
	}
	user.Status = models.StatusApproved

	s.publishUserEvent(events.EventUserApproved, user)
	return user, nil
}

func (s *UserService) PendingUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsersByStatus(ctx, models.StatusPending)
}

func (s *UserService) publishUserEvent(eventType string, user *models.User) {
	if s.eventBus == nil {
		return
	}

	payload := events.UserEventPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("user_id", user.ID).Msg("publish event error")
	}
}
