package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CioFlingar/Library-Management-API/internal/logger"
	"github.com/CioFlingar/Library-Management-API/internal/models"
	"github.com/CioFlingar/Library-Management-API/internal/repositories"
)

// UserService covers account registration and the penalty-points lookup.
// Penalty points only ever grow through the borrow service; this service
// reads them.
type UserService interface {
	Register(username, email, password string) (*models.User, error)
	PenaltyPoints(actor Identity, targetID uuid.UUID) (*models.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repositories.UserRepository
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repositories.UserRepository) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *userService) Register(username, email, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(nil, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, err
	}
	s.log.Info("Register: user created", "user_id", user.ID, "username", username)
	return user, nil
}

// PenaltyPoints returns the target user for the penalties endpoint. Only the
// user themself or a staff member may read it; the permission check runs
// before the existence check, matching the endpoint's 403-over-404 contract.
func (s *userService) PenaltyPoints(actor Identity, targetID uuid.UUID) (*models.User, error) {
	if !actor.IsStaff && actor.UserID != targetID {
		return nil, ErrPermissionDenied
	}
	user, err := s.userRepo.GetByID(nil, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
