package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// UserService registers and authenticates users
type UserService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
	hashCost int
	now      func() time.Time
}

func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger, hashCost int) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		hashCost: hashCost,
		now:      time.Now,
	}
}

// Register validates in and creates the user. Username and email must not
// be in use, ignoring case.
func (s *UserService) Register(in models.RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	verr := &models.ValidationError{}
	if _, err := s.userRepo.GetByUsername(in.Username); err == nil {
		verr.Add("username", "A user with that username already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(in.Email); err == nil {
		verr.Add("email", "A user with that email already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.NewValidationError("password", "Ensure this field has no more than 72 bytes.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		DateJoined:   s.now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, models.NewValidationError("username", "A user with that username or email already exists.")
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate returns the user matching the credentials.
func (s *UserService) Authenticate(creds models.Credentials) (*models.User, error) {
	if err := models.Validate(&creds); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(strings.TrimSpace(creds.Username))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}
