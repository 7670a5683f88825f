package service

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/internal/utils"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	UsernameMinLength = 5
	UsernameMaxLength = 12
	PasswordMinLength = 4
	PasswordMaxLength = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	digitRegex = regexp.MustCompile(`\d`)
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
	sanitizer     *bluemonday.Policy
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, environment string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

func (s *AuthService) Register(email, username, password, bio string) (*models.User, string, error) {
	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	// 1. Validate input
	if err := s.validateRegisterInput(email, username, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	// 2. Check if email already exists
	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", email),
		)
		return nil, "", ErrEmailAlreadyExists
	}

	// 3. Check if username already exists
	existingUser, err = s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Username already exists",
			zap.String("username", username),
		)
		return nil, "", ErrUsernameAlreadyExists
	}

	// 4. Hash password (Argon2id)
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, "", err
	}

	// 5. Create user
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Bio:          s.sanitizer.Sanitize(bio),
		IsAdmin:      false,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	// 6. Generate JWT token
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.String("email", email),
	)

	return user, token, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	// 1. Get user by email
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrUserNotFound
	}

	// 2. Verify password
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.Uint("user_id", user.ID),
		)
		return nil, "", ErrInvalidPassword
	}

	// 3. Generate JWT token
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

// GetProfile loads the authenticated actor's own profile. A negative actor id
// means the bearer token could not be resolved.
func (s *AuthService) GetProfile(actorID int64) (*models.User, error) {
	if actorID <= 0 {
		return nil, ErrWrongToken
	}

	user, err := s.userRepo.GetUserByID(uint(actorID))
	if err != nil {
		logger.Log.Error("Failed to fetch user profile",
			zap.Int64("actor_id", actorID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile updates the actor's bio. An empty bio keeps the current one.
func (s *AuthService) UpdateProfile(actorID int64, bio string) (*models.User, error) {
	user, err := s.GetProfile(actorID)
	if err != nil {
		return nil, err
	}

	if bio == "" {
		return user, nil
	}

	bio = s.sanitizer.Sanitize(bio)
	if err := s.userRepo.UpdateBio(user.ID, bio); err != nil {
		logger.Log.Error("Failed to update user bio",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}
	user.Bio = bio

	logger.Log.Info("User profile updated",
		zap.Uint("user_id", user.ID),
	)

	return user, nil
}

// GetAllUsers returns every account, for the admin listing.
func (s *AuthService) GetAllUsers() ([]*models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch all users",
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Debug("Fetched all users",
		zap.Int("count", len(users)),
	)

	return users, nil
}

func (s *AuthService) validateRegisterInput(email, username, password string) error {
	// Username validation
	if n := utf8.RuneCountInString(username); n < UsernameMinLength || n > UsernameMaxLength {
		return fmt.Errorf("%w: username must be between %d and %d characters",
			ErrValidation, UsernameMinLength, UsernameMaxLength)
	}

	// Email validation (regex)
	if !emailRegex.MatchString(email) || len(email) > 100 {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}

	// Password validation: 4-8 characters containing at least one digit
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength || !digitRegex.MatchString(password) {
		return fmt.Errorf("%w: invalid password", ErrValidation)
	}

	return nil
}
