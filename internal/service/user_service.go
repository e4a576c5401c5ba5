package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/inkwell-edu/inkwell-backend/internal/config"
	"github.com/inkwell-edu/inkwell-backend/internal/model"
	"github.com/inkwell-edu/inkwell-backend/internal/repository"
)

// ErrEmailTaken is returned when registering with an email that already
// has an account.
var ErrEmailTaken = errors.New("email already registered")

// UserService handles account registration and lookup.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, cfg *config.Config, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		cfg:      cfg,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates a new account. Accounts are students by default; a
// request carrying the configured staff invite code becomes a staff
// account instead. A wrong invite code falls back to student rather than
// failing, so the code's existence is not probeable.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	role := model.RoleStudent
	if req.InviteCode != "" && s.cfg.StaffInviteCode != "" && req.InviteCode == s.cfg.StaffInviteCode {
		role = model.RoleStaff
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and returns the user.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns a user by id.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
