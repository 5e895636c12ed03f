package services

import (
	"context"
	"errors"

	"depot-backend/internal/auth"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	TOTPSvc    *TOTPService
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// SetTOTPService wires 2FA verification into the login flow
func (s *UserService) SetTOTPService(totpSvc *TOTPService) {
	s.TOTPSvc = totpSvc
}

// Signup creates a new user with hashed password. Self-registered accounts
// start as clerks; an admin promotes them.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	existingUser, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         models.RoleClerk,
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates a user. Accounts with 2FA enabled get a short-lived
// temp token instead of a session; the real token comes from Verify2FA.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *models.LoginStep1Response, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, errors.New("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, errors.New("account is deactivated")
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, nil, err
		}
		return nil, &models.LoginStep1Response{
			Requires2FA: true,
			TempToken:   tempToken,
			Message:     "enter your authenticator code",
		}, nil
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil, nil
}

// Verify2FA completes a 2FA login: the temp token from step 1 plus a valid
// authenticator code yield the real session token.
func (s *UserService) Verify2FA(ctx context.Context, req *models.TOTPVerifyRequest) (*models.AuthResponse, error) {
	if s.TOTPSvc == nil {
		return nil, errors.New("2FA is not configured")
	}

	claims, err := s.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		return nil, errors.New("invalid or expired login session")
	}

	if _, err := s.TOTPSvc.Verify(ctx, claims.UserID, req.Code); err != nil {
		return nil, err
	}

	user, err := s.Repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// CreateUser is the admin path for adding staff accounts
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleOperator, models.RoleClerk:
	default:
		return nil, errors.New("invalid role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns one user
func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser updates a user; a non-empty password is re-hashed
func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		switch req.Role {
		case models.RoleAdmin, models.RoleOperator, models.RoleClerk:
			user.Role = req.Role
		default:
			return nil, errors.New("invalid role")
		}
	}

	var newHash string
	if req.Password != "" {
		newHash, err = auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Update(ctx, user, newHash); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleActive flips a user's active flag
func (s *UserService) ToggleActive(ctx context.Context, id int) error {
	return s.Repo.ToggleActive(ctx, id)
}

// DeleteUser removes a user account
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
