package services

import (
	"context"

	"depot-backend/internal/auth"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "DepotBackend"

type TOTPService struct {
	userRepo *repositories.UserRepository
	totpRepo *repositories.TOTPRepository
}

func NewTOTPService(userRepo *repositories.UserRepository, totpRepo *repositories.TOTPRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo, totpRepo: totpRepo}
}

// GenerateSetup creates a new TOTP secret for a user. The secret is stored
// disabled until the user proves possession with a valid code.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.totpRepo.SaveSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		Issuer:      totpIssuer,
		AccountName: user.Email,
		OTPAuthURL:  key.URL(),
	}, nil
}

// VerifyAndEnable verifies a TOTP code and enables 2FA for the user
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	secret, _, err := s.totpRepo.GetSecret(ctx, userID)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrNoTOTPSecret
	}

	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}

	return s.totpRepo.Enable(ctx, userID)
}

// Verify validates a TOTP code during login step 2
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) (bool, error) {
	secret, enabled, err := s.totpRepo.GetSecret(ctx, userID)
	if err != nil {
		return false, err
	}
	if !enabled || secret == "" {
		return false, ErrTOTPNotEnabled
	}

	if !totp.Validate(code, secret) {
		return false, ErrInvalidTOTPCode
	}
	return true, nil
}

// Disable turns 2FA off after verifying password and current TOTP code
func (s *TOTPService) Disable(ctx context.Context, userID int, password, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return ErrInvalidPassword
	}

	secret, _, err := s.totpRepo.GetSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}

	return s.totpRepo.Disable(ctx, userID)
}

// GetStatus returns the 2FA status for a user
func (s *TOTPService) GetStatus(ctx context.Context, userID int) (*models.User2FAStatus, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := &models.User2FAStatus{Enabled: user.TOTPEnabled}
	if user.TOTPEnabled {
		enabledAt, err := s.totpRepo.EnabledAt(ctx, userID)
		if err == nil {
			status.EnabledAt = enabledAt
		}
	}
	return status, nil
}

// Custom errors
var (
	ErrNoTOTPSecret    = &TOTPError{Message: "2FA setup not initiated"}
	ErrInvalidTOTPCode = &TOTPError{Message: "invalid verification code"}
	ErrTOTPNotEnabled  = &TOTPError{Message: "2FA is not enabled"}
	ErrInvalidPassword = &TOTPError{Message: "invalid password"}
)

type TOTPError struct {
	Message string
}

func (e *TOTPError) Error() string {
	return e.Message
}
