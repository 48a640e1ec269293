package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tradebook/internal/config"
	"tradebook/internal/domain"
	"tradebook/internal/port"
)

// RegisterInput is the DTO for operator self-registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// RegisterOutput contains the results of a successful registration.
type RegisterOutput struct {
	User   *domain.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// RegistrationService defines the self-registration contract.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
}

type registrationService struct {
	userRepo   port.UserRepository
	authSvc    AuthService
	billingCfg config.BillingConfig
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	userRepo port.UserRepository,
	authSvc AuthService,
	billingCfg config.BillingConfig,
) RegistrationService {
	return &registrationService{
		userRepo:   userRepo,
		authSvc:    authSvc,
		billingCfg: billingCfg,
	}
}

// Register creates a staff account. The very first account becomes admin,
// and is allowed even when signup is switched off.
func (s *registrationService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	existing, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	role := domain.RoleStaff
	if existing == 0 {
		role = domain.RoleAdmin
	} else if !s.billingCfg.AllowSignup {
		return nil, domain.ErrSignupDisabled
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrDuplicateEmail propagates naturally
	}
	log.Printf("registrationService.Register: created %s account %s", role, user.ID)

	tokens, err := s.authSvc.Login(ctx, LoginInput{Email: email, Password: input.Password})
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	return &RegisterOutput{User: user, Tokens: tokens}, nil
}
