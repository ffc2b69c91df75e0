package service

import (
	"context"
	"errors"

	"go-salepoint/internal/model"
	"go-salepoint/internal/repository"
	"go-salepoint/pkg/googleauth"
	"go-salepoint/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	verifier googleauth.Verifier
}

func NewAuthService(userRepo repository.UserRepository, verifier googleauth.Verifier) AuthService {
	return &authService{
		userRepo: userRepo,
		verifier: verifier,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GoogleLogin verifies the ID token with Google, then finds the linked
// account (by subject, falling back to email). First-time Google sign-ins
// get an employee account created on the spot.
func (s *authService) GoogleLogin(ctx context.Context, idToken string) (*LoginResponse, error) {
	profile, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	user, err := s.userRepo.FindByGoogleID(profile.Subject)
	if err != nil {
		// Not linked yet: link by email, or provision a fresh account
		user, err = s.userRepo.FindByEmail(profile.Email)
		if err != nil {
			user = &model.User{
				Email:    profile.Email,
				Name:     profile.Name,
				Avatar:   profile.Picture,
				Role:     model.RoleEmployee,
				GoogleID: profile.Subject,
				IsActive: true,
			}
			if err := s.userRepo.Create(user); err != nil {
				return nil, err
			}
		} else {
			user.GoogleID = profile.Subject
			if user.Avatar == "" {
				user.Avatar = profile.Picture
			}
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
		}
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueToken(user)
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	// 2. Verify old password
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	// 3. Set new password
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	// 4. Update the password column
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) issueToken(user *model.User) (*LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
