package handler

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vanpos-system/internal/apperr"
	"vanpos-system/internal/database/models"
	"vanpos-system/internal/store"
	"vanpos-system/internal/utils"
)

// UserService handles accounts and login tokens.
type UserService struct {
	store    store.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewUserService(st store.Store, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{store: st, secret: secret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "username, email and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if in.Role != models.RoleAdmin && in.Role != models.RoleStaff {
		return nil, apperr.Newf(apperr.KindValidation, "invalid role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindValidation, "invalid username or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid username or password")
	}

	token, exp, err := utils.GenerateToken(s.secret, u.ID, u.Username, u.Role, s.tokenTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if next == "" {
		return apperr.New(apperr.KindValidation, "new password is required")
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return apperr.New(apperr.KindValidation, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return s.store.SaveUser(ctx, u)
}

// EnsureAdmin creates the initial admin account if no user with that
// name exists yet.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	_, err := s.store.UserByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}
	_, err = s.Register(ctx, RegisterInput{
		Username: "admin",
		Email:    "admin@vanpos.local",
		Password: password,
		Role:     models.RoleAdmin,
	})
	return err
}
