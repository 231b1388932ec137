package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs an API token for a user.
type TokenIssuer interface {
	IssueToken(user *models.User) (string, error)
}

// IdentityVerifier resolves an OAuth access token to the identity it was
// issued for.
type IdentityVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*models.OAuthIdentity, error)
}

type UserService struct {
	clock
	store    store.Users
	tokens   TokenIssuer
	verifier IdentityVerifier
}

// NewUserService builds the service. verifier may be nil when Google
// sign-in is not configured.
func NewUserService(s store.Users, tokens TokenIssuer, verifier IdentityVerifier) *UserService {
	return &UserService{clock: newClock(), store: s, tokens: tokens, verifier: verifier}
}

func (s *UserService) Signup(ctx context.Context, in models.SignupRequest) (*models.AuthResponse, error) {
	user, err := s.newPasswordUser(in, models.RoleClient)
	if err != nil {
		return nil, err
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *UserService) newPasswordUser(in models.SignupRequest, role models.Role) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("name, email and password are required")
	}
	if !isValidEmail(email) {
		return nil, validationError("Invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, validationError("Password must be at least 6 characters")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !isValidPhone(phone) {
		return nil, validationError("Phone must be exactly 10 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        phone,
		Occupation:   strings.TrimSpace(in.Occupation),
		HowHeard:     strings.TrimSpace(in.HowHeard),
		CreatedAt:    s.now(),
	}, nil
}

func (s *UserService) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthorizedError("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, unauthorizedError("This account uses Google sign-in")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, unauthorizedError("Invalid email or password")
	}
	return s.authResponse(user)
}

// GoogleSignup registers a client from a verified Google identity.
func (s *UserService) GoogleSignup(ctx context.Context, in models.GoogleAuthRequest) (*models.AuthResponse, error) {
	identity, err := s.verify(ctx, in.AccessToken)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !isValidPhone(phone) {
		return nil, validationError("Phone must be exactly 10 digits")
	}

	subject := identity.Subject
	user := &models.User{
		ID:         uuid.New(),
		Name:       name,
		Email:      normalizeEmail(identity.Email),
		GoogleID:   &subject,
		Role:       models.RoleClient,
		Phone:      phone,
		Occupation: strings.TrimSpace(in.Occupation),
		HowHeard:   strings.TrimSpace(in.HowHeard),
		CreatedAt:  s.now(),
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

// GoogleLogin issues a token for an already registered user.
func (s *UserService) GoogleLogin(ctx context.Context, in models.GoogleAuthRequest) (*models.AuthResponse, error) {
	identity, err := s.verify(ctx, in.AccessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(identity.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthorizedError("User not registered. Please sign up first")
	}
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *UserService) verify(ctx context.Context, accessToken string) (*models.OAuthIdentity, error) {
	if s.verifier == nil {
		return nil, unavailableError("Google sign-in is not configured")
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, validationError("accessToken is required")
	}
	identity, err := s.verifier.VerifyAccessToken(ctx, accessToken)
	if err != nil || identity.Email == "" {
		return nil, unauthorizedError("Invalid Google access token")
	}
	return identity, nil
}

// CreateAdmin provisions an admin account. Admins are never created
// through the public API.
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.newPasswordUser(models.SignupRequest{Name: name, Email: email, Password: password}, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsersByRole(ctx, models.RoleAdmin)
}

func (s *UserService) GetAdmin(ctx context.Context, idStr string) (*models.User, error) {
	id, err := parseID(idStr, "admin id")
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Admin not found")
	}
	if user.Role != models.RoleAdmin {
		return nil, notFoundError("Admin not found")
	}
	return user, nil
}

func (s *UserService) ListClients(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsersByRole(ctx, models.RoleClient)
}

func (s *UserService) createUser(ctx context.Context, user *models.User) error {
	err := s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return validationError("User already exists")
	}
	return err
}

func (s *UserService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
