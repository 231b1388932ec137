package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency-desk-backend/internal/middleware"
	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]*models.OAuthIdentity

func (v fakeVerifier) VerifyAccessToken(ctx context.Context, accessToken string) (*models.OAuthIdentity, error) {
	identity, ok := v[accessToken]
	if !ok {
		return nil, errors.New("invalid JWT")
	}
	return identity, nil
}

func newUserService(st *memory.Store, verifier services.IdentityVerifier) (*services.UserService, *middleware.TokenManager) {
	tokens := middleware.NewTokenManager("test-secret-key-for-jwt-signing", time.Hour)
	return services.NewUserService(st, tokens, verifier), tokens
}

func TestSignupAndLogin(t *testing.T) {
	st := memory.New()
	svc, tokens := newUserService(st, nil)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, models.SignupRequest{
		Name:     "Jane Doe",
		Email:    " Jane@Example.com ",
		Password: "secret1",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, models.RoleClient, resp.User.Role)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)

	claims, err := tokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleClient, claims.Role)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "JANE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	requireKind(t, err, services.KindUnauthorized, "Invalid email or password")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	requireKind(t, err, services.KindUnauthorized, "Invalid email or password")

	_, err = svc.Signup(ctx, models.SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "secret2"})
	requireKind(t, err, services.KindValidation, "User already exists")
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newUserService(memory.New(), nil)

	tests := []struct {
		name string
		in   models.SignupRequest
		want string
	}{
		{"missing name", models.SignupRequest{Email: "a@b.co", Password: "secret1"}, "required"},
		{"bad email", models.SignupRequest{Name: "A", Email: "not-an-email", Password: "secret1"}, "Invalid email"},
		{"short password", models.SignupRequest{Name: "A", Email: "a@b.co", Password: "123"}, "at least 6"},
		{"bad phone", models.SignupRequest{Name: "A", Email: "a@b.co", Password: "secret1", Phone: "12"}, "10 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.in)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}
}

func TestGoogleSignupAndLogin(t *testing.T) {
	st := memory.New()
	verifier := fakeVerifier{
		"good-token": {Subject: "google-123", Email: "sam@example.com", Name: "Sam"},
	}
	svc, _ := newUserService(st, verifier)
	ctx := context.Background()

	_, err := svc.GoogleLogin(ctx, models.GoogleAuthRequest{AccessToken: "good-token"})
	requireKind(t, err, services.KindUnauthorized, "sign up first")

	resp, err := svc.GoogleSignup(ctx, models.GoogleAuthRequest{AccessToken: "good-token", Occupation: "Founder"})
	require.NoError(t, err)
	assert.Equal(t, "Sam", resp.User.Name)
	require.NotNil(t, resp.User.GoogleID)
	assert.Equal(t, "google-123", *resp.User.GoogleID)
	assert.Equal(t, "Founder", resp.User.Occupation)

	login, err := svc.GoogleLogin(ctx, models.GoogleAuthRequest{AccessToken: "good-token"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.GoogleSignup(ctx, models.GoogleAuthRequest{AccessToken: "good-token"})
	requireKind(t, err, services.KindValidation, "User already exists")

	_, err = svc.GoogleLogin(ctx, models.GoogleAuthRequest{AccessToken: "forged"})
	requireKind(t, err, services.KindUnauthorized, "Invalid Google access token")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "sam@example.com", Password: "anything"})
	requireKind(t, err, services.KindUnauthorized, "Google sign-in")
}

func TestGoogleSignIn_NotConfigured(t *testing.T) {
	svc, _ := newUserService(memory.New(), nil)

	_, err := svc.GoogleLogin(context.Background(), models.GoogleAuthRequest{AccessToken: "token"})

	requireKind(t, err, services.KindUnavailable, "not configured")
}

func TestAdminsAndClients(t *testing.T) {
	st := memory.New()
	svc, _ := newUserService(st, nil)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "Root", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	client := seedUser(t, st, "client", models.RoleClient)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	got, err := svc.GetAdmin(ctx, admin.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", got.Email)

	_, err = svc.GetAdmin(ctx, client.ID.String())
	requireKind(t, err, services.KindNotFound, "Admin not found")

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, client.ID, clients[0].ID)
}

func TestDashboardStats(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	seedUser(t, f.store, "second-client", models.RoleClient)

	dashboard := services.NewDashboardService(f.store)
	stats, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.PendingPayments)
	assert.Equal(t, 2, stats.TotalClients)

	_, err = f.svc.Update(ctx, f.project.ID.String(), models.UpdateProjectRequest{PaymentStatus: ptr(true)})
	require.NoError(t, err)

	stats, err = dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.PendingPayments)
}
