package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopgate/internal/domain"
	"shopgate/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockTokenRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockTokenRepo) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockTokenRepo) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockTokenRepo) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func parseAccessToken(t *testing.T, tokenString, secret string) *Claims {
	t.Helper()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse access token: %v", err)
	}
	if !token.Valid {
		t.Fatal("access token is not valid")
	}
	return claims
}

func TestProperty_RegistrationHashesPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are stored as bcrypt hashes, never plaintext", prop.ForAll(
		func(email, password, name string) bool {
			userRepo := newMockUserRepo()
			tokenRepo := newMockTokenRepo()
			svc := NewAuthService(userRepo, tokenRepo, "test-secret")
			ctx := context.Background()

			user, err := svc.Register(ctx, email, password, name, "")
			if err != nil {
				return true
			}

			if user.Password == password {
				t.Logf("FAIL: password stored as plaintext for %s", email)
				return false
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
				t.Logf("FAIL: stored hash does not verify: %v", err)
				return false
			}

			stored, err := userRepo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: registered user not found: %v", err)
				return false
			}
			return stored.Password == user.Password
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockTokenRepo(), "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "password1", "Jo", ""); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Register(ctx, "jo@example.com", "password2", "Jo", "")
	if !errors.Is(err, repository.ErrUserAlreadyExists) {
		t.Errorf("got %v, want ErrUserAlreadyExists", err)
	}
}

func TestAuth_LoginIssuesValidTokens(t *testing.T) {
	userRepo := newMockUserRepo()
	tokenRepo := newMockTokenRepo()
	svc := NewAuthService(userRepo, tokenRepo, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, "jo@example.com", "hunter22", "Jo", "555-0100")
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	accessToken, refreshToken, user, err := svc.Login(ctx, "jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("login returned empty tokens")
	}
	if user.ID != registered.ID {
		t.Errorf("login user id = %s, want %s", user.ID, registered.ID)
	}

	claims := parseAccessToken(t, accessToken, "test-secret")
	if claims.UserID != registered.ID {
		t.Errorf("claims user id = %s, want %s", claims.UserID, registered.ID)
	}
	if claims.Role != "user" {
		t.Errorf("claims role = %s, want user", claims.Role)
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		t.Error("access token missing or past expiry")
	}

	if _, err := tokenRepo.FindByToken(ctx, refreshToken); err != nil {
		t.Errorf("refresh token not stored: %v", err)
	}
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockTokenRepo(), "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "hunter22", "Jo", ""); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "jo@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuth_RefreshRoundTrip(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockTokenRepo(), "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, "jo@example.com", "hunter22", "Jo", "")
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, refreshToken, _, err := svc.Login(ctx, "jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	newAccessToken, err := svc.RefreshToken(ctx, refreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	claims := parseAccessToken(t, newAccessToken, "test-secret")
	if claims.UserID != registered.ID {
		t.Errorf("refreshed token user id = %s, want %s", claims.UserID, registered.ID)
	}
}

func TestAuth_LogoutInvalidatesRefreshToken(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), newMockTokenRepo(), "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "hunter22", "Jo", ""); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	_, refreshToken, _, err := svc.Login(ctx, "jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(ctx, refreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := svc.RefreshToken(ctx, refreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh after logout: got %v, want ErrInvalidToken", err)
	}

	// Logging out again is a no-op, not an error.
	if err := svc.Logout(ctx, refreshToken); err != nil {
		t.Errorf("repeated logout: %v", err)
	}
}
