package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/service"
)

// mockAuthService resolves canned tokens and accounts
type mockAuthService struct {
	tokens map[string]*domain.Claims
	users  map[string]*domain.User
}

func newMockAuthService() *mockAuthService {
	return &mockAuthService{
		tokens: make(map[string]*domain.Claims),
		users:  make(map[string]*domain.User),
	}
}

// addUser registers an account and a token that resolves to it
func (m *mockAuthService) addUser(token string, user *domain.User) {
	m.tokens[token] = &domain.Claims{UserID: user.ID, Name: user.Name}
	m.users[user.ID] = user
}

func (m *mockAuthService) Signup(ctx context.Context, req *dto.SignupRequest, role domain.Role) (*dto.AuthResponse, error) {
	return nil, nil
}

func (m *mockAuthService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	return nil, nil
}

func (m *mockAuthService) GenerateProductKey(ctx context.Context, email string, role domain.Role) (string, error) {
	return "", nil
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	claims, ok := m.tokens[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return claims, nil
}

func (m *mockAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return m.users[id], nil
}

// mockHomeService maps home ids to owning realtor ids
type mockHomeService struct {
	owners map[string]string
}

func newMockHomeService() *mockHomeService {
	return &mockHomeService{owners: make(map[string]string)}
}

func (m *mockHomeService) ListHomes(ctx context.Context, filter *dto.HomeFilter) ([]*domain.Home, error) {
	return nil, nil
}

func (m *mockHomeService) GetHome(ctx context.Context, id string) (*domain.Home, *domain.User, error) {
	return nil, nil, nil
}

func (m *mockHomeService) CreateHome(ctx context.Context, req *dto.CreateHomeRequest, realtorID string) (*domain.Home, error) {
	return nil, nil
}

func (m *mockHomeService) UpdateHome(ctx context.Context, id string, req *dto.UpdateHomeRequest) (*domain.Home, error) {
	return nil, nil
}

func (m *mockHomeService) DeleteHome(ctx context.Context, id string) error {
	return nil
}

func (m *mockHomeService) GetRealtorID(ctx context.Context, homeID string) (string, error) {
	realtorID, ok := m.owners[homeID]
	if !ok {
		return "", service.ErrHomeNotFound
	}
	return realtorID, nil
}

func (m *mockHomeService) Inquire(ctx context.Context, homeID, buyerID, message string) (*domain.Message, error) {
	return nil, nil
}

func (m *mockHomeService) ListMessages(ctx context.Context, homeID string) ([]*domain.Message, error) {
	return nil, nil
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := newMockAuthService()
	authSvc.addUser("good-token", &domain.User{ID: "user-1", Name: "Alice", Role: domain.RoleBuyer})
	authSvc.tokens["orphan-token"] = &domain.Claims{UserID: "deleted-user", Name: "Ghost"}

	router := gin.New()
	router.GET("/me", Authenticate(authSvc), okHandler)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer bad-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token for a deleted account",
			authHeader: "Bearer orphan-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := newMockAuthService()
	authSvc.addUser("buyer-token", &domain.User{ID: "buyer-1", Name: "Bob", Role: domain.RoleBuyer})
	authSvc.addUser("realtor-token", &domain.User{ID: "realtor-1", Name: "Rae", Role: domain.RoleRealtor})
	authSvc.addUser("admin-token", &domain.User{ID: "admin-1", Name: "Ada", Role: domain.RoleAdmin})

	router := gin.New()
	router.POST("/homes",
		Authenticate(authSvc),
		RequireRoles(domain.RoleRealtor, domain.RoleAdmin),
		okHandler)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{
			name:       "buyer is rejected",
			token:      "buyer-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "realtor is allowed",
			token:      "realtor-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin is allowed",
			token:      "admin-token",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/homes", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}
}

func TestRequireHomeOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authSvc := newMockAuthService()
	authSvc.addUser("owner-token", &domain.User{ID: "realtor-1", Name: "Rae", Role: domain.RoleRealtor})
	authSvc.addUser("other-token", &domain.User{ID: "realtor-2", Name: "Roy", Role: domain.RoleRealtor})
	authSvc.addUser("admin-token", &domain.User{ID: "admin-1", Name: "Ada", Role: domain.RoleAdmin})

	homeSvc := newMockHomeService()
	homeSvc.owners["home-1"] = "realtor-1"

	router := gin.New()
	router.DELETE("/homes/:id",
		Authenticate(authSvc),
		RequireRoles(domain.RoleRealtor, domain.RoleAdmin),
		RequireHomeOwner(homeSvc),
		okHandler)

	tests := []struct {
		name       string
		token      string
		homeID     string
		wantStatus int
	}{
		{
			name:       "owner may mutate",
			token:      "owner-token",
			homeID:     "home-1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "another realtor may not",
			token:      "other-token",
			homeID:     "home-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin must still own the listing",
			token:      "admin-token",
			homeID:     "home-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown home",
			token:      "owner-token",
			homeID:     "missing",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodDelete, "/homes/"+tt.homeID, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}
}
