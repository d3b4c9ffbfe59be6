package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/service"
	"github.com/proplist/realty-api/pkg/response"
	"github.com/stretchr/testify/assert"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	takenEmails map[string]bool
	validKey    string
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		takenEmails: make(map[string]bool),
		validKey:    "valid-product-key",
	}
}

func (m *MockAuthService) Signup(ctx context.Context, req *dto.SignupRequest, role domain.Role) (*dto.AuthResponse, error) {
	if role != domain.RoleBuyer {
		if req.ProductKey == "" {
			return nil, service.ErrProductKeyRequired
		}
		if req.ProductKey != m.validKey {
			return nil, service.ErrInvalidProductKey
		}
	}
	if m.takenEmails[req.Email] {
		return nil, service.ErrEmailTaken
	}
	m.takenEmails[req.Email] = true
	return &dto.AuthResponse{Token: "signed-token", ExpiresIn: 3600}, nil
}

func (m *MockAuthService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.AuthResponse, error) {
	if !m.takenEmails[req.Email] || req.Password != "secret" {
		return nil, service.ErrInvalidCredentials
	}
	return &dto.AuthResponse{Token: "signed-token", ExpiresIn: 3600}, nil
}

func (m *MockAuthService) GenerateProductKey(ctx context.Context, email string, role domain.Role) (string, error) {
	return m.validKey, nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (m *MockAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return nil, nil
}

func setupAuthRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := router.Group("/auth")
	{
		auth.POST("/signup/:userType", h.Signup)
		auth.POST("/signin", h.Signin)
		auth.POST("/key", h.GenerateKey)
	}

	return router
}

func signupBody(email, productKey string) []byte {
	body, _ := json.Marshal(map[string]string{
		"name":       "Alice",
		"phone":      "+1 (555) 123-4567",
		"email":      email,
		"password":   "secret",
		"productKey": productKey,
	})
	return body
}

func TestAuthHandler_Signup(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler)

	mockSvc.takenEmails["taken@example.com"] = true

	tests := []struct {
		name       string
		userType   string
		body       []byte
		wantStatus int
	}{
		{
			name:       "buyer signup",
			userType:   "buyer",
			body:       signupBody("a@x.com", ""),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			userType:   "buyer",
			body:       signupBody("taken@example.com", ""),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "realtor without product key",
			userType:   "realtor",
			body:       signupBody("r1@example.com", ""),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "realtor with a bogus product key",
			userType:   "realtor",
			body:       signupBody("r2@example.com", "not-a-key"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "realtor with a valid product key",
			userType:   "realtor",
			body:       signupBody("r3@example.com", "valid-product-key"),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown role",
			userType:   "landlord",
			body:       signupBody("l@example.com", ""),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed phone",
			userType:   "buyer",
			body:       []byte(`{"name":"Alice","phone":"12","email":"p@x.com","password":"secret"}`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			userType:   "buyer",
			body:       []byte(`{"name":"Alice","phone":"+1 (555) 123-4567","email":"s@x.com","password":"abc"}`),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/auth/signup/"+tt.userType, bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAuthHandler_Signin(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler)

	mockSvc.takenEmails["a@x.com"] = true

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "correct credentials",
			body:       `{"email":"a@x.com","password":"secret"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"email":"a@x.com","password":"nope1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown email",
			body:       `{"email":"nobody@x.com","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing password",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/auth/signin", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAuthHandler_SignupResponseBody(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler)

	req, _ := http.NewRequest(http.MethodPost, "/auth/signup/buyer", bytes.NewReader(signupBody("a@x.com", "")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &envelope)
	assert.NoError(t, err)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.Token)
	assert.Equal(t, int64(3600), envelope.Data.ExpiresIn)
}

func TestAuthHandler_SigninErrorBody(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler)

	req, _ := http.NewRequest(http.MethodPost, "/auth/signin",
		bytes.NewBufferString(`{"email":"nobody@x.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Response
	err := json.Unmarshal(w.Body.Bytes(), &envelope)
	assert.NoError(t, err)
	assert.False(t, envelope.Success)
	if assert.NotNil(t, envelope.Error) {
		assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
	}
}

func TestAuthHandler_GenerateKey(t *testing.T) {
	mockSvc := NewMockAuthService()
	handler := NewAuthHandler(mockSvc)
	router := setupAuthRouter(handler)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "realtor key",
			body:       `{"email":"r@x.com","userType":"REALTOR"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown role",
			body:       `{"email":"r@x.com","userType":"WIZARD"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       `{"userType":"REALTOR"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/auth/key", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
		})
	}
}
