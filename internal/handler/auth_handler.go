package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/service"
	"github.com/proplist/realty-api/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles account creation
// POST /api/v1/auth/signup/:userType
func (h *AuthHandler) Signup(c *gin.Context) {
	role, err := domain.ParseRole(c.Param("userType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.ValidatePhone(); !valid {
		c.JSON(http.StatusBadRequest, response.Error("INVALID_PHONE", msg))
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, response.Error("EMAIL_TAKEN", "An account with this email already exists"))
		case errors.Is(err, service.ErrProductKeyRequired), errors.Is(err, service.ErrInvalidProductKey):
			c.JSON(http.StatusUnauthorized, response.Unauthorized("A valid product key is required for this role"))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Signin handles authentication of an existing account
// POST /api/v1/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), &req)
	if err != nil {
		// Unknown email and wrong password produce the same response
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, response.Error("INVALID_CREDENTIALS", "Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// GenerateKey mints a product key for a prospective privileged account
// POST /api/v1/auth/key
func (h *AuthHandler) GenerateKey(c *gin.Context) {
	var req dto.GenerateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	role, err := domain.ParseRole(req.UserType)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	key, err := h.authService.GenerateProductKey(c.Request.Context(), req.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.ProductKeyResponse{ProductKey: key}))
}
