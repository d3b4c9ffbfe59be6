package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/middleware"
	"github.com/proplist/realty-api/internal/service"
	"github.com/proplist/realty-api/pkg/response"
)

// HomeHandler handles listing and inquiry HTTP requests
type HomeHandler struct {
	homeService service.HomeService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(homeService service.HomeService) *HomeHandler {
	return &HomeHandler{homeService: homeService}
}

// List handles filtered listing search
// GET /api/v1/homes
func (h *HomeHandler) List(c *gin.Context) {
	filter := &dto.HomeFilter{City: c.Query("city")}

	if raw := c.Query("minPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.BadRequest("minPrice must be a number"))
			return
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("maxPrice"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.BadRequest("maxPrice must be a number"))
			return
		}
		filter.MaxPrice = &price
	}
	if raw := c.Query("propertyType"); raw != "" {
		propertyType, err := domain.ParsePropertyType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
			return
		}
		filter.PropertyType = propertyType
	}

	homes, err := h.homeService.ListHomes(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("No homes matched the given filters"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	results := make([]dto.HomeResponse, 0, len(homes))
	for _, home := range homes {
		results = append(results, dto.NewHomeResponse(home, false))
	}
	c.JSON(http.StatusOK, response.Success(results))
}

// Get handles single-listing retrieval
// GET /api/v1/homes/:id
func (h *HomeHandler) Get(c *gin.Context) {
	home, realtor, err := h.homeService.GetHome(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Home not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	resp := dto.NewHomeResponse(home, true)
	if realtor != nil {
		resp.Realtor = &dto.RealtorResponse{
			Name:  realtor.Name,
			Email: realtor.Email,
			Phone: realtor.Phone,
		}
	}
	c.JSON(http.StatusOK, response.Success(resp))
}

// Create handles listing creation; the caller becomes the owning realtor
// POST /api/v1/homes
func (h *HomeHandler) Create(c *gin.Context) {
	var req dto.CreateHomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	home, err := h.homeService.CreateHome(c.Request.Context(), &req, c.GetString(middleware.ContextUserID))
	if err != nil {
		if errors.Is(err, service.ErrInvalidPropertyType) {
			c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.NewHomeResponse(home, true)))
}

// Update handles listing mutation; ownership is enforced by middleware
// PUT /api/v1/homes/:id
func (h *HomeHandler) Update(c *gin.Context) {
	var req dto.UpdateHomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	home, err := h.homeService.UpdateHome(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHomeNotFound):
			c.JSON(http.StatusNotFound, response.NotFound("Home not found"))
		case errors.Is(err, service.ErrInvalidPropertyType):
			c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.NewHomeResponse(home, true)))
}

// Delete handles listing removal; ownership is enforced by middleware
// DELETE /api/v1/homes/:id
func (h *HomeHandler) Delete(c *gin.Context) {
	if err := h.homeService.DeleteHome(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Home not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": true}))
}

// Inquire records a buyer message on a listing
// POST /api/v1/homes/:id/inquire
func (h *HomeHandler) Inquire(c *gin.Context) {
	var req dto.InquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	msg, err := h.homeService.Inquire(c.Request.Context(),
		c.Param("id"), c.GetString(middleware.ContextUserID), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrHomeNotFound) {
			c.JSON(http.StatusNotFound, response.NotFound("Home not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(dto.NewMessageResponse(msg)))
}

// ListMessages returns the inquiry thread for a listing; restricted to the
// owning realtor by middleware
// GET /api/v1/homes/:id/messages
func (h *HomeHandler) ListMessages(c *gin.Context) {
	msgs, err := h.homeService.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	results := make([]dto.MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		results = append(results, dto.NewMessageResponse(msg))
	}
	c.JSON(http.StatusOK, response.Success(results))
}
