package dto

import (
	"time"

	"github.com/proplist/realty-api/internal/domain"
)

// CreateHomeRequest is the request body for POST /homes
type CreateHomeRequest struct {
	Address      string               `json:"address" binding:"required"`
	City         string               `json:"city" binding:"required"`
	Price        float64              `json:"price" binding:"required,gt=0"`
	LandSize     float64              `json:"landSize" binding:"required,gt=0"`
	Bedrooms     int                  `json:"numberOfBedrooms" binding:"required,gt=0"`
	Bathrooms    int                  `json:"numberOfBathrooms" binding:"required,gt=0"`
	PropertyType string               `json:"propertyType" binding:"required"`
	Images       []CreateImageRequest `json:"images" binding:"required,min=1,dive"`
}

// CreateImageRequest is a single listing photo
type CreateImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// UpdateHomeRequest is the request body for PUT /homes/:id.
// All fields are optional; nil means leave unchanged.
type UpdateHomeRequest struct {
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	Price        *float64 `json:"price"`
	LandSize     *float64 `json:"landSize"`
	Bedrooms     *int     `json:"numberOfBedrooms"`
	Bathrooms    *int     `json:"numberOfBathrooms"`
	PropertyType *string  `json:"propertyType"`
}

// HomeFilter narrows GET /homes results
type HomeFilter struct {
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType domain.PropertyType
}

// RealtorResponse is the contact block embedded in a single-home response
type RealtorResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// HomeResponse is the API shape of a listing
type HomeResponse struct {
	ID           string           `json:"id"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	Price        float64          `json:"price"`
	LandSize     float64          `json:"landSize,omitempty"`
	Bedrooms     int              `json:"numberOfBedrooms"`
	Bathrooms    int              `json:"numberOfBathrooms"`
	PropertyType string           `json:"propertyType"`
	Image        string           `json:"image,omitempty"`
	Images       []string         `json:"images,omitempty"`
	Realtor      *RealtorResponse `json:"realtor,omitempty"`
	CreatedAt    string           `json:"created_at,omitempty"`
}

// NewHomeResponse converts a domain Home to its API shape. The list view
// carries only the first image; the detail view carries all of them.
func NewHomeResponse(home *domain.Home, detailed bool) HomeResponse {
	resp := HomeResponse{
		ID:           home.ID,
		Address:      home.Address,
		City:         home.City,
		Price:        home.Price,
		LandSize:     home.LandSize,
		Bedrooms:     home.Bedrooms,
		Bathrooms:    home.Bathrooms,
		PropertyType: string(home.PropertyType),
		CreatedAt:    home.CreatedAt.Format(time.RFC3339),
	}
	if detailed {
		for _, img := range home.Images {
			resp.Images = append(resp.Images, img.URL)
		}
	} else if len(home.Images) > 0 {
		resp.Image = home.Images[0].URL
	}
	return resp
}

// InquireRequest is the request body for POST /homes/:id/inquire
type InquireRequest struct {
	Message string `json:"message" binding:"required"`
}

// MessageResponse is the API shape of a buyer inquiry
type MessageResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	HomeID    string `json:"home_id"`
	BuyerID   string `json:"buyer_id"`
	CreatedAt string `json:"created_at"`
}

// NewMessageResponse converts a domain Message to its API shape
func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Message:   m.Body,
		HomeID:    m.HomeID,
		BuyerID:   m.BuyerID,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
