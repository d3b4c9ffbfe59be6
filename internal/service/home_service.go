package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
	"github.com/proplist/realty-api/internal/repository"
	"github.com/proplist/realty-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrHomeNotFound        = errors.New("home not found")
	ErrInvalidPropertyType = errors.New("invalid property type")
)

// HomeService defines listing and inquiry operations
type HomeService interface {
	// ListHomes retrieves listings matching the filter;
	// ErrHomeNotFound when nothing matches
	ListHomes(ctx context.Context, filter *dto.HomeFilter) ([]*domain.Home, error)
	// GetHome retrieves one listing with images and realtor contact
	GetHome(ctx context.Context, id string) (*domain.Home, *domain.User, error)
	// CreateHome creates a listing owned by the given realtor
	CreateHome(ctx context.Context, req *dto.CreateHomeRequest, realtorID string) (*domain.Home, error)
	// UpdateHome applies the non-nil fields of req to a listing
	UpdateHome(ctx context.Context, id string, req *dto.UpdateHomeRequest) (*domain.Home, error)
	// DeleteHome removes a listing with its images and inquiries
	DeleteHome(ctx context.Context, id string) error
	// GetRealtorID resolves a listing to its owning account;
	// ErrHomeNotFound when the listing is absent
	GetRealtorID(ctx context.Context, homeID string) (string, error)
	// Inquire records a buyer message on a listing
	Inquire(ctx context.Context, homeID, buyerID, message string) (*domain.Message, error)
	// ListMessages retrieves all inquiries on a listing
	ListMessages(ctx context.Context, homeID string) ([]*domain.Message, error)
}

// homeService implements HomeService
type homeService struct {
	homeRepo repository.HomeRepository
	userRepo repository.UserRepository
}

// NewHomeService creates a new HomeService
func NewHomeService(homeRepo repository.HomeRepository, userRepo repository.UserRepository) HomeService {
	return &homeService{
		homeRepo: homeRepo,
		userRepo: userRepo,
	}
}

// ListHomes retrieves listings matching the filter
func (s *homeService) ListHomes(ctx context.Context, filter *dto.HomeFilter) ([]*domain.Home, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.list")
	defer span.End()

	homes, err := s.homeRepo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(homes) == 0 {
		span.SetStatus(codes.Error, "no homes matched")
		return nil, ErrHomeNotFound
	}

	span.SetAttributes(attribute.Int("count", len(homes)))
	span.SetStatus(codes.Ok, "")
	return homes, nil
}

// GetHome retrieves one listing along with its realtor's contact details
func (s *homeService) GetHome(ctx context.Context, id string) (*domain.Home, *domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.get")
	defer span.End()

	span.SetAttributes(attribute.String("home_id", id))

	home, err := s.homeRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if home == nil {
		span.SetStatus(codes.Error, "home not found")
		return nil, nil, ErrHomeNotFound
	}

	realtor, err := s.userRepo.GetByID(ctx, home.RealtorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetStatus(codes.Ok, "")
	return home, realtor, nil
}

// CreateHome creates a listing owned by the calling realtor
func (s *homeService) CreateHome(ctx context.Context, req *dto.CreateHomeRequest, realtorID string) (*domain.Home, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.create")
	defer span.End()

	span.SetAttributes(attribute.String("realtor_id", realtorID))

	propertyType, err := domain.ParsePropertyType(req.PropertyType)
	if err != nil {
		span.SetStatus(codes.Error, "invalid property type")
		return nil, ErrInvalidPropertyType
	}

	now := time.Now()
	home := &domain.Home{
		ID:           uuid.New().String(),
		Address:      req.Address,
		City:         req.City,
		Price:        req.Price,
		LandSize:     req.LandSize,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		PropertyType: propertyType,
		RealtorID:    realtorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, img := range req.Images {
		home.Images = append(home.Images, domain.Image{
			ID:     uuid.New().String(),
			URL:    img.URL,
			HomeID: home.ID,
		})
	}

	if err := s.homeRepo.Create(ctx, home); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("home_id", home.ID))
	span.SetStatus(codes.Ok, "")
	return home, nil
}

// UpdateHome applies the non-nil fields of req to a listing
func (s *homeService) UpdateHome(ctx context.Context, id string, req *dto.UpdateHomeRequest) (*domain.Home, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.update")
	defer span.End()

	span.SetAttributes(attribute.String("home_id", id))

	home, err := s.homeRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if home == nil {
		span.SetStatus(codes.Error, "home not found")
		return nil, ErrHomeNotFound
	}

	if req.Address != nil {
		home.Address = *req.Address
	}
	if req.City != nil {
		home.City = *req.City
	}
	if req.Price != nil {
		home.Price = *req.Price
	}
	if req.LandSize != nil {
		home.LandSize = *req.LandSize
	}
	if req.Bedrooms != nil {
		home.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		home.Bathrooms = *req.Bathrooms
	}
	if req.PropertyType != nil {
		propertyType, err := domain.ParsePropertyType(*req.PropertyType)
		if err != nil {
			span.SetStatus(codes.Error, "invalid property type")
			return nil, ErrInvalidPropertyType
		}
		home.PropertyType = propertyType
	}

	if err := s.homeRepo.Update(ctx, home); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return home, nil
}

// DeleteHome removes a listing with its images and inquiries
func (s *homeService) DeleteHome(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.home.delete")
	defer span.End()

	span.SetAttributes(attribute.String("home_id", id))

	realtorID, err := s.homeRepo.GetRealtorID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if realtorID == "" {
		span.SetStatus(codes.Error, "home not found")
		return ErrHomeNotFound
	}

	if err := s.homeRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetRealtorID resolves a listing to the account that owns it
func (s *homeService) GetRealtorID(ctx context.Context, homeID string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.get_realtor_id")
	defer span.End()

	span.SetAttributes(attribute.String("home_id", homeID))

	realtorID, err := s.homeRepo.GetRealtorID(ctx, homeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if realtorID == "" {
		span.SetStatus(codes.Error, "home not found")
		return "", ErrHomeNotFound
	}

	span.SetStatus(codes.Ok, "")
	return realtorID, nil
}

// Inquire records a buyer message on a listing, addressed to its realtor
func (s *homeService) Inquire(ctx context.Context, homeID, buyerID, message string) (*domain.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.inquire")
	defer span.End()

	span.SetAttributes(
		attribute.String("home_id", homeID),
		attribute.String("buyer_id", buyerID),
	)

	realtorID, err := s.homeRepo.GetRealtorID(ctx, homeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if realtorID == "" {
		span.SetStatus(codes.Error, "home not found")
		return nil, ErrHomeNotFound
	}

	msg := &domain.Message{
		ID:        uuid.New().String(),
		Body:      message,
		HomeID:    homeID,
		RealtorID: realtorID,
		BuyerID:   buyerID,
		CreatedAt: time.Now(),
	}
	if err := s.homeRepo.CreateMessage(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return msg, nil
}

// ListMessages retrieves all inquiries on a listing
func (s *homeService) ListMessages(ctx context.Context, homeID string) ([]*domain.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.home.list_messages")
	defer span.End()

	span.SetAttributes(attribute.String("home_id", homeID))

	msgs, err := s.homeRepo.ListMessagesByHome(ctx, homeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return msgs, nil
}
