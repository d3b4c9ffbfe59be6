package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/dto"
)

// HomeRepository defines persistence operations for listings and inquiries
type HomeRepository interface {
	// Create inserts a new home and its images
	Create(ctx context.Context, home *domain.Home) error
	// GetByID retrieves a home with images, (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*domain.Home, error)
	// List retrieves homes matching the filter, first image attached
	List(ctx context.Context, filter *dto.HomeFilter) ([]*domain.Home, error)
	// GetRealtorID resolves a home to its owning realtor, "" when absent
	GetRealtorID(ctx context.Context, homeID string) (string, error)
	// Update persists changed listing fields
	Update(ctx context.Context, home *domain.Home) error
	// Delete removes a home and its images
	Delete(ctx context.Context, id string) error
	// CreateMessage inserts a buyer inquiry
	CreateMessage(ctx context.Context, msg *domain.Message) error
	// ListMessagesByHome retrieves all inquiries on a home
	ListMessagesByHome(ctx context.Context, homeID string) ([]*domain.Message, error)
}

// PostgresHomeRepository implements HomeRepository using PostgreSQL
type PostgresHomeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHomeRepository creates a new PostgresHomeRepository
func NewPostgresHomeRepository(pool *pgxpool.Pool) *PostgresHomeRepository {
	return &PostgresHomeRepository{pool: pool}
}

// Create inserts a new home and its images in one transaction
func (r *PostgresHomeRepository) Create(ctx context.Context, home *domain.Home) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO homes (id, address, city, price, land_size, bedrooms, bathrooms, property_type, realtor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, query,
		home.ID,
		home.Address,
		home.City,
		home.Price,
		home.LandSize,
		home.Bedrooms,
		home.Bathrooms,
		home.PropertyType,
		home.RealtorID,
		home.CreatedAt,
		home.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, img := range home.Images {
		_, err = tx.Exec(ctx,
			`INSERT INTO images (id, url, home_id) VALUES ($1, $2, $3)`,
			img.ID, img.URL, img.HomeID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a home with all its images
func (r *PostgresHomeRepository) GetByID(ctx context.Context, id string) (*domain.Home, error) {
	query := `
		SELECT id, address, city, price, land_size, bedrooms, bathrooms, property_type, realtor_id, created_at, updated_at
		FROM homes
		WHERE id = $1
	`
	home := &domain.Home{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&home.ID,
		&home.Address,
		&home.City,
		&home.Price,
		&home.LandSize,
		&home.Bedrooms,
		&home.Bathrooms,
		&home.PropertyType,
		&home.RealtorID,
		&home.CreatedAt,
		&home.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, url, home_id FROM images WHERE home_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.HomeID); err != nil {
			return nil, err
		}
		home.Images = append(home.Images, img)
	}
	return home, rows.Err()
}

// List retrieves homes matching the filter. Only the first image per home
// is attached, matching the list-view response shape.
func (r *PostgresHomeRepository) List(ctx context.Context, filter *dto.HomeFilter) ([]*domain.Home, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.City != "" {
		conds = append(conds, "h.city = "+arg(filter.City))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "h.price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "h.price <= "+arg(*filter.MaxPrice))
	}
	if filter.PropertyType != "" {
		conds = append(conds, "h.property_type = "+arg(string(filter.PropertyType)))
	}

	query := `
		SELECT h.id, h.address, h.city, h.price, h.land_size, h.bedrooms, h.bathrooms, h.property_type, h.realtor_id, h.created_at, h.updated_at,
		       COALESCE((SELECT i.url FROM images i WHERE i.home_id = h.id ORDER BY i.id LIMIT 1), '')
		FROM homes h
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY h.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var homes []*domain.Home
	for rows.Next() {
		home := &domain.Home{}
		var imageURL string
		err := rows.Scan(
			&home.ID,
			&home.Address,
			&home.City,
			&home.Price,
			&home.LandSize,
			&home.Bedrooms,
			&home.Bathrooms,
			&home.PropertyType,
			&home.RealtorID,
			&home.CreatedAt,
			&home.UpdatedAt,
			&imageURL,
		)
		if err != nil {
			return nil, err
		}
		if imageURL != "" {
			home.Images = []domain.Image{{URL: imageURL, HomeID: home.ID}}
		}
		homes = append(homes, home)
	}
	return homes, rows.Err()
}

// GetRealtorID resolves a home to its owning realtor
func (r *PostgresHomeRepository) GetRealtorID(ctx context.Context, homeID string) (string, error) {
	var realtorID string
	err := r.pool.QueryRow(ctx,
		`SELECT realtor_id FROM homes WHERE id = $1`, homeID).Scan(&realtorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return realtorID, nil
}

// Update persists changed listing fields
func (r *PostgresHomeRepository) Update(ctx context.Context, home *domain.Home) error {
	query := `
		UPDATE homes
		SET address = $2, city = $3, price = $4, land_size = $5, bedrooms = $6, bathrooms = $7, property_type = $8, updated_at = $9
		WHERE id = $1
	`
	home.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		home.ID,
		home.Address,
		home.City,
		home.Price,
		home.LandSize,
		home.Bedrooms,
		home.Bathrooms,
		home.PropertyType,
		home.UpdatedAt,
	)
	return err
}

// Delete removes a home with its images and inquiries
func (r *PostgresHomeRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE home_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM images WHERE home_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM homes WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateMessage inserts a buyer inquiry
func (r *PostgresHomeRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, body, home_id, realtor_id, buyer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.Body,
		msg.HomeID,
		msg.RealtorID,
		msg.BuyerID,
		msg.CreatedAt,
	)
	return err
}

// ListMessagesByHome retrieves all inquiries on a home, oldest first
func (r *PostgresHomeRepository) ListMessagesByHome(ctx context.Context, homeID string) ([]*domain.Message, error) {
	query := `
		SELECT id, body, home_id, realtor_id, buyer_id, created_at
		FROM messages
		WHERE home_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		msg := &domain.Message{}
		err := rows.Scan(
			&msg.ID,
			&msg.Body,
			&msg.HomeID,
			&msg.RealtorID,
			&msg.BuyerID,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
