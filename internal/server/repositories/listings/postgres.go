package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vpetrenko/realhome/internal/common"
	"github.com/vpetrenko/realhome/internal/dbx"
	"github.com/vpetrenko/realhome/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {

	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	// image_urls is stored as a JSONB document to keep the gallery ordered.
	urls, err := json.Marshal(listing.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal image urls: %w", err)
	}

	query :=
		`INSERT INTO listings
		   (id, name, description, address, type, bedrooms, bathrooms,
		    regular_price, discount_price, offer, parking, furnished,
		    image_urls, user_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		listing.ID, listing.Name, listing.Description, listing.Address,
		listing.Type, listing.Bedrooms, listing.Bathrooms,
		listing.RegularPrice, listing.DiscountPrice,
		listing.Offer, listing.Parking, listing.Furnished,
		urls, listing.UserRef).
		Scan(&listing.CreatedAt, &listing.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return listing, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query :=
		`SELECT id, name, description, address, type, bedrooms, bathrooms,
		        regular_price, discount_price, offer, parking, furnished,
		        image_urls, user_ref, created_at, updated_at
		 FROM listings
		 WHERE id = $1
		 `

	listing := &models.Listing{}
	var urls []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&listing.ID, &listing.Name, &listing.Description, &listing.Address,
		&listing.Type, &listing.Bedrooms, &listing.Bathrooms,
		&listing.RegularPrice, &listing.DiscountPrice,
		&listing.Offer, &listing.Parking, &listing.Furnished,
		&urls, &listing.UserRef, &listing.CreatedAt, &listing.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(urls, &listing.ImageURLs); err != nil {
		return nil, fmt.Errorf("unmarshal image urls: %w", err)
	}

	return listing, nil
}
