package listings

import (
	"context"

	"github.com/vpetrenko/realhome/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
}
