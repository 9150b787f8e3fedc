package repomanager

import (
	"context"
	"database/sql"

	"github.com/vpetrenko/realhome/internal/dbx"
	"github.com/vpetrenko/realhome/internal/server/repositories/listings"
	"github.com/vpetrenko/realhome/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Listings(db dbx.DBTX) listings.Repository
}
