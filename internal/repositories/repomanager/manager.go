package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/legaflow/internal/dbx"
	"github.com/dmitrijs2005/legaflow/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
