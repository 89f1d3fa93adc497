package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophmarket/internal/dbx"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/audit"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
)

// RepositoryManager vends the shared (non per-owner) repositories.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Audit(db dbx.DBTX) audit.Repository
	Registrations(db dbx.DBTX) registrations.Repository
}
