package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/edutrack/internal/dbx"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/answers"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/progress"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/users"
)

// RepositoryManager binds repositories to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Progress(db dbx.DBTX) progress.Repository
	Answers(db dbx.DBTX) answers.Repository
	Catalog(db dbx.DBTX) catalog.Repository
}
