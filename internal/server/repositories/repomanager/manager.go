package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can run several of them in one unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Notes(db dbx.DBTX) notes.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
