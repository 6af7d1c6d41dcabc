package photoshare

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager hands out the typed repositories and scopes
// multi-repository work to a single transaction.
type RepositoryManager interface {
	Users() Users
	Images() Images
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

type repositoryManager struct {
	db     *bun.DB
	users  Users
	images Images
}

var _ RepositoryManager = (*repositoryManager)(nil)

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	// bun resolves m2m joins through registered models.
	db.RegisterModel((*ImageTag)(nil))

	return &repositoryManager{
		db:     db,
		users:  NewUsersRepository(db),
		images: NewImagesRepository(db),
	}
}

func (m *repositoryManager) Users() Users {
	return m.users
}

func (m *repositoryManager) Images() Images {
	return m.images
}

func (m *repositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "transaction canceled before start")
	default:
	}

	return m.db.RunInTx(ctx, opts, fn)
}
